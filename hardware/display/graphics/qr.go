package graphics

import (
	"image"

	"github.com/juju/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// QR renders text as a QR code centered on the frame, one module per
// pixel. Unlike the drawing primitives this returns an error: a code
// that cannot be generated or does not fit the panel is a caller
// problem, not a clipped pixel.
func (g *Graphics) QR(text string, border bool, level qrcode.RecoveryLevel) error {
	if g.frame == nil {
		return errors.Errorf("graphics QR after Close")
	}
	qr, err := qrcode.New(text, level)
	if err != nil {
		return errors.Annotate(err, "QR")
	}
	qr.DisableBorder = !border
	minSize := minInt(g.width, g.height)
	img := qr.Image(minSize).(*image.Paletted)
	if !img.Rect.In(image.Rectangle{Max: image.Point{X: g.width, Y: g.height}}) {
		return errors.Errorf("QR image size=%s > panel size=%dx%d",
			img.Bounds().Max.String(), g.width, g.height)
	}

	offX := (g.width - img.Rect.Dx()) / 2
	offY := (g.height - img.Rect.Dy()) / 2
	min, max := img.Bounds().Min, img.Bounds().Max
	for y := min.Y; y < max.Y; y++ {
		for x := min.X; x < max.X; x++ {
			c := g.fg
			// palette index 0 is the code background
			if img.Pix[img.PixOffset(x, y)] == 0 {
				c = g.bg
			}
			g.SetPixel(offX+x-min.X, offY+y-min.Y, c)
		}
	}
	return nil
}

func minInt(i1, i2 int) int {
	if i1 <= i2 {
		return i1
	}
	return i2
}

// Package display pushes the monochrome frame rendered by
// hardware/display/graphics onto a Linux framebuffer device, expanding
// each page-addressed bit into an RGB pixel. It stands in for a real
// panel on boards where the OLED is emulated or mirrored on /dev/fbN.
package display

import (
	"image"
	"image/color"

	"github.com/juju/errors"

	"github.com/hollingerc/avrkit/hardware/display/framebuffer"
)

var (
	colourOff = color.RGBA{0, 0, 0, 0xff}
	colourOn  = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// FbDev adapts a width×height monochrome frame to a framebuffer
// device. It implements graphics.Blitter.
type FbDev struct {
	fb   *framebuffer.Framebuffer
	pix  []color.RGBA
	size image.Point
	mono image.Point // size of the monochrome frame being blitted
}

// NewFb opens dev and prepares to blit mono frames of monoW×monoH.
func NewFb(dev string, monoW, monoH int) (*FbDev, error) {
	fb, err := framebuffer.New(dev)
	if err != nil {
		return nil, errors.Annotatef(err, "framebuffer device=%s", dev)
	}
	size := fb.Size()
	d := &FbDev{
		fb:   fb,
		pix:  make([]color.RGBA, size.X*size.Y),
		size: size,
		mono: image.Point{X: monoW, Y: monoH},
	}
	if monoW > size.X || monoH > size.Y {
		fb.Close()
		return nil, errors.Errorf("frame size=%s > framebuffer size=%s", d.mono.String(), size.String())
	}
	return d, nil
}

// NewMock builds an FbDev without a device; Blit only fills the pixel
// buffer.
func NewMock(size, mono image.Point) *FbDev {
	return &FbDev{
		pix:  make([]color.RGBA, size.X*size.Y),
		size: size,
		mono: mono,
	}
}

func (d *FbDev) Close() error {
	if d.fb != nil {
		d.fb.Close()
	}
	return nil
}

// Blit expands the page-addressed mono frame (one byte = 8 vertical
// pixels, bit 0 on top) into the corner of the pixel buffer and
// flushes it to the device.
func (d *FbDev) Blit(frame []byte) error {
	if len(frame) != d.mono.X*d.mono.Y/8 {
		return errors.Errorf("blit frame len=%d want=%d", len(frame), d.mono.X*d.mono.Y/8)
	}
	for y := 0; y < d.mono.Y; y++ {
		bit := byte(1) << uint(y&7)
		row := (y / 8) * d.mono.X
		for x := 0; x < d.mono.X; x++ {
			c := colourOff
			if frame[row+x]&bit != 0 {
				c = colourOn
			}
			d.set(x, y, c)
		}
	}
	return d.flush()
}

func (d *FbDev) Clear() error {
	for i := range d.pix {
		d.pix[i] = colourOff
	}
	return d.flush()
}

func (d *FbDev) flush() error {
	if d.fb == nil {
		return nil
	}
	if err := d.fb.Update(d.pix); err != nil {
		return err
	}
	return d.fb.Flush()
}

// String renders the pixel buffer as console art for bring-up tools.
func (d *FbDev) String() string {
	b := make([]byte, 0, (d.size.X*2+1)*d.size.Y)
	for y := 0; y < d.size.Y; y++ {
		for x := 0; x < d.size.X; x++ {
			c := d.get(x, y)
			if c.R == 0 && c.G == 0 && c.B == 0 {
				b = append(b, "  "...)
			} else {
				b = append(b, "██"...)
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}

func (d *FbDev) get(x, y int) color.RGBA    { return d.pix[y*d.size.X+x] }
func (d *FbDev) set(x, y int, c color.RGBA) { d.pix[y*d.size.X+x] = c }

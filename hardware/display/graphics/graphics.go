// Package graphics keeps an in-memory image of a monochrome OLED/LCD
// panel and draws primitives and text into it with integer arithmetic.
// The panel itself cannot be read back, so this buffer is the only
// authoritative copy; a transport driver pushes it to the device
// through the Blitter interface.
//
// The frame is page addressed: bytes run left to right, each byte is a
// vertical strip of 8 pixels with bit 0 on top. That matches the
// native memory layout of common monochrome controllers so Flush can
// hand over the buffer as-is.
//
// Drawing is fail-silent: out-of-range coordinates, colours and
// settings are ignored without an error, as the callers are typically
// fire-and-forget UI update paths.
package graphics

import (
	"strings"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"

	"github.com/hollingerc/avrkit/log2"
)

type Colour byte

const (
	Black Colour = iota
	White
	Inverse
	colourMax
)

// Rotation turns text rendering in 90° clockwise steps. Primitives are
// not rotated, matching the panel orientation they address directly.
type Rotation byte

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
	rotationMax
)

func (r Rotation) String() string {
	switch r {
	case Rotate0:
		return "0"
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	}
	return "invalid!"
}

// Panel dimension limit: one byte of column/page addressing.
const MaxDim = 256

// Blitter pushes a rendered frame to the physical panel. The transport
// (I2C, SPI, parallel) lives outside this package.
type Blitter interface {
	Blit(frame []byte) error
}

type Graphics struct {
	log    *log2.Log
	frame  []byte
	width  int
	height int

	cursorX  int
	cursorY  int
	textSize int
	fg       Colour
	bg       Colour
	rotation Rotation

	blitter Blitter
	tr      atomic.Value // charset.Translator
}

// New allocates a frame for a width×height panel. Height must be a
// multiple of 8 to fill whole pages.
func New(width, height int, log *log2.Log) (*Graphics, error) {
	if width < 1 || width > MaxDim || height < 1 || height > MaxDim {
		return nil, errors.NotValidf("graphics size=%dx%d", width, height)
	}
	if height%8 != 0 {
		return nil, errors.NotValidf("graphics height=%d not a multiple of 8", height)
	}
	g := &Graphics{
		log:      log,
		frame:    make([]byte, width*height/8),
		width:    width,
		height:   height,
		textSize: 1,
		fg:       White,
		bg:       Black,
	}
	g.Clear()
	return g, nil
}

// Close releases the frame; all further drawing is a no-op.
func (g *Graphics) Close() { g.frame = nil }

func (g *Graphics) Width() int  { return g.width }
func (g *Graphics) Height() int { return g.height }

// Frame exposes the live page-addressed buffer.
func (g *Graphics) Frame() []byte { return g.frame }

func (g *Graphics) SetBlitter(b Blitter) { g.blitter = b }

// Flush hands the current frame to the configured blitter.
func (g *Graphics) Flush() error {
	if g.frame == nil {
		return errors.Errorf("graphics flush after Close")
	}
	if g.blitter == nil {
		return nil
	}
	return errors.Annotate(g.blitter.Blit(g.frame), "graphics flush")
}

// Clear paints the whole frame in the background colour.
func (g *Graphics) Clear() {
	if g.frame == nil {
		return
	}
	switch g.bg {
	case Black:
		for i := range g.frame {
			g.frame[i] = 0x00
		}
	case White:
		for i := range g.frame {
			g.frame[i] = 0xff
		}
	case Inverse:
		for i := range g.frame {
			g.frame[i] = ^g.frame[i]
		}
	}
}

// SetCursor places the text origin. Off-panel positions are ignored.
func (g *Graphics) SetCursor(x, y int) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.cursorX = x
	g.cursorY = y
}

func (g *Graphics) Cursor() (x, y int) { return g.cursorX, g.cursorY }

// SetTextSize sets the glyph magnification, minimum 1.
func (g *Graphics) SetTextSize(size int) {
	if size < 1 {
		return
	}
	g.textSize = size
}

func (g *Graphics) SetRotation(r Rotation) {
	if r >= rotationMax {
		return
	}
	g.rotation = r
}

func (g *Graphics) SetFgColour(c Colour) {
	if c >= colourMax {
		return
	}
	g.fg = c
}

func (g *Graphics) SetBgColour(c Colour) {
	if c >= colourMax {
		return
	}
	g.bg = c
}

// SetPixel writes one pixel: Black clears the bit, White sets it,
// Inverse toggles. Out-of-range coordinates are ignored.
func (g *Graphics) SetPixel(x, y int, c Colour) {
	if g.frame == nil || x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	idx := (y/8)*g.width + x
	bit := byte(1) << uint(y&7)
	switch c {
	case Black:
		g.frame[idx] &^= bit
	case White:
		g.frame[idx] |= bit
	case Inverse:
		g.frame[idx] ^= bit
	}
}

// Pixel reads one pixel back from the frame, false when out of range.
func (g *Graphics) Pixel(x, y int) bool {
	if g.frame == nil || x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false
	}
	return g.frame[(y/8)*g.width+x]&(byte(1)<<uint(y&7)) != 0
}

// String renders the frame as console art, doubled horizontally to
// roughly square the aspect ratio.
func (g *Graphics) String() string {
	b := strings.Builder{}
	b.Grow((g.width*2 + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.Pixel(x, y) {
				b.WriteString("██")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteRune('\n')
	}
	return b.String()
}

// SetCodepage installs a translator so PutString accepts text in the
// given charset; the built-in font stays ASCII.
func (g *Graphics) SetCodepage(cp string) error {
	tr, err := charset.TranslatorTo(cp)
	if err != nil {
		return errors.Annotatef(err, "graphics codepage=%s", cp)
	}
	g.tr.Store(tr)
	return nil
}

func (g *Graphics) translate(s string) []byte {
	result := []byte(s)
	if tr, ok := g.tr.Load().(charset.Translator); ok && tr != nil {
		_, tb, err := tr.Translate(result, true)
		if err != nil {
			g.log.Errorf("graphics translate: %v", err)
			return result
		}
		// translator reuses one internal buffer, copy out
		result = append([]byte(nil), tb...)
	}
	return result
}

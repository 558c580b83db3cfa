package graphics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollingerc/avrkit/log2"
)

func testGraphics(t testing.TB, w, h int) *Graphics {
	g, err := New(w, h, log2.NewTest(t, log2.LError))
	require.NoError(t, err)
	return g
}

func TestNewInvalid(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LError)
	cases := []struct {
		name string
		w, h int
	}{
		{"zero-width", 0, 32},
		{"zero-height", 128, 0},
		{"negative", -8, 16},
		{"ragged-height", 128, 12},
		{"too-wide", MaxDim + 1, 64},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.w, c.h, log)
			assert.Error(t, err)
		})
	}
}

func TestPixelBounds(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 16, 8)
	before := append([]byte(nil), g.Frame()...)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {16, 0}, {0, 8}, {100, 100}, {-100, -100}} {
		g.SetPixel(p[0], p[1], White)
		g.SetPixel(p[0], p[1], Inverse)
		assert.False(t, g.Pixel(p[0], p[1]))
	}
	assert.Equal(t, before, g.Frame(), "off-panel draws must not touch the frame")
}

func TestPixelColours(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 8, 16)
	g.SetPixel(3, 9, White)
	assert.True(t, g.Pixel(3, 9))
	// y=9 lands in page 1, bit 1
	assert.Equal(t, byte(1<<1), g.Frame()[1*8+3])

	g.SetPixel(3, 9, Inverse)
	assert.False(t, g.Pixel(3, 9))
	g.SetPixel(3, 9, Inverse)
	assert.True(t, g.Pixel(3, 9))
	g.SetPixel(3, 9, Black)
	assert.False(t, g.Pixel(3, 9))
}

func TestClearRoundTrip(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 32, 16)
	empty := append([]byte(nil), g.Frame()...)
	g.FilledRectangle(0, 0, 31, 15)
	full := byte(0)
	for _, b := range g.Frame() {
		full |= b
	}
	assert.Equal(t, byte(0xff), full, "filled rect must cover every page byte")
	g.Clear()
	assert.Equal(t, empty, g.Frame())
}

func TestDrawAfterClose(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 16, 8)
	g.Close()
	g.SetPixel(1, 1, White)
	g.Line(0, 0, 10, 5)
	g.Clear()
	assert.Nil(t, g.Frame())
	assert.Error(t, g.Flush())
}

func TestFlushMock(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 8, 8)
	require.NoError(t, g.Flush(), "flush without blitter is a no-op")

	mock := NewMockBlitter()
	g.SetBlitter(mock)
	g.SetPixel(0, 0, White)
	require.NoError(t, g.Flush())
	require.Len(t, mock.Frames(), 1)
	assert.Equal(t, g.Frame(), mock.Last())
}

func TestSettersIgnoreInvalid(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 16, 16)
	g.SetCursor(5, 6)
	g.SetCursor(-1, 0)
	g.SetCursor(0, 99)
	x, y := g.Cursor()
	assert.Equal(t, 5, x)
	assert.Equal(t, 6, y)

	g.SetTextSize(2)
	g.SetTextSize(0)
	assert.Equal(t, 2, g.textSize)

	g.SetRotation(Rotate270)
	g.SetRotation(Rotation(17))
	assert.Equal(t, Rotate270, g.rotation)

	g.SetFgColour(Inverse)
	g.SetFgColour(Colour(9))
	assert.Equal(t, Inverse, g.fg)
}

func TestCodepage(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 64, 16)
	assert.Error(t, g.SetCodepage("no-such-charset"))
	require.NoError(t, g.SetCodepage("windows-1251"))
	// must not panic, non-ASCII translated bytes have no glyph and are skipped
	g.PutString("проверка ok")
}

func TestString(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 2, 8)
	g.SetPixel(0, 0, White)
	art := g.String()
	assert.Contains(t, art, "██")
	assert.Equal(t, 8, strings.Count(art, "\n"), "one line per pixel row")
}

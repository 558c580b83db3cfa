package display

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollingerc/avrkit/hardware/display/graphics"
	"github.com/hollingerc/avrkit/log2"
)

func TestBlitExpandsPages(t *testing.T) {
	t.Parallel()

	d := NewMock(image.Point{X: 16, Y: 16}, image.Point{X: 8, Y: 8})

	frame := make([]byte, 8)
	frame[0] = 0x01 // pixel (0,0)
	frame[3] = 0x80 // pixel (3,7)
	require.NoError(t, d.Blit(frame))

	assert.Equal(t, colourOn, d.get(0, 0))
	assert.Equal(t, colourOn, d.get(3, 7))
	assert.Equal(t, colourOff, d.get(1, 0))
	assert.Equal(t, colourOff, d.get(3, 6))

	assert.Error(t, d.Blit(make([]byte, 5)), "wrong frame length")
}

func TestBlitFromGraphics(t *testing.T) {
	t.Parallel()

	g, err := graphics.New(32, 16, log2.NewTest(t, log2.LError))
	require.NoError(t, err)
	d := NewMock(image.Point{X: 32, Y: 16}, image.Point{X: 32, Y: 16})
	g.SetBlitter(d)

	g.Line(0, 0, 31, 15)
	require.NoError(t, g.Flush())

	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			want := colourOff
			if g.Pixel(x, y) {
				want = colourOn
			}
			require.Equal(t, want, d.get(x, y), "x=%d y=%d", x, y)
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	d := NewMock(image.Point{X: 4, Y: 2}, image.Point{X: 4, Y: 2})
	require.NoError(t, d.Clear())
	assert.Equal(t, strings.Repeat(strings.Repeat("  ", 4)+"\n", 2), d.String())
}

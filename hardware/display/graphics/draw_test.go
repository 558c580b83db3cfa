package graphics

import (
	"fmt"
	"testing"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func framePixels(g *Graphics) map[[2]int]bool {
	set := make(map[[2]int]bool)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Pixel(x, y) {
				set[[2]int{x, y}] = true
			}
		}
	}
	return set
}

func TestLineSymmetry(t *testing.T) {
	t.Parallel()

	// one case per octant plus degenerates
	cases := [][4]int{
		{0, 0, 20, 5},   // shallow right-down
		{0, 0, 5, 20},   // steep right-down
		{20, 0, 0, 5},   // shallow left-down
		{5, 0, 0, 20},   // steep left-down
		{3, 17, 25, 2},  // shallow up
		{3, 17, 8, 1},   // steep up
		{0, 7, 30, 7},   // horizontal
		{12, 0, 12, 23}, // vertical
		{9, 9, 9, 9},    // single point
		{-5, -5, 10, 3}, // partially clipped
	}
	for _, c := range cases {
		c := c
		t.Run(fmt.Sprintf("%d.%d-%d.%d", c[0], c[1], c[2], c[3]), func(t *testing.T) {
			t.Parallel()
			fwd := testGraphics(t, 32, 24)
			rev := testGraphics(t, 32, 24)
			fwd.Line(c[0], c[1], c[2], c[3])
			rev.Line(c[2], c[3], c[0], c[1])
			assert.Equal(t, fwd.Frame(), rev.Frame())
			assert.NotEmpty(t, framePixels(fwd))
		})
	}
}

func TestLineEndpoints(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 32, 16)
	g.Line(2, 3, 11, 9)
	assert.True(t, g.Pixel(2, 3))
	assert.True(t, g.Pixel(11, 9))
}

func TestCircleDegenerate(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 16, 16)
	g.Circle(8, 8, 0)
	px := framePixels(g)
	assert.Equal(t, map[[2]int]bool{{8, 8}: true}, px)

	g.Clear()
	g.Circle(8, 8, -1)
	assert.Empty(t, framePixels(g))
}

func TestCircleSymmetry(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 32, 32)
	g.Circle(16, 16, 7)
	px := framePixels(g)
	for p := range px {
		mirrored := [][2]int{
			{32 - p[0], p[1]},
			{p[0], 32 - p[1]},
			{32 - p[0], 32 - p[1]},
		}
		for _, m := range mirrored {
			assert.True(t, px[m], "mirror of %v missing", p)
		}
	}
	// cardinal extremes
	assert.True(t, g.Pixel(16, 9))
	assert.True(t, g.Pixel(16, 23))
	assert.True(t, g.Pixel(9, 16))
	assert.True(t, g.Pixel(23, 16))
}

func TestCircleClipsNegative(t *testing.T) {
	t.Parallel()

	// center near the corner pushes intermediate points negative; must
	// clip, not wrap
	g := testGraphics(t, 16, 16)
	g.Circle(1, 1, 5)
	g.FilledCircle(0, 0, 4)
	for p := range framePixels(g) {
		assert.True(t, p[0] >= 0 && p[0] < 16)
		assert.True(t, p[1] >= 0 && p[1] < 16)
	}
}

func TestFilledCircleSolid(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 64, 64)
	const r = 20
	g.FilledCircle(32, 32, r)
	// every interior point is set, no ring gaps
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				require.True(t, g.Pixel(32+dx, 32+dy), "gap at dx=%d dy=%d", dx, dy)
			}
		}
	}
	assert.False(t, g.Pixel(32, 32-r-1))
}

func TestRectangleOutline(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 16, 16)
	g.Rectangle(2, 3, 10, 8)
	for x := 2; x <= 10; x++ {
		assert.True(t, g.Pixel(x, 3))
		assert.True(t, g.Pixel(x, 8))
	}
	for y := 3; y <= 8; y++ {
		assert.True(t, g.Pixel(2, y))
		assert.True(t, g.Pixel(10, y))
	}
	assert.False(t, g.Pixel(5, 5), "outline must not fill")
}

func TestFilledRectangleCorners(t *testing.T) {
	t.Parallel()

	// corner order must not matter
	a := testGraphics(t, 16, 16)
	b := testGraphics(t, 16, 16)
	a.FilledRectangle(3, 4, 12, 10)
	b.FilledRectangle(12, 10, 3, 4)
	assert.Equal(t, a.Frame(), b.Frame())
	assert.True(t, a.Pixel(3, 4))
	assert.True(t, a.Pixel(12, 10))
}

func TestQR(t *testing.T) {
	t.Parallel()

	g := testGraphics(t, 64, 64)
	require.NoError(t, g.QR("t", false, qrcode.Low))
	assert.NotEmpty(t, framePixels(g))

	small := testGraphics(t, 8, 8)
	assert.Error(t, small.QR("this text can not fit eight pixels", true, qrcode.High))
}

package framebuffer

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode565(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  color.RGBA
		expect uint16
	}{
		{color.RGBA{0, 0, 0, 0}, 0},
		{color.RGBA{0, 0, 0, 0xff}, 0},
		{color.RGBA{0xff, 0xff, 0xff, 0xff}, 0xffff},
		{color.RGBA{0xff, 0x00, 0x00, 0xff}, 0xf800},
		{color.RGBA{0x00, 0xff, 0x00, 0xff}, 0x07e0},
		{color.RGBA{0x00, 0x00, 0xff, 0xff}, 0x001f},
		// low bits of each channel truncate, no rounding
		{color.RGBA{0x0c, 0x0c, 0x0c, 0xff}, 0x0861},
		{color.RGBA{0x07, 0x03, 0x07, 0xff}, 0},
	}
	for _, c := range cases {
		c := c
		assert.Equal(t, c.expect, encode565(c.input), "input=%v", c.input)
	}
}

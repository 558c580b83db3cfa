package graphics

// Text renders from the 5x7 font at the cursor. Each glyph paints a
// 5-column body plus one blank separator column, all scaled by the
// text size, and advances the cursor along the rotation's writing
// direction so successive characters form a string.

const (
	fontMin = 0x20
	fontMax = 0x7e
)

// PutChar draws one glyph at the cursor and advances the cursor.
// Bytes outside the font range are skipped.
func (g *Graphics) PutChar(c byte) {
	if c < fontMin || c > fontMax {
		return
	}

	x := g.cursorX
	y := g.cursorY
	glyph := &font5x7[c-fontMin]

	for i := 0; i < 5; i++ {
		for j := 0; j < g.textSize; j++ {
			column := glyph[i]
			for k := 0; k < 8; k++ {
				colour := g.bg
				if column&0x01 != 0 {
					colour = g.fg
				}
				for l := 0; l < g.textSize; l++ {
					g.SetPixel(x, y, colour)
					switch g.rotation {
					case Rotate0:
						y++
					case Rotate90:
						x--
					case Rotate180:
						y--
					case Rotate270:
						x++
					}
				}
				column >>= 1
			}
			switch g.rotation {
			case Rotate0:
				x++
				y = g.cursorY
			case Rotate90:
				y++
				x = g.cursorX
			case Rotate180:
				x--
				y = g.cursorY
			case Rotate270:
				y--
				x = g.cursorX
			}
		}
	}

	// blank separator column
	for i := 0; i < g.textSize; i++ {
		switch g.rotation {
		case Rotate0, Rotate180:
			y = g.cursorY
		case Rotate90, Rotate270:
			x = g.cursorX
		}
		for j := 0; j < 8*g.textSize; j++ {
			g.SetPixel(x, y, g.bg)
			switch g.rotation {
			case Rotate0:
				y++
			case Rotate90:
				x--
			case Rotate180:
				y--
			case Rotate270:
				x++
			}
		}
		switch g.rotation {
		case Rotate0:
			x++
		case Rotate90:
			y++
		case Rotate180:
			x--
		case Rotate270:
			y--
		}
	}

	switch g.rotation {
	case Rotate0, Rotate180:
		g.cursorX = x
	case Rotate90, Rotate270:
		g.cursorY = y
	}
}

// PutString draws s from the cursor. When a codepage is set via
// SetCodepage the string is translated first; bytes with no glyph are
// skipped.
func (g *Graphics) PutString(s string) {
	for _, c := range g.translate(s) {
		g.PutChar(c)
	}
}

package graphics

// Primitives draw in the foreground colour. All coordinates are panel
// pixels; anything falling off the panel is clipped per pixel.

// Line draws from (x0,y0) to (x1,y1) inclusive with Bresenham's
// algorithm. Steep lines are transposed and right-to-left lines have
// their endpoints swapped, so all 8 octants come out symmetric.
func (g *Graphics) Line(x0, y0, x1, y1 int) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx / 2
	ystep := 1
	if y0 > y1 {
		ystep = -1
	}

	for ; x0 <= x1; x0++ {
		if steep {
			g.SetPixel(y0, x0, g.fg)
		} else {
			g.SetPixel(x0, y0, g.fg)
		}
		err -= dy
		if err < 0 {
			y0 += ystep
			err += dx
		}
	}
}

// Circle draws the outline of a circle of radius r centered at
// (x0,y0) with the midpoint algorithm. r=0 plots the center pixel.
func (g *Graphics) Circle(x0, y0, r int) {
	if r < 0 {
		return
	}
	if r == 0 {
		g.SetPixel(x0, y0, g.fg)
		return
	}

	f := 1 - r
	ddfx := 1
	ddfy := -2 * r
	x := 0
	y := r

	g.SetPixel(x0, y0+r, g.fg)
	g.SetPixel(x0, y0-r, g.fg)
	g.SetPixel(x0+r, y0, g.fg)
	g.SetPixel(x0-r, y0, g.fg)

	for x < y {
		if f >= 0 {
			y--
			ddfy += 2
			f += ddfy
		}
		x++
		ddfx += 2
		f += ddfx

		g.SetPixel(x0+x, y0+y, g.fg)
		g.SetPixel(x0-x, y0+y, g.fg)
		g.SetPixel(x0+x, y0-y, g.fg)
		g.SetPixel(x0-x, y0-y, g.fg)
		g.SetPixel(x0+y, y0+x, g.fg)
		g.SetPixel(x0-y, y0+x, g.fg)
		g.SetPixel(x0+y, y0-x, g.fg)
		g.SetPixel(x0-y, y0-x, g.fg)
	}
}

// FilledCircle fills the disc x²+y²<=r² around (x0,y0) with horizontal
// spans, one per row, so no interior pixel is skipped.
func (g *Graphics) FilledCircle(x0, y0, r int) {
	if r < 0 {
		return
	}
	rr := r * r
	for dy := -r; dy <= r; dy++ {
		dx := 0
		for dx*dx+dy*dy <= rr {
			dx++
		}
		dx--
		g.Line(x0-dx, y0+dy, x0+dx, y0+dy)
	}
}

// Rectangle draws the outline between two opposite corners.
func (g *Graphics) Rectangle(x0, y0, x1, y1 int) {
	g.Line(x0, y0, x1, y0)
	g.Line(x1, y0, x1, y1)
	g.Line(x1, y1, x0, y1)
	g.Line(x0, y1, x0, y0)
}

// FilledRectangle fills the area between two opposite corners,
// both edge rows included.
func (g *Graphics) FilledRectangle(x0, y0, x1, y1 int) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		g.Line(x0, y, x1, y)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package stats

import "math"

// canvas is a grid of Braille cells; each cell holds 2x4 dots.
type canvas struct {
	width  int
	height int
	cells  [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{width: width, height: height, cells: cells}
}

func (c *canvas) dotRows() int { return c.height * 4 }

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= c.height || cx >= c.width {
		return
	}
	c.cells[cy][cx] |= dotMask(x%2, y%4)
}

func (c *canvas) mask(x, y int) uint8 {
	if y < 0 || y >= c.height || x < 0 || x >= c.width {
		return 0
	}
	return c.cells[y][x]
}

// line draws a Bresenham line between two dot coordinates. keep filters dots by x
// so dashed styles can skip some of them.
func (c *canvas) line(x0, y0, x1, y1 int, keep func(x int) bool) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if keep == nil || keep(x0) {
			c.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// polyline plots values left to right, one value per cell column.
func (c *canvas) polyline(values []float64, lo, hi float64, keep func(x int) bool) {
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * 2
		y := dotRow(v, lo, hi, c.dotRows())
		if prevX >= 0 {
			c.line(prevX, prevY, x, y, keep)
		} else {
			c.set(x, y)
		}
		prevX, prevY = x, y
	}
}

func dotRow(v, lo, hi float64, rows int) int {
	if rows <= 1 || hi-lo < 1e-9 {
		return max(rows-1, 0)
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func dotMask(x, y int) uint8 {
	if x == 0 {
		return [4]uint8{0x01, 0x02, 0x04, 0x40}[y]
	}
	return [4]uint8{0x08, 0x10, 0x20, 0x80}[y]
}

func brailleRune(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBase = 0x2800

var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells addressed in dots. A canvas of Cols x
// Rows cells is Cols*2 x Rows*4 dots.
type Canvas struct {
	Cols, Rows int
	// Pen tags every dot set afterwards; the cell keeps the last tag.
	Pen uint8

	cells [][]rune
	ink   [][]uint8
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the grid and clears it.
func (c *Canvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.Cols, c.Rows = cols, rows
	c.cells = make([][]rune, rows)
	c.ink = make([][]uint8, rows)
	for i := range c.cells {
		c.cells[i] = make([]rune, cols)
		c.ink[i] = make([]uint8, cols)
	}
	c.Clear()
}

// DotWidth and DotHeight are the canvas size in dots.
func (c *Canvas) DotWidth() int  { return c.Cols * 2 }
func (c *Canvas) DotHeight() int { return c.Rows * 4 }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Cols || row >= c.Rows {
		return
	}
	c.cells[row][col] |= dotBits[y%4][x%2]
	c.ink[row][col] = c.Pen
}

// Ink returns the pen of the last dot set in cell (col, row).
func (c *Canvas) Ink(col, row int) uint8 {
	if col < 0 || row < 0 || col >= c.Cols || row >= c.Rows {
		return 0
	}
	return c.ink[row][col]
}

// Row returns one line of cells.
func (c *Canvas) Row(row int) []rune {
	return c.cells[row]
}

// Dots counts the dots set on the whole canvas.
func (c *Canvas) Dots() int {
	n := 0
	for _, row := range c.cells {
		for _, r := range row {
			for b := r - brailleBase; b != 0; b &= b - 1 {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Cols || y/4 >= c.Rows {
		return false
	}
	return c.cells[y/4][x/2]&dotBits[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBase
			c.ink[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm. Endpoints far outside
// the canvas are walked dot by dot, so callers clip first.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws the outline of a circle with the midpoint algorithm.
// Radii under one dot draw a single dot.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	x, y := r, 0
	d := 1 - r
	for x >= y {
		c.Set(cx+x, cy+y)
		c.Set(cx+y, cy+x)
		c.Set(cx-y, cy+x)
		c.Set(cx-x, cy+y)
		c.Set(cx-x, cy-y)
		c.Set(cx-y, cy-x)
		c.Set(cx+y, cy-x)
		c.Set(cx+x, cy-y)
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// FillCircle sets every dot within r of the centre.
func (c *Canvas) FillCircle(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		half := int(math.Sqrt(float64(r*r - dy*dy)))
		for dx := -half; dx <= half; dx++ {
			c.Set(cx+dx, cy+dy)
		}
	}
}

func (c *Canvas) Clone() *Canvas {
	out := &Canvas{Cols: c.Cols, Rows: c.Rows, Pen: c.Pen}
	out.cells = make([][]rune, len(c.cells))
	out.ink = make([][]uint8, len(c.ink))
	for i := range c.cells {
		out.cells[i] = append([]rune(nil), c.cells[i]...)
		out.ink[i] = append([]uint8(nil), c.ink[i]...)
	}
	return out
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		b.WriteString(string(row))
		if i < len(c.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

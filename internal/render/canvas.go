package render

import "strings"

// Braille patterns: 2x4 dots per cell
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel buffer with per-cell brightness and paint
// tracking so the frame can be colored by a theme. Coordinates passed to
// Set and the drawing helpers are sub-pixel: the canvas spans
// (Width*2) x (Height*4) dots.
type Canvas struct {
	Width, Height int
	glyphs        [][]rune
	level         [][]float64
	paint         [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.glyphs = make([][]rune, h)
	c.level = make([][]float64, h)
	c.paint = make([][]int, h)
	for i := 0; i < h; i++ {
		c.glyphs[i] = make([]rune, w)
		c.level[i] = make([]float64, w)
		c.paint[i] = make([]int, w)
		for j := 0; j < w; j++ {
			c.glyphs[i][j] = 0x2800
			c.paint[i][j] = PaintNone
		}
	}
	return c
}

// Set lights the dot at sub-pixel (x, y). The brightest contributor to a
// cell decides its color.
func (c *Canvas) Set(x, y int, level float64, paint int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.glyphs[row][col] |= rune(pixelMap[y%4][x%2])
	if level >= c.level[row][col] {
		c.level[row][col] = level
		c.paint[row][col] = paint
	}
}

func (c *Canvas) Clear() {
	for i := range c.glyphs {
		for j := range c.glyphs[i] {
			c.glyphs[i][j] = 0x2800
			c.level[i][j] = 0
			c.paint[i][j] = PaintNone
		}
	}
}

// DrawLine draws a line in sub-pixel space using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, level float64, paint int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0, level, paint)
		if x0 == x1 && y0 == y1 {
			return
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

// FillDisc fills a circle of radius r sub-pixels around (cx, cy).
func (c *Canvas) FillDisc(cx, cy, r int, level float64, paint int) {
	if r < 1 {
		c.Set(cx, cy, level, paint)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy, level, paint)
			}
		}
	}
}

// Glyph returns the braille rune at cell (col, row), or 0 when out of
// range. Frame capture reads the grid through here.
func (c *Canvas) Glyph(col, row int) rune {
	if col < 0 || row < 0 || row >= c.Height || col >= c.Width {
		return 0
	}
	return c.glyphs[row][col]
}

// String renders the buffer without color, one row per line.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.glyphs {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Styled renders the buffer with theme colors applied per cell.
func (c *Canvas) Styled(theme Theme) string {
	var b strings.Builder
	for row := range c.glyphs {
		for col, g := range c.glyphs[row] {
			if g == 0x2800 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(theme.Paint(c.paint[row][col], c.level[row][col], string(g)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

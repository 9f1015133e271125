package render

import (
	"math"
	"strings"

	"github.com/san-kum/synapse/internal/graph"
)

// Flat is the fallback renderer: orthographic projection (depth dropped)
// onto a plain ASCII cell grid. Lower fidelity, zero capability
// requirements.
type Flat struct {
	w, h  int
	cells [][]rune
}

func NewFlat() *Flat { return &Flat{} }

func (r *Flat) Name() string { return "flat" }

// Init never fails; that is the point of the fallback.
func (r *Flat) Init(w, h int) error {
	r.alloc(w, h)
	return nil
}

func (r *Flat) Resize(w, h int) {
	if w != r.w || h != r.h {
		r.alloc(w, h)
	}
}

func (r *Flat) Close() { r.cells = nil }

func (r *Flat) alloc(w, h int) {
	r.w, r.h = w, h
	r.cells = make([][]rune, h)
	for i := range r.cells {
		r.cells[i] = make([]rune, w)
	}
}

// pulse glyph ramp, dim to bright
var nodeGlyphs = []rune{'.', 'o', 'O', '@'}

func (r *Flat) Draw(s *graph.Scene) string {
	if r.cells == nil {
		return ""
	}
	for i := range r.cells {
		for j := range r.cells[i] {
			r.cells[i][j] = ' '
		}
	}

	for _, e := range s.Edges {
		x0, y0 := r.cell(e.From.Pos, s.Bounds)
		x1, y1 := r.cell(e.To.Pos, s.Bounds)
		glyph := '.'
		if e.Active {
			glyph = '='
		}
		// inactive edges stay sparse so the active ones read as solid
		r.line(x0, y0, x1, y1, glyph, !e.Active)
		if e.Active {
			fx, fy := r.cell(e.From.Pos.Lerp(e.To.Pos, e.DataFlow), s.Bounds)
			r.put(fx, fy, '#')
		}
	}

	for _, p := range s.Particles {
		if p.Edge == nil {
			continue
		}
		x, y := r.cell(p.Pos(), s.Bounds)
		// fainter trail cell just behind the token
		tx, ty := r.cell(p.Edge.From.Pos.Lerp(p.Edge.To.Pos, math.Max(0, p.Progress-0.04)), s.Bounds)
		r.put(tx, ty, '.')
		r.put(x, y, '+')
	}

	for _, n := range s.Nodes {
		x, y := r.cell(n.Pos, s.Bounds)
		glyph := nodeGlyphs[pulseBucket(n)]
		// one-cell glow halo around the brighter nodes
		if glyph == 'O' || glyph == '@' {
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				r.halo(x+d[0], y+d[1])
			}
		}
		r.put(x, y, glyph)
	}

	var b strings.Builder
	for _, row := range r.cells {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// pulseBucket quantizes the breathing oscillator into the glyph ramp.
func pulseBucket(n *graph.Node) int {
	v := (math.Sin(n.Phase) + 1) / 2
	idx := int(v * float64(len(nodeGlyphs)))
	if idx >= len(nodeGlyphs) {
		idx = len(nodeGlyphs) - 1
	}
	return idx
}

func (r *Flat) cell(p graph.Vec3, b graph.Bounds) (int, int) {
	x, y := 0, 0
	if b.W > 0 {
		x = int((p.X/b.W + 0.5) * float64(r.w-1))
	}
	if b.H > 0 {
		y = int((0.5 - p.Y/b.H) * float64(r.h-1))
	}
	return x, y
}

func (r *Flat) put(x, y int, g rune) {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return
	}
	r.cells[y][x] = g
}

// halo writes a glow cell without clobbering real geometry.
func (r *Flat) halo(x, y int) {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return
	}
	if r.cells[y][x] == ' ' {
		r.cells[y][x] = '\''
	}
}

// line walks Bresenham from (x0,y0) to (x1,y1). When dotted, every
// other cell is left blank.
func (r *Flat) line(x0, y0, x1, y1 int, g rune, dotted bool) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	step := 0
	for {
		if !dotted || step%2 == 0 {
			r.put(x0, y0, g)
		}
		step++
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

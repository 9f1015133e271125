package render

import (
	"math"
	"sort"

	"github.com/san-kum/synapse/internal/graph"
)

// Spatial is the high-fidelity renderer: perspective projection onto a
// braille canvas, depth-sorted painter's drawing, theme-colored pulse
// brightness, damped orbital camera.
type Spatial struct {
	theme  Theme
	canvas *Canvas
	cam    *Camera
	probe  func() error
}

func NewSpatial(theme Theme, probe func() error) *Spatial {
	if probe == nil {
		probe = defaultProbe
	}
	return &Spatial{theme: theme, probe: probe}
}

func (r *Spatial) Name() string { return "spatial" }

// Init acquires the braille capability. Any probe failure surfaces here so
// Select can fall back; nothing is allocated on failure.
func (r *Spatial) Init(w, h int) error {
	if err := r.probe(); err != nil {
		return err
	}
	r.canvas = NewCanvas(w, h)
	r.cam = NewCamera()
	return nil
}

// Resize swaps the canvas for the new cell dimensions. The camera's
// projection adapts in place; entity state is untouched.
func (r *Spatial) Resize(w, h int) {
	if r.canvas == nil || (r.canvas.Width == w && r.canvas.Height == h) {
		return
	}
	r.canvas = NewCanvas(w, h)
}

func (r *Spatial) Close() {
	r.canvas = nil
	r.cam = nil
}

// Camera exposes the orbit for interactive control.
func (r *Spatial) Camera() *Camera { return r.cam }

// Canvas exposes the braille buffer of the last frame, or nil before Init.
func (r *Spatial) Canvas() *Canvas { return r.canvas }

// SetTheme swaps colors without touching canvas or camera state.
func (r *Spatial) SetTheme(t Theme) { r.theme = t }

type primitive struct {
	kind           int // 0 line, 1 disc
	x0, y0, x1, y1 int
	radius         int
	depth          float64
	level          float64
	paint          int
}

// Draw renders the scene back-to-front: projected primitives are sorted by
// depth so nearer geometry overwrites farther geometry, the same painter's
// scheme the wireframe path uses.
func (r *Spatial) Draw(s *graph.Scene) string {
	if r.canvas == nil {
		return ""
	}
	r.cam.Update()
	r.canvas.Clear()

	sw, sh := r.canvas.Width*2, r.canvas.Height*4
	norm := worldScale(s.Bounds)
	prims := make([]primitive, 0, len(s.Edges)+len(s.Nodes)+len(s.Particles))

	project := func(p graph.Vec3) (int, int, float64, bool) {
		return r.cam.Project(p.X*norm, p.Y*norm, p.Z*norm, sw, sh)
	}

	for _, e := range s.Edges {
		x0, y0, d0, ok0 := project(e.From.Pos)
		x1, y1, d1, ok1 := project(e.To.Pos)
		if !ok0 && !ok1 {
			continue
		}
		paint := PaintEdge
		if e.Active {
			paint = PaintEdgeActive
		}
		prims = append(prims, primitive{
			kind: 0, x0: x0, y0: y0, x1: x1, y1: y1,
			depth: (d0 + d1) / 2,
			level: e.Intensity,
			paint: paint,
		})
		if e.Active {
			fp := e.From.Pos.Lerp(e.To.Pos, e.DataFlow)
			if fx, fy, fd, ok := project(fp); ok {
				prims = append(prims, primitive{
					kind: 1, x0: fx, y0: fy, radius: 1,
					depth: fd, level: 1, paint: PaintFlow,
				})
			}
		}
	}

	for _, n := range s.Nodes {
		x, y, d, ok := project(n.Pos)
		if !ok {
			continue
		}
		persp := r.cam.Dist / (r.cam.Dist - d)
		radius := int(math.Max(1, n.Size*n.Scale()*1.6*persp))
		prims = append(prims, primitive{
			kind: 1, x0: x, y0: y, radius: radius,
			depth: d, level: n.Opacity, paint: n.Color,
		})
	}

	for _, p := range s.Particles {
		if p.Edge == nil {
			continue
		}
		x, y, d, ok := project(p.Pos())
		if !ok {
			continue
		}
		prims = append(prims, primitive{
			kind: 1, x0: x, y0: y, radius: 1,
			depth: d, level: p.Opacity, paint: PaintParticle,
		})
	}

	sort.Slice(prims, func(i, j int) bool { return prims[i].depth < prims[j].depth })
	for _, pr := range prims {
		switch pr.kind {
		case 0:
			r.canvas.DrawLine(pr.x0, pr.y0, pr.x1, pr.y1, pr.level, pr.paint)
		case 1:
			r.canvas.FillDisc(pr.x0, pr.y0, pr.radius, pr.level, pr.paint)
		}
	}
	return r.canvas.Styled(r.theme)
}

// worldScale fits the bounds box into the roughly 3-unit space the camera
// projection expects.
func worldScale(b graph.Bounds) float64 {
	maxDim := math.Max(b.W, math.Max(b.H, b.D))
	if maxDim == 0 {
		return 1
	}
	return 3.0 / maxDim
}

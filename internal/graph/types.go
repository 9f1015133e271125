package graph

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Lerp interpolates between v and o at parameter t in [0,1].
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t, v.Z + (o.Z-v.Z)*t}
}

// Bounds is the box nodes move in, centered on the origin:
// |X| <= W/2, |Y| <= H/2, |Z| <= D/2.
type Bounds struct {
	W, H, D float64
}

// Node is a simulated point entity. Position, pulse phase and opacity are
// mutated every frame; Layer and Color are fixed at generation time.
type Node struct {
	Pos       Vec3
	Vel       Vec3
	Size      float64
	Color     int // palette index
	Phase     float64
	PulseRate float64
	Layer     int
	Opacity   float64
}

// Scale returns the pulse-derived size multiplier for the node.
func (n *Node) Scale() float64 {
	return 1 + math.Sin(n.Phase)*PulseAmplitude
}

// Edge links two nodes by identity. It never owns its endpoints: drawn
// geometry is recomputed from the live node positions each frame.
type Edge struct {
	From, To  *Node
	Intensity float64
	Phase     float64
	Active    bool
	DataFlow  float64 // in [0,1), meaningful only while Active
}

// Particle is a flow token bound to one edge at a time. When Progress wraps
// past 1 the particle is rebound to another edge, not destroyed.
type Particle struct {
	Edge     *Edge
	Progress float64 // in [0,1)
	Size     float64
	Opacity  float64
}

// Pos returns the particle's draw position, interpolated along the live
// endpoint positions of its bound edge.
func (p *Particle) Pos() Vec3 {
	if p.Edge == nil {
		return Vec3{}
	}
	return p.Edge.From.Pos.Lerp(p.Edge.To.Pos, p.Progress)
}

// Scene is the mutable entity state owned by one engine instance. Reach is
// the edge-forming distance the scene was generated with; edge intensity
// fades to zero as live endpoints drift that far apart.
type Scene struct {
	Nodes     []*Node
	Edges     []*Edge
	Particles []*Particle
	Bounds    Bounds
	Reach     float64
}

// Rescale maps every node position from the current bounds into b,
// preserving node identity. Velocities are left alone; the next step's
// boundary reflection keeps them sane.
func (s *Scene) Rescale(b Bounds) {
	sx, sy, sz := 1.0, 1.0, 1.0
	if s.Bounds.W != 0 {
		sx = b.W / s.Bounds.W
	}
	if s.Bounds.H != 0 {
		sy = b.H / s.Bounds.H
	}
	if s.Bounds.D != 0 {
		sz = b.D / s.Bounds.D
	}
	for _, n := range s.Nodes {
		n.Pos.X *= sx
		n.Pos.Y *= sy
		n.Pos.Z *= sz
	}
	s.Bounds = b
}

// ActiveEdges counts edges currently in the data-flow state.
func (s *Scene) ActiveEdges() int {
	c := 0
	for _, e := range s.Edges {
		if e.Active {
			c++
		}
	}
	return c
}

// OutDegrees returns the emitted-edge count per node, keyed by node identity.
func (s *Scene) OutDegrees() map[*Node]int {
	deg := make(map[*Node]int, len(s.Nodes))
	for _, e := range s.Edges {
		deg[e.From]++
	}
	return deg
}

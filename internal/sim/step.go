package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/synapse/internal/graph"
)

// Rates are the per-frame motion parameters. Zero values are replaced by
// DefaultRates fields in NewStepper.
type Rates struct {
	PulseSpeed     float64 // multiplier on each node's own pulse rate
	ParticleSpeed  float64 // progress increment per frame
	DataFlowSpeed  float64 // active-edge flow increment per frame
	ReactivateProb float64 // activation re-roll after a completed flow
	WakeProb       float64 // activation re-roll for idle edges, much lower
	PointerRadius  float64 // repulsion field radius, world units
	PointerForce   float64 // velocity nudge at zero distance
}

func DefaultRates() Rates {
	return Rates{
		PulseSpeed:     1.0,
		ParticleSpeed:  0.012,
		DataFlowSpeed:  0.02,
		ReactivateProb: 0.3,
		WakeProb:       0.002,
		PointerRadius:  6,
		PointerForce:   0.08,
	}
}

// Stepper mutates a scene one frame at a time.
type Stepper struct {
	rates   Rates
	pointer *Pointer
	rng     *rand.Rand
}

func NewStepper(rates Rates, pointer *Pointer) *Stepper {
	def := DefaultRates()
	if rates.PulseSpeed == 0 {
		rates.PulseSpeed = def.PulseSpeed
	}
	if rates.ParticleSpeed == 0 {
		rates.ParticleSpeed = def.ParticleSpeed
	}
	if rates.DataFlowSpeed == 0 {
		rates.DataFlowSpeed = def.DataFlowSpeed
	}
	if rates.ReactivateProb == 0 {
		rates.ReactivateProb = def.ReactivateProb
	}
	if rates.WakeProb == 0 {
		rates.WakeProb = def.WakeProb
	}
	if rates.PointerRadius == 0 {
		rates.PointerRadius = def.PointerRadius
	}
	if rates.PointerForce == 0 {
		rates.PointerForce = def.PointerForce
	}
	if pointer == nil {
		pointer = &Pointer{}
	}
	return &Stepper{
		rates:   rates,
		pointer: pointer,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Pointer returns the pointer slot the stepper reads each frame.
func (st *Stepper) Pointer() *Pointer { return st.pointer }

// SetRates swaps the motion parameters, used by config hot-reload.
func (st *Stepper) SetRates(r Rates) { st.rates = r }

// Step advances every entity by one frame.
func (st *Stepper) Step(s *graph.Scene) {
	st.applyPointer(s)
	for _, n := range s.Nodes {
		st.stepNode(n, s.Bounds)
	}
	for _, e := range s.Edges {
		st.stepEdge(e, s.Reach)
	}
	for _, p := range s.Particles {
		st.stepParticle(p, s.Edges)
	}
}

func (st *Stepper) stepNode(n *graph.Node, b graph.Bounds) {
	n.Pos = n.Pos.Add(n.Vel)
	reflect(&n.Pos.X, &n.Vel.X, b.W/2)
	reflect(&n.Pos.Y, &n.Vel.Y, b.H/2)
	reflect(&n.Pos.Z, &n.Vel.Z, b.D/2)

	n.Phase += n.PulseRate * st.rates.PulseSpeed
	if n.Phase > 2*math.Pi {
		n.Phase -= 2 * math.Pi
	}
	n.Opacity = 0.65 + 0.35*math.Sin(n.Phase)
}

// reflect flips the velocity component and clamps the position back inside
// the boundary plane. Applying it twice is a no-op (idempotent containment).
func reflect(pos, vel *float64, limit float64) {
	if limit <= 0 {
		return
	}
	if *pos > limit {
		*pos = limit
		if *vel > 0 {
			*vel = -*vel
		}
	} else if *pos < -limit {
		*pos = -limit
		if *vel < 0 {
			*vel = -*vel
		}
	}
}

func (st *Stepper) stepEdge(e *graph.Edge, connDist float64) {
	dist := e.From.Pos.Sub(e.To.Pos).Length()
	e.Intensity = 0
	if connDist > 0 {
		e.Intensity = math.Max(0, 1-dist/connDist)
	}
	e.Phase += 0.03 * st.rates.PulseSpeed
	e.Intensity *= 0.75 + 0.25*math.Sin(e.Phase)
	if e.Intensity < 0 {
		e.Intensity = 0
	}

	if e.Active {
		e.DataFlow += st.rates.DataFlowSpeed
		if e.DataFlow >= 1 {
			e.DataFlow = 0
			e.Active = st.rng.Float64() < st.rates.ReactivateProb
		}
	} else if st.rng.Float64() < st.rates.WakeProb {
		e.Active = true
		e.DataFlow = 0
	}
}

func (st *Stepper) stepParticle(p *graph.Particle, edges []*graph.Edge) {
	p.Progress += st.rates.ParticleSpeed
	if p.Progress >= 1 {
		p.Progress = 0
		if len(edges) > 0 {
			p.Edge = edges[st.rng.Intn(len(edges))]
		}
	}
}

// applyPointer nudges nodes inside the repulsion field away from the
// pointer, proportional to (radius - distance) / radius. Depth is ignored:
// the pointer lives on the X/Y plane.
func (st *Stepper) applyPointer(s *graph.Scene) {
	px, py, ok := st.pointer.get()
	if !ok {
		return
	}
	r := st.rates.PointerRadius
	for _, n := range s.Nodes {
		dx, dy := n.Pos.X-px, n.Pos.Y-py
		dist := math.Hypot(dx, dy)
		if dist >= r {
			continue
		}
		strength := (r - dist) / r * st.rates.PointerForce
		if dist < 1e-9 {
			// node exactly under the pointer: pick an arbitrary direction
			angle := st.rng.Float64() * 2 * math.Pi
			dx, dy, dist = math.Cos(angle), math.Sin(angle), 1
		}
		n.Vel.X += dx / dist * strength
		n.Vel.Y += dy / dist * strength
	}
}

package graph

// Snapshot is a flat, serializable view of a scene, used by the websocket
// streaming front-end. Edge references are replaced by node indices so the
// payload carries no pointers.
type Snapshot struct {
	Bounds    Bounds          `json:"bounds"`
	Nodes     []NodeState     `json:"nodes"`
	Edges     []EdgeState     `json:"edges"`
	Particles []ParticleState `json:"particles"`
}

type NodeState struct {
	Pos     Vec3    `json:"pos"`
	Size    float64 `json:"size"`
	Scale   float64 `json:"scale"`
	Color   int     `json:"color"`
	Layer   int     `json:"layer"`
	Opacity float64 `json:"opacity"`
}

type EdgeState struct {
	From      int     `json:"from"`
	To        int     `json:"to"`
	Intensity float64 `json:"intensity"`
	Active    bool    `json:"active"`
	DataFlow  float64 `json:"dataFlow,omitempty"`
}

type ParticleState struct {
	Pos     Vec3    `json:"pos"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
}

// Snapshot copies the current entity state into a transportable form.
func (s *Scene) Snapshot() Snapshot {
	index := make(map[*Node]int, len(s.Nodes))
	snap := Snapshot{
		Bounds:    s.Bounds,
		Nodes:     make([]NodeState, len(s.Nodes)),
		Edges:     make([]EdgeState, len(s.Edges)),
		Particles: make([]ParticleState, len(s.Particles)),
	}
	for i, n := range s.Nodes {
		index[n] = i
		snap.Nodes[i] = NodeState{
			Pos:     n.Pos,
			Size:    n.Size,
			Scale:   n.Scale(),
			Color:   n.Color,
			Layer:   n.Layer,
			Opacity: n.Opacity,
		}
	}
	for i, e := range s.Edges {
		es := EdgeState{
			From:      index[e.From],
			To:        index[e.To],
			Intensity: e.Intensity,
			Active:    e.Active,
		}
		if e.Active {
			es.DataFlow = e.DataFlow
		}
		snap.Edges[i] = es
	}
	for i, p := range s.Particles {
		snap.Particles[i] = ParticleState{
			Pos:     p.Pos(),
			Size:    p.Size,
			Opacity: p.Opacity,
		}
	}
	return snap
}

package graph

import (
	"math"
	"math/rand"
	"time"
)

const (
	// PulseAmplitude scales the sin term of the node breathing oscillator.
	PulseAmplitude = 0.3

	baseNodeSize     = 1.0
	nodeSizeJitter   = 0.8
	minPulseRate     = 0.02
	pulseRateJitter  = 0.04
	ringRadiusFactor = 0.30
	ringJitterFactor = 0.08
	layerJitter      = 0.15
	particleSize     = 0.5
)

// Config drives scene generation. All values are effect-only.
type Config struct {
	NodeCount          int
	LayerCount         int // 0 disables layered placement
	ConnectionDistance float64
	MaxOutDegree       int
	ParticleCount      int
	PaletteSize        int
	NodeSpeed          float64
	Bounds             Bounds
}

// Generate procedurally builds a scene: nodes first, then proximity edges,
// then particles bound to random edges. No determinism is guaranteed; every
// call draws fresh randomness.
func Generate(cfg Config) *Scene {
	return generate(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// GenerateSeeded fixes the generator seed. Best effort only: the layout is
// reproducible, the motion that follows is not.
func GenerateSeeded(cfg Config, seed int64) *Scene {
	return generate(cfg, rand.New(rand.NewSource(seed)))
}

func generate(cfg Config, rng *rand.Rand) *Scene {
	s := &Scene{
		Nodes:  make([]*Node, 0, cfg.NodeCount),
		Bounds: cfg.Bounds,
		Reach:  cfg.ConnectionDistance,
	}
	for i := 0; i < cfg.NodeCount; i++ {
		s.Nodes = append(s.Nodes, makeNode(cfg, rng, i))
	}
	s.Edges = connect(cfg, rng, s.Nodes)
	s.Particles = seedParticles(cfg, rng, s.Edges)
	return s
}

// makeNode places node i. With layering enabled nodes sit on per-layer rings
// offset along Z, which yields distinct depth bands instead of a uniform
// fill. Without layering placement is uniform inside the bounds box.
func makeNode(cfg Config, rng *rand.Rand, i int) *Node {
	n := &Node{
		Size:      baseNodeSize + rng.Float64()*nodeSizeJitter,
		Phase:     rng.Float64() * 2 * math.Pi,
		PulseRate: minPulseRate + rng.Float64()*pulseRateJitter,
		Opacity:   1,
	}
	if cfg.PaletteSize > 0 {
		n.Color = rng.Intn(cfg.PaletteSize)
	}
	speed := cfg.NodeSpeed
	n.Vel = Vec3{
		X: (rng.Float64()*2 - 1) * speed,
		Y: (rng.Float64()*2 - 1) * speed,
		Z: (rng.Float64()*2 - 1) * speed,
	}

	b := cfg.Bounds
	if cfg.LayerCount <= 0 {
		n.Pos = Vec3{
			X: (rng.Float64() - 0.5) * b.W,
			Y: (rng.Float64() - 0.5) * b.H,
			Z: (rng.Float64() - 0.5) * b.D,
		}
		return n
	}

	n.Layer = i % cfg.LayerCount
	perLayer := cfg.NodeCount / cfg.LayerCount
	if perLayer == 0 {
		perLayer = 1
	}
	idx := i / cfg.LayerCount

	minDim := math.Min(b.W, b.H)
	angle := float64(idx) / float64(perLayer) * 2 * math.Pi
	radius := minDim*ringRadiusFactor + (rng.Float64()-0.5)*minDim*ringJitterFactor
	depth := layerDepth(n.Layer, cfg.LayerCount, b.D)
	n.Pos = Vec3{
		X: radius*math.Cos(angle) + (rng.Float64()-0.5)*minDim*ringJitterFactor,
		Y: radius*math.Sin(angle) + (rng.Float64()-0.5)*minDim*ringJitterFactor,
		Z: depth + (rng.Float64()-0.5)*b.D*layerJitter,
	}
	clampInside(&n.Pos, b)
	return n
}

// layerDepth spreads layer bands evenly across the depth extent.
func layerDepth(layer, count int, depth float64) float64 {
	if count <= 1 {
		return 0
	}
	return (float64(layer)/float64(count-1) - 0.5) * depth
}

// connect builds the asymmetric proximity graph. Sources are scanned in
// generation order and stop emitting once they reach the out-degree cap, so
// the result is order dependent. That asymmetry is intended.
func connect(cfg Config, rng *rand.Rand, nodes []*Node) []*Edge {
	edges := make([]*Edge, 0)
	if cfg.MaxOutDegree <= 0 || cfg.ConnectionDistance <= 0 {
		return edges
	}
	for _, src := range nodes {
		emitted := 0
		for _, dst := range nodes {
			if dst == src {
				continue
			}
			if src.Pos.Sub(dst.Pos).Length() > cfg.ConnectionDistance {
				continue
			}
			edges = append(edges, &Edge{
				From:  src,
				To:    dst,
				Phase: rng.Float64() * 2 * math.Pi,
			})
			emitted++
			if emitted >= cfg.MaxOutDegree {
				break
			}
		}
	}
	return edges
}

// seedParticles binds tokens to uniformly chosen edges. A degenerate graph
// with zero edges yields zero particles rather than an error.
func seedParticles(cfg Config, rng *rand.Rand, edges []*Edge) []*Particle {
	particles := make([]*Particle, 0, cfg.ParticleCount)
	if len(edges) == 0 {
		return particles
	}
	for i := 0; i < cfg.ParticleCount; i++ {
		particles = append(particles, &Particle{
			Edge:     edges[rng.Intn(len(edges))],
			Progress: rng.Float64(),
			Size:     particleSize,
			Opacity:  0.6 + rng.Float64()*0.4,
		})
	}
	return particles
}

func clampInside(p *Vec3, b Bounds) {
	p.X = math.Max(-b.W/2, math.Min(b.W/2, p.X))
	p.Y = math.Max(-b.H/2, math.Min(b.H/2, p.Y))
	p.Z = math.Max(-b.D/2, math.Min(b.D/2, p.Z))
}

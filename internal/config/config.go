package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/synapse/internal/graph"
	"github.com/san-kum/synapse/internal/sim"
)

const (
	DefaultNodeCount     = 80
	DefaultLayerCount    = 4
	DefaultConnDistance  = 14.0
	DefaultMaxOutDegree  = 3
	DefaultParticleCount = 40
	DefaultNodeSpeed     = 0.04
	DefaultFPS           = 30
	DefaultWorldWidth    = 40.0
	DefaultWorldHeight   = 28.0
	DefaultWorldDepth    = 18.0
)

// Config is the effect-only tuning surface of the visualization.
type Config struct {
	NodeCount     int     `yaml:"node_count"`
	LayerCount    int     `yaml:"layer_count"`
	ConnDistance  float64 `yaml:"connection_distance"`
	MaxOutDegree  int     `yaml:"max_out_degree"`
	ParticleCount int     `yaml:"particle_count"`
	Theme         string  `yaml:"theme"`
	Renderer      string  `yaml:"renderer"` // auto, spatial, flat
	FPS           int     `yaml:"fps"`
	Motion        Motion  `yaml:"motion"`
	World         World   `yaml:"world"`
}

// Motion holds the per-frame rates.
type Motion struct {
	NodeSpeed     float64 `yaml:"node_speed"`
	PulseSpeed    float64 `yaml:"pulse_speed"`
	ParticleSpeed float64 `yaml:"particle_speed"`
	DataFlowSpeed float64 `yaml:"data_flow_speed"`
	PointerRadius float64 `yaml:"pointer_radius"`
}

// World is the simulation box nodes move in.
type World struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
}

func DefaultConfig() *Config {
	return &Config{
		NodeCount:     DefaultNodeCount,
		LayerCount:    DefaultLayerCount,
		ConnDistance:  DefaultConnDistance,
		MaxOutDegree:  DefaultMaxOutDegree,
		ParticleCount: DefaultParticleCount,
		Theme:         "cyberpunk",
		Renderer:      "auto",
		FPS:           DefaultFPS,
		Motion: Motion{
			NodeSpeed:     DefaultNodeSpeed,
			PulseSpeed:    1.0,
			ParticleSpeed: 0.012,
			DataFlowSpeed: 0.02,
			PointerRadius: 6,
		},
		World: World{
			Width:  DefaultWorldWidth,
			Height: DefaultWorldHeight,
			Depth:  DefaultWorldDepth,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.NodeCount < 0 {
		return fmt.Errorf("node_count must not be negative, got %d", c.NodeCount)
	}
	if c.ParticleCount < 0 {
		return fmt.Errorf("particle_count must not be negative, got %d", c.ParticleCount)
	}
	if c.ConnDistance < 0 {
		return fmt.Errorf("connection_distance must not be negative, got %f", c.ConnDistance)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %+v", c.World)
	}
	switch c.Renderer {
	case "", "auto", "spatial", "flat":
	default:
		return fmt.Errorf("unknown renderer %q", c.Renderer)
	}
	return nil
}

// GraphConfig converts the YAML surface into generation parameters.
// The palette size tracks the selected theme downstream; paletteSize is
// passed in so config stays free of render imports.
func (c *Config) GraphConfig(paletteSize int) graph.Config {
	return graph.Config{
		NodeCount:          c.NodeCount,
		LayerCount:         c.LayerCount,
		ConnectionDistance: c.ConnDistance,
		MaxOutDegree:       c.MaxOutDegree,
		ParticleCount:      c.ParticleCount,
		PaletteSize:        paletteSize,
		NodeSpeed:          c.Motion.NodeSpeed,
		Bounds: graph.Bounds{
			W: c.World.Width,
			H: c.World.Height,
			D: c.World.Depth,
		},
	}
}

// Rates converts the motion block into stepper parameters.
func (c *Config) Rates() sim.Rates {
	r := sim.DefaultRates()
	if c.Motion.PulseSpeed > 0 {
		r.PulseSpeed = c.Motion.PulseSpeed
	}
	if c.Motion.ParticleSpeed > 0 {
		r.ParticleSpeed = c.Motion.ParticleSpeed
	}
	if c.Motion.DataFlowSpeed > 0 {
		r.DataFlowSpeed = c.Motion.DataFlowSpeed
	}
	if c.Motion.PointerRadius > 0 {
		r.PointerRadius = c.Motion.PointerRadius
	}
	return r
}

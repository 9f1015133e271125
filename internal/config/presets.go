package config

import "fmt"

// Presets are named starting points for the visualization; all of them
// survive Validate.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"dense": {
		NodeCount:     160,
		LayerCount:    5,
		ConnDistance:  12,
		MaxOutDegree:  4,
		ParticleCount: 90,
		Theme:         "cyberpunk",
		Renderer:      "auto",
		FPS:           30,
		Motion: Motion{
			NodeSpeed:     0.05,
			PulseSpeed:    1.2,
			ParticleSpeed: 0.018,
			DataFlowSpeed: 0.03,
			PointerRadius: 5,
		},
		World: World{Width: 46, Height: 30, Depth: 22},
	},
	"sparse": {
		NodeCount:     36,
		LayerCount:    3,
		ConnDistance:  18,
		MaxOutDegree:  2,
		ParticleCount: 14,
		Theme:         "ocean",
		Renderer:      "auto",
		FPS:           30,
		Motion: Motion{
			NodeSpeed:     0.03,
			PulseSpeed:    0.8,
			ParticleSpeed: 0.01,
			DataFlowSpeed: 0.015,
			PointerRadius: 7,
		},
		World: World{Width: 40, Height: 28, Depth: 16},
	},
	"calm": {
		NodeCount:     60,
		LayerCount:    4,
		ConnDistance:  14,
		MaxOutDegree:  3,
		ParticleCount: 24,
		Theme:         "mono",
		Renderer:      "auto",
		FPS:           24,
		Motion: Motion{
			NodeSpeed:     0.015,
			PulseSpeed:    0.5,
			ParticleSpeed: 0.006,
			DataFlowSpeed: 0.01,
			PointerRadius: 6,
		},
		World: World{Width: 40, Height: 28, Depth: 18},
	},
	"storm": {
		NodeCount:     120,
		LayerCount:    0, // uniform fill, no depth bands
		ConnDistance:  10,
		MaxOutDegree:  5,
		ParticleCount: 70,
		Theme:         "retro",
		Renderer:      "auto",
		FPS:           60,
		Motion: Motion{
			NodeSpeed:     0.12,
			PulseSpeed:    2.0,
			ParticleSpeed: 0.03,
			DataFlowSpeed: 0.05,
			PointerRadius: 8,
		},
		World: World{Width: 44, Height: 30, Depth: 20},
	},
}

func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	clone := *cfg
	return &clone, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

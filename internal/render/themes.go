package render

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Paint slots. Non-negative values index the node palette; the named
// negative slots cover the other entity kinds.
const (
	PaintNone       = -1
	PaintEdge       = -2
	PaintEdgeActive = -3
	PaintParticle   = -4
	PaintFlow       = -5
)

const rampSteps = 4

// Theme maps paint slots to terminal colors. Brightness ramps are
// precomputed by blending each base color toward the background so cell
// intensity can dim a glyph without per-frame color math.
type Theme struct {
	Name       string
	palette    []string
	edge       string
	edgeActive string
	particle   string
	flow       string
	background string

	ramps map[int][]lipgloss.Style
}

// Available themes, in cycling order.
var Themes = []Theme{
	newTheme("cyberpunk", "#0a0a14",
		[]string{"#ff00ff", "#00ffff", "#ffff00", "#00ff88"},
		"#3a3a5c", "#00ffff", "#ffffff", "#ff00ff"),
	newTheme("retro", "#001100",
		[]string{"#00ff00", "#66ff66", "#00cc00", "#baffba"},
		"#005500", "#88ff88", "#ccffcc", "#00ff00"),
	newTheme("ocean", "#001a33",
		[]string{"#0077be", "#00a8cc", "#66d9ef", "#ffd700"},
		"#123b5e", "#00e0ff", "#e0f0ff", "#ffd700"),
	newTheme("mono", "#000000",
		[]string{"#ffffff", "#cccccc", "#aaaaaa", "#888888"},
		"#444444", "#ffffff", "#eeeeee", "#bbbbbb"),
}

func newTheme(name, bg string, palette []string, edge, edgeActive, particle, flow string) Theme {
	t := Theme{
		Name:       name,
		palette:    palette,
		edge:       edge,
		edgeActive: edgeActive,
		particle:   particle,
		flow:       flow,
		background: bg,
	}
	t.ramps = make(map[int][]lipgloss.Style)
	for i, hex := range palette {
		t.ramps[i] = buildRamp(hex, bg)
	}
	t.ramps[PaintEdge] = buildRamp(edge, bg)
	t.ramps[PaintEdgeActive] = buildRamp(edgeActive, bg)
	t.ramps[PaintParticle] = buildRamp(particle, bg)
	t.ramps[PaintFlow] = buildRamp(flow, bg)
	return t
}

// buildRamp blends from near-background to the full color in Lab space,
// which keeps the dim steps perceptually even.
func buildRamp(hex, bg string) []lipgloss.Style {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{R: 1, G: 1, B: 1}
	}
	b, err := colorful.Hex(bg)
	if err != nil {
		b = colorful.Color{}
	}
	ramp := make([]lipgloss.Style, rampSteps)
	for i := 0; i < rampSteps; i++ {
		t := 0.35 + 0.65*float64(i)/float64(rampSteps-1)
		blended := b.BlendLab(c, t).Clamped()
		ramp[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(blended.Hex()))
	}
	return ramp
}

// Paint styles a glyph with the ramp step for the given brightness level
// in [0,1]. Unknown paint slots pass the glyph through unstyled.
func (t Theme) Paint(paint int, level float64, glyph string) string {
	ramp, ok := t.ramps[paint]
	if !ok || len(ramp) == 0 {
		return glyph
	}
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	step := int(level * float64(rampSteps-1))
	return ramp[step].Render(glyph)
}

// PaletteSize reports how many node colors the theme carries.
func (t Theme) PaletteSize() int { return len(t.palette) }

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

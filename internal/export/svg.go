// Package export renders scene snapshots to standalone files.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/synapse/internal/graph"
)

// Node palette for SVG output. Colors beyond the palette wrap around.
var svgPalette = []string{"#ff00ff", "#00ffff", "#ffff00", "#00ff88"}

const (
	svgEdgeColor     = "#3a3a5c"
	svgActiveColor   = "#00ffff"
	svgParticleColor = "#ffffff"
	svgBackground    = "#0a0a14"
)

// SceneToSVG projects a snapshot orthographically onto the XY plane and
// renders it as a vector image. Depth only modulates node radius, a flat
// look that matches the scale of the terminal fallback renderer.
func SceneToSVG(snap graph.Snapshot, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	bw, bh := snap.Bounds.W, snap.Bounds.H
	if bw == 0 {
		bw = 1
	}
	if bh == 0 {
		bh = 1
	}
	toScreen := func(p graph.Vec3) (float64, float64) {
		x := (p.X/bw + 0.5) * float64(width)
		y := (0.5 - p.Y/bh) * float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, svgBackground))

	for _, e := range snap.Edges {
		if e.From < 0 || e.From >= len(snap.Nodes) || e.To < 0 || e.To >= len(snap.Nodes) {
			continue
		}
		x1, y1 := toScreen(snap.Nodes[e.From].Pos)
		x2, y2 := toScreen(snap.Nodes[e.To].Pos)
		color := svgEdgeColor
		if e.Active {
			color = svgActiveColor
		}
		sb.WriteString(fmt.Sprintf(
			`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.2f"/>`+"\n",
			x1, y1, x2, y2, color, clamp01(e.Intensity)))
	}

	for _, n := range snap.Nodes {
		x, y := toScreen(n.Pos)
		depth := 1 + n.Pos.Z/snapDepth(snap.Bounds)
		r := n.Size * n.Scale * 3 * clampRange(depth, 0.5, 1.5)
		color := svgPalette[((n.Color%len(svgPalette))+len(svgPalette))%len(svgPalette)]
		sb.WriteString(fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>`+"\n",
			x, y, r, color, clamp01(n.Opacity)))
	}

	for _, p := range snap.Particles {
		x, y := toScreen(p.Pos)
		sb.WriteString(fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>`+"\n",
			x, y, p.Size*2, svgParticleColor, clamp01(p.Opacity)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG renders the snapshot and writes it to path.
func WriteSVG(path string, snap graph.Snapshot, width, height int) error {
	return os.WriteFile(path, []byte(SceneToSVG(snap, width, height)), 0644)
}

func snapDepth(b graph.Bounds) float64 {
	if b.D == 0 {
		return 1
	}
	return b.D
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

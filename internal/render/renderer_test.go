package render

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/san-kum/synapse/internal/graph"
)

func smallScene() *graph.Scene {
	return graph.Generate(graph.Config{
		NodeCount:          20,
		LayerCount:         2,
		ConnectionDistance: 15,
		MaxOutDegree:       2,
		ParticleCount:      8,
		PaletteSize:        4,
		NodeSpeed:          0.05,
		Bounds:             graph.Bounds{W: 20, H: 14, D: 8},
	})
}

func probeOK() error   { return nil }
func probeFail() error { return ErrUnsupported }

func TestSelectPrefersSpatial(t *testing.T) {
	r, err := Select(60, 20, Options{Probe: probeOK})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if r.Name() != "spatial" {
		t.Errorf("expected spatial renderer, got %s", r.Name())
	}
}

func TestSelectFallsBackAndLogs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	r, err := Select(60, 20, Options{Probe: probeFail, Logger: log})
	if err != nil {
		t.Fatalf("fallback must not surface an error, got: %v", err)
	}
	if r.Name() != "flat" {
		t.Errorf("expected flat fallback, got %s", r.Name())
	}
	if !strings.Contains(buf.String(), "falling back") {
		t.Errorf("fallback condition not logged: %q", buf.String())
	}
}

func TestSelectExplicitSpatialSurfacesFailure(t *testing.T) {
	_, err := Select(60, 20, Options{Mode: "spatial", Probe: probeFail})
	if err == nil {
		t.Fatal("expected error when spatial is forced and unavailable")
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported in chain, got %v", err)
	}
}

func TestSelectExplicitFlat(t *testing.T) {
	r, err := Select(60, 20, Options{Mode: "flat", Probe: probeOK})
	if err != nil {
		t.Fatalf("flat select failed: %v", err)
	}
	if r.Name() != "flat" {
		t.Errorf("expected flat, got %s", r.Name())
	}
}

func TestSpatialDrawProducesFrame(t *testing.T) {
	sp := NewSpatial(GetTheme("mono"), probeOK)
	if err := sp.Init(60, 20); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	frame := sp.Draw(smallScene())
	lines := strings.Split(strings.TrimRight(frame, "\n"), "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 rows, got %d", len(lines))
	}
	if !strings.ContainsFunc(frame, func(r rune) bool { return r > 0x2800 && r <= 0x28ff }) {
		t.Error("expected at least one lit braille cell")
	}
}

func TestSpatialResizeKeepsCamera(t *testing.T) {
	sp := NewSpatial(GetTheme("mono"), probeOK)
	if err := sp.Init(60, 20); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	sp.Camera().Nudge(0.3, 0)
	sp.Camera().Update()
	rot := sp.Camera().RotY

	sp.Resize(100, 30)
	if sp.Camera().RotY != rot {
		t.Error("resize must update projection in place, not reset the camera")
	}
	if sp.canvas.Width != 100 || sp.canvas.Height != 30 {
		t.Errorf("canvas not resized: %dx%d", sp.canvas.Width, sp.canvas.Height)
	}
}

func TestFlatDrawMarksEntities(t *testing.T) {
	f := NewFlat()
	if err := f.Init(60, 24); err != nil {
		t.Fatalf("flat init failed: %v", err)
	}
	a := &graph.Node{Pos: graph.Vec3{X: -8}}
	b := &graph.Node{Pos: graph.Vec3{X: 8}}
	s := &graph.Scene{
		Nodes:  []*graph.Node{a, b},
		Edges:  []*graph.Edge{{From: a, To: b, Active: true, DataFlow: 0.5}},
		Bounds: graph.Bounds{W: 20, H: 20, D: 20},
		Reach:  20,
	}
	frame := f.Draw(s)
	if !strings.ContainsAny(frame, ".oO@") {
		t.Error("expected node glyphs in flat frame")
	}
	if !strings.Contains(frame, "#") {
		t.Error("expected data-flow marker on active edge")
	}
	if !strings.Contains(frame, "=") {
		t.Error("expected highlight glyph on active edge line")
	}
}

func TestFlatDrawEmptyScene(t *testing.T) {
	f := NewFlat()
	if err := f.Init(10, 5); err != nil {
		t.Fatalf("flat init failed: %v", err)
	}
	frame := f.Draw(&graph.Scene{Bounds: graph.Bounds{W: 10, H: 10, D: 10}})
	lines := strings.Split(strings.TrimRight(frame, "\n"), "\n")
	if len(lines) != 5 {
		t.Errorf("expected 5 rows, got %d", len(lines))
	}
}

func TestSpatialDoubleCloseSafe(t *testing.T) {
	sp := NewSpatial(GetTheme("mono"), probeOK)
	if err := sp.Init(20, 10); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	sp.Close()
	sp.Close()
	if frame := sp.Draw(smallScene()); frame != "" {
		t.Error("closed renderer should produce an empty frame")
	}
}

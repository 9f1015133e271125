package storage

import (
	"testing"

	"github.com/san-kum/synapse/internal/graph"
)

func sampleSnapshot() graph.Snapshot {
	scene := graph.Generate(graph.Config{
		NodeCount:          10,
		LayerCount:         2,
		ConnectionDistance: 20,
		MaxOutDegree:       3,
		ParticleCount:      4,
		PaletteSize:        4,
		Bounds:             graph.Bounds{W: 30, H: 20, D: 10},
	})
	return scene.Snapshot()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	snap := sampleSnapshot()
	id, err := st.Save(snap)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}

	loaded, err := st.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Nodes) != len(snap.Nodes) {
		t.Errorf("nodes = %d, want %d", len(loaded.Nodes), len(snap.Nodes))
	}
	if len(loaded.Edges) != len(snap.Edges) {
		t.Errorf("edges = %d, want %d", len(loaded.Edges), len(snap.Edges))
	}
}

func TestListReportsMetadata(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	snap := sampleSnapshot()
	id, err := st.Save(snap)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	scenes, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scenes) != 1 {
		t.Fatalf("scenes = %d, want 1", len(scenes))
	}
	if scenes[0].ID != id {
		t.Errorf("id = %q, want %q", scenes[0].ID, id)
	}
	if scenes[0].Nodes != len(snap.Nodes) {
		t.Errorf("meta nodes = %d, want %d", scenes[0].Nodes, len(snap.Nodes))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/nope")
	scenes, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scenes) != 0 {
		t.Errorf("scenes = %d, want 0", len(scenes))
	}
}

func TestLoadUnknownID(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("scene_0"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

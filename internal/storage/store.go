// Package storage archives scene snapshots on disk so a generated scene
// can be inspected or exported later. Each snapshot lives in its own
// directory under the base dir: metadata.json describes it, scene.json
// holds the entities.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/synapse/internal/graph"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SceneMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	Particles int       `json:"particles"`
}

// Save writes a snapshot under a timestamped ID and returns the ID.
func (s *Store) Save(snap graph.Snapshot) (string, error) {
	id := fmt.Sprintf("scene_%d", time.Now().Unix())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := SceneMetadata{
		ID:        id,
		Timestamp: time.Now(),
		Nodes:     len(snap.Nodes),
		Edges:     len(snap.Edges),
		Particles: len(snap.Particles),
	}
	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "scene.json"), snap); err != nil {
		return "", err
	}
	return id, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns metadata for every stored snapshot. A missing base dir is
// an empty store, not an error.
func (s *Store) List() ([]SceneMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SceneMetadata{}, nil
		}
		return nil, err
	}

	scenes := make([]SceneMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta SceneMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		scenes = append(scenes, meta)
	}
	return scenes, nil
}

// Load reads a stored snapshot back by ID.
func (s *Store) Load(id string) (graph.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "scene.json"))
	if err != nil {
		return graph.Snapshot{}, err
	}
	var snap graph.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return graph.Snapshot{}, err
	}
	return snap, nil
}

package render

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/synapse/internal/graph"
)

// ErrUnsupported reports that the terminal cannot host the spatial
// renderer's braille output.
var ErrUnsupported = errors.New("render: terminal lacks braille capability")

// Renderer draws a scene into a terminal frame. Implementations are chosen
// once during engine initialization and kept for the engine's lifetime.
type Renderer interface {
	Name() string
	Init(w, h int) error
	Draw(s *graph.Scene) string
	Resize(w, h int)
	Close()
}

// Options configure renderer selection. Probe overrides the default
// capability check; tests use it to force acquisition failure.
type Options struct {
	Mode   string // "auto", "spatial" or "flat"
	Theme  string
	Probe  func() error
	Logger *slog.Logger
}

// Select picks the renderer: the spatial variant when its capability probe
// and Init succeed, otherwise the flat fallback. The fallback is
// one-directional and happens only here, never mid-session.
func Select(w, h int, opts Options) (Renderer, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	theme := GetTheme(opts.Theme)

	if opts.Mode == "flat" {
		f := NewFlat()
		return f, f.Init(w, h)
	}

	sp := NewSpatial(theme, opts.Probe)
	if err := sp.Init(w, h); err != nil {
		if opts.Mode == "spatial" {
			return nil, fmt.Errorf("render: spatial renderer requested but unavailable: %w", err)
		}
		log.Warn("spatial renderer unavailable, falling back to flat", "error", err)
		f := NewFlat()
		return f, f.Init(w, h)
	}
	return sp, nil
}

// defaultProbe approximates "can this terminal show braille": a real TERM
// and a UTF-8 locale.
func defaultProbe() error {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return fmt.Errorf("%w: TERM=%q", ErrUnsupported, term)
	}
	for _, k := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := os.Getenv(k)
		if v == "" {
			continue
		}
		lower := strings.ToLower(v)
		if strings.Contains(lower, "utf-8") || strings.Contains(lower, "utf8") {
			return nil
		}
		return fmt.Errorf("%w: %s=%q is not UTF-8", ErrUnsupported, k, v)
	}
	return fmt.Errorf("%w: no UTF-8 locale configured", ErrUnsupported)
}

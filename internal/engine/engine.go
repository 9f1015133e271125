package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/synapse/internal/graph"
	"github.com/san-kum/synapse/internal/render"
	"github.com/san-kum/synapse/internal/sim"
)

// State is the lifecycle position of an engine instance.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StatePaused
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}

// Options configure one engine instance.
type Options struct {
	Graph    graph.Config
	Rates    sim.Rates
	Width    int    // viewport cells
	Height   int    // viewport cells
	Renderer string // "auto", "spatial", "flat"
	Theme    string
	FPS      int

	// Driven disables the internal frame clock; the host calls Advance
	// once per frame instead. The TUI front-end runs in this mode because
	// Bubble Tea already owns a tick loop.
	Driven bool

	Probe  func() error // renderer capability probe override
	Logger *slog.Logger
}

// Engine owns the scene, the stepper, the selected renderer and the frame
// clock. All exported methods are safe to call from any goroutine.
type Engine struct {
	mu       sync.Mutex
	state    State
	opts     Options
	scene    *graph.Scene
	stepper  *sim.Stepper
	pointer  *sim.Pointer
	renderer render.Renderer
	clock    *frameClock
	frame    string
	w, h     int
	log      *slog.Logger
	stopc    chan struct{}
}

func New(opts Options) *Engine {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		opts:    opts,
		pointer: &sim.Pointer{},
		log:     log,
		stopc:   make(chan struct{}),
	}
}

// Start generates the scene, selects a renderer (falling back to the flat
// variant if the spatial one cannot initialize) and begins scheduling
// frames. It returns an error only for invalid configuration, a second
// Start, or an explicitly forced renderer that is unavailable; capability
// fallback is not an error.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateDisposed:
		e.mu.Unlock()
		return ErrDisposed
	case StateUninitialized:
	default:
		e.mu.Unlock()
		return ErrStarted
	}
	if err := validate(e.opts.Graph); err != nil {
		e.mu.Unlock()
		return err
	}
	e.state = StateInitializing
	e.w, e.h = e.opts.Width, e.opts.Height
	e.mu.Unlock()

	r, err := render.Select(e.w, e.h, render.Options{
		Mode:   e.opts.Renderer,
		Theme:  e.opts.Theme,
		Probe:  e.opts.Probe,
		Logger: e.log,
	})
	if err != nil {
		e.mu.Lock()
		e.state = StateUninitialized
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	e.renderer = r
	e.scene = graph.Generate(e.opts.Graph)
	e.stepper = sim.NewStepper(e.opts.Rates, e.pointer)
	e.frame = e.renderer.Draw(e.scene)
	e.state = StateRunning
	e.mu.Unlock()

	e.log.Debug("engine started",
		"renderer", r.Name(),
		"nodes", len(e.scene.Nodes),
		"edges", len(e.scene.Edges),
		"particles", len(e.scene.Particles))

	if !e.opts.Driven {
		e.clock = newFrameClock(time.Second/time.Duration(e.opts.FPS), e.tick)
		e.clock.start()
	}
	go func() {
		select {
		case <-ctx.Done():
			e.Dispose()
		case <-e.stopc:
		}
	}()
	return nil
}

// tick is the per-frame body: read pointer, step the simulation, draw.
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning {
		return
	}
	e.stepper.Step(e.scene)
	e.frame = e.renderer.Draw(e.scene)
}

// Advance runs exactly one frame; the entry point for Driven mode.
func (e *Engine) Advance() { e.tick() }

// Pause stops scheduling frames. Safe to call in any state.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}
	e.state = StatePaused
	clock := e.clock
	e.mu.Unlock()
	if clock != nil {
		clock.stop()
	}
	e.log.Debug("engine paused")
}

// Resume restarts scheduling after a Pause.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.state != StatePaused {
		e.mu.Unlock()
		return
	}
	e.state = StateRunning
	clock := e.clock
	e.mu.Unlock()
	if clock != nil {
		clock.start()
	}
	e.log.Debug("engine resumed")
}

// Resize recomputes viewport-derived parameters. Node identity is
// preserved: positions are rescaled into the new bounds and the renderer
// updates its projection in place, in both variants.
func (e *Engine) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateDisposed || e.scene == nil {
		return
	}
	b := e.scene.Bounds
	b.W *= float64(w) / float64(e.w)
	b.H *= float64(h) / float64(e.h)
	e.scene.Rescale(b)
	e.w, e.h = w, h
	e.renderer.Resize(w, h)
	e.frame = e.renderer.Draw(e.scene)
}

// SetPointer records a pointer sample in world coordinates.
func (e *Engine) SetPointer(x, y float64) { e.pointer.Set(x, y) }

// SetPointerCell maps a viewport cell to world coordinates and records it.
func (e *Engine) SetPointerCell(col, row int) {
	e.mu.Lock()
	scene, w, h := e.scene, e.w, e.h
	e.mu.Unlock()
	if scene == nil || w < 2 || h < 2 {
		return
	}
	x := (float64(col)/float64(w-1) - 0.5) * scene.Bounds.W
	y := (0.5 - float64(row)/float64(h-1)) * scene.Bounds.H
	e.pointer.Set(x, y)
}

// ClearPointer marks the pointer as having left the viewport.
func (e *Engine) ClearPointer() { e.pointer.Clear() }

// SetRates applies new motion parameters without regenerating the scene.
// Config hot-reload goes through here.
func (e *Engine) SetRates(r sim.Rates) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stepper != nil {
		e.stepper.SetRates(r)
	}
}

// Frame returns the most recently drawn frame.
func (e *Engine) Frame() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// Snapshot copies the current entity state for transport.
func (e *Engine) Snapshot() graph.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scene == nil {
		return graph.Snapshot{}
	}
	return e.scene.Snapshot()
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// RendererName reports which variant initialization settled on.
func (e *Engine) RendererName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.renderer == nil {
		return ""
	}
	return e.renderer.Name()
}

// Camera exposes the spatial orbit, or nil under the flat fallback.
func (e *Engine) Camera() *render.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sp, ok := e.renderer.(*render.Spatial); ok {
		return sp.Camera()
	}
	return nil
}

// SetTheme swaps the color palette at runtime. The flat variant has no
// colors, so it ignores the call.
func (e *Engine) SetTheme(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sp, ok := e.renderer.(*render.Spatial)
	if !ok {
		return
	}
	sp.SetTheme(render.GetTheme(name))
	if e.scene != nil && (e.state == StateRunning || e.state == StatePaused) {
		e.frame = e.renderer.Draw(e.scene)
	}
}

// BrailleGrid copies the last frame's braille cells, or returns nil under
// the flat fallback. Frame recording reads through here.
func (e *Engine) BrailleGrid() [][]rune {
	e.mu.Lock()
	defer e.mu.Unlock()
	sp, ok := e.renderer.(*render.Spatial)
	if !ok || sp.Canvas() == nil {
		return nil
	}
	c := sp.Canvas()
	grid := make([][]rune, c.Height)
	for row := range grid {
		grid[row] = make([]rune, c.Width)
		for col := range grid[row] {
			grid[row][col] = c.Glyph(col, row)
		}
	}
	return grid
}

// Stats is a cheap summary for status panels.
type Stats struct {
	Nodes, Edges, Particles, ActiveEdges int
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scene == nil {
		return Stats{}
	}
	return Stats{
		Nodes:       len(e.scene.Nodes),
		Edges:       len(e.scene.Edges),
		Particles:   len(e.scene.Particles),
		ActiveEdges: e.scene.ActiveEdges(),
	}
}

// Dispose cancels the pending frame, releases renderer resources and
// detaches the engine. Calling it again is a no-op.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.state == StateDisposed {
		e.mu.Unlock()
		return
	}
	e.state = StateDisposed
	clock := e.clock
	e.clock = nil
	e.mu.Unlock()

	if clock != nil {
		clock.stop()
	}
	close(e.stopc)

	e.mu.Lock()
	if e.renderer != nil {
		e.renderer.Close()
	}
	e.mu.Unlock()
	e.log.Debug("engine disposed")
}

// FrameScheduled reports whether a frame callback is pending.
func (e *Engine) FrameScheduled() bool {
	e.mu.Lock()
	clock := e.clock
	e.mu.Unlock()
	return clock != nil && clock.scheduled()
}

func validate(cfg graph.Config) error {
	if cfg.NodeCount < 0 {
		return fmt.Errorf("%w: node count %d", ErrBadConfig, cfg.NodeCount)
	}
	if cfg.ParticleCount < 0 {
		return fmt.Errorf("%w: particle count %d", ErrBadConfig, cfg.ParticleCount)
	}
	if cfg.ConnectionDistance < 0 {
		return fmt.Errorf("%w: connection distance %f", ErrBadConfig, cfg.ConnectionDistance)
	}
	if cfg.Bounds.W <= 0 || cfg.Bounds.H <= 0 {
		return fmt.Errorf("%w: bounds %+v", ErrBadConfig, cfg.Bounds)
	}
	return nil
}

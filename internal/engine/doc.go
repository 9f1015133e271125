// Package engine owns the visualization lifecycle: scene generation,
// renderer selection with startup fallback, the cooperative frame loop,
// pause/resume on visibility changes, viewport resizes, and teardown.
//
// An Engine moves through the states
//
//	Uninitialized -> Initializing -> Running <-> Paused -> Disposed
//
// Initializing internally branches between the spatial and flat renderers
// and collapses back into Running either way. Dispose is idempotent and no
// frame is scheduled afterwards.
//
// The mutable scene is owned exclusively by the engine; the renderer reads
// it only inside the engine's frame tick, keeping the single-writer,
// single-reader-per-frame discipline without exposing the collections.
package engine

// Package sim advances the graph scene one frame at a time: node motion
// with reflective boundary handling, pulse oscillators, stochastic edge
// activation and data flow, particle progress and rebinding, and the
// short-range pointer repulsion field.
//
// Stepper instances are NOT thread-safe; the engine drives exactly one
// Step call per frame from a single goroutine. Pointer updates are the one
// concession to asynchrony: they arrive from the UI thread and are read
// last-writer-wins by the next step.
package sim

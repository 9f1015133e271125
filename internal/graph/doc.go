// Package graph defines the entity model for the animated layered-graph
// visualization and the procedural generator that builds it.
//
// The three entity kinds:
//
//   - [Node]: a point with position, velocity and a pulsing oscillator
//   - [Edge]: a directed proximity link between two nodes, carrying
//     activation and data-flow state
//   - [Particle]: a token bound to one edge at a time, animating flow
//
// A [Scene] owns the entity collections and the bounding box they move in.
// Scenes are generated by [Generate] and mutated in place each frame by the
// sim package. Nothing here is safe for concurrent use; the engine package
// enforces the single-writer discipline.
package graph

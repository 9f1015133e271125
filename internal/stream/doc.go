// Package stream publishes engine snapshots over WebSockets so a browser
// or another process can mirror the scene. Clients may steer the engine
// back: pointer samples, pause and resume arrive as JSON messages.
package stream

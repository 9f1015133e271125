// Package tui is the interactive terminal front-end. It hosts the engine
// in driven mode, so Bubble Tea's tick loop is the only frame scheduler,
// and maps terminal events onto engine operations: mouse motion becomes
// the pointer, focus loss pauses, window resizes rescale the scene.
package tui

// Package render draws graph scenes to a terminal frame.
//
// Two capability-equivalent renderers sit behind the [Renderer] interface:
//
//   - [Spatial]: braille sub-pixel canvas with a perspective camera,
//     damped orbit and depth-sorted drawing; needs a UTF-8 terminal
//   - [Flat]: plain ASCII cell grid with an orthographic projection;
//     works anywhere
//
// [Select] probes for spatial capability once at startup and falls back to
// the flat variant on failure. The choice is fixed for the renderer's
// lifetime; nothing re-probes per frame.
package render

// Package viz renders a running simulation in the terminal.
//
// [Model] is a Bubble Tea program that advances a simulator on every frame
// and draws colliders and spheres on a braille [Canvas] through a [Camera]:
// an orthographic side view by default, with orbit and perspective modes.
// The stats panel tracks kinetic energy, the pool population and per
// collider bounce counts, and lists the parameters that can be retuned
// while the simulation runs.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene from its config
//	Tab   - Select parameter, Up/Down to tune it
//	V     - Toggle perspective, X/Y orbit, C side view
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G starts capturing canvas frames; pressing it again writes them to
// <scene>.gif in the current directory.
package viz

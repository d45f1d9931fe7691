// Package viz draws reconciled scenes in the terminal.
//
// Polygons are projected orthographically onto the xy plane and filled on a
// Braille [Canvas], one color per character cell. The live [Model] drives a
// [Session] frame by frame using the Bubble Tea framework; [Picker] wraps it
// with a scenario menu.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Rewind the clock
//	+/-   - Double/halve speed
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// Pressing G starts capturing frames; pressing it again writes them to
// dynscene.gif in the current directory.
package viz

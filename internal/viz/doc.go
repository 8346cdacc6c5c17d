// Package viz renders the gas live in the terminal.
//
// The view is a Bubble Tea program: each tick replays one or more collision
// events and redraws the container, the balls, and their velocity arrows on
// a Braille-based pixel canvas, alongside a stats panel with an asciigraph
// pressure sparkline.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial configuration
//	+/-   - More/fewer events per tick
//	Q     - Quit
package viz

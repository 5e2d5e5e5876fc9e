// Package viz renders synthetic hull runs in the terminal.
//
// [Model] is a Bubble Tea program that steps a [sim.Session] live and
// draws the hull profile on a Braille [Canvas] next to speed and drag
// graphs. [Plot] renders a finished trace column with asciigraph.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	+/-   - Raise/lower thrust
//	R     - Restart the scenario
//	Q     - Quit
package viz

// Package viz renders diffusion fields in the terminal.
//
//   - [Heatmap]: lipgloss half-block heatmap of a block-averaged field
//   - [PlotProfile], [PlotSeries]: asciigraph line plots
//   - [Model]: Bubble Tea program stepping a field live
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset to the seeded field
//	T     - Cycle heat palettes
//	+/-   - Double/halve steps per frame
//	Q     - Quit
package viz

// Package viz is the terminal front end.
//
// [Model] hosts a simulation inside a Bubble Tea program. [Renderer] draws
// the scene onto a braille [Canvas]: floor grid, the spinning cube and one
// circle per sphere, projected through the scene camera. Every cell keeps
// the ink of the last thing drawn into it so the theme can color floor,
// cube and spheres separately.
//
// # Key Bindings
//
//	click - drop a sphere where the ray meets the floor
//	s     - drop a sphere at the centre of the view
//	space - pause/resume
//	t     - cycle color themes
//	?     - full help
//	q     - quit
package viz

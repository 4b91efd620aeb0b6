// Package gui runs the simulation in a raylib window.
//
// [Window] is the host: it owns the OpenGL context, turns mouse clicks into
// pointer events and runs one scheduled frame per swap. [Renderer] draws the
// floor, the spinning cube and the spheres with raylib models.
package gui

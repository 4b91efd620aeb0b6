// Package export writes SVG renderings of terminal frames and recorded
// series.
package export

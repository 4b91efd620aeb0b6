package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/spherefall/internal/viz"
)

// CanvasToSVG converts a braille canvas to SVG, one circle per dot, colored
// by the cell's ink.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme, background string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Cols) * scale * 2
	height := float64(canvas.Rows) * scale * 4

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	inks := map[uint8]string{
		viz.InkNone:   string(theme.Text),
		viz.InkFloor:  string(theme.Muted),
		viz.InkCube:   string(theme.Accent),
		viz.InkSphere: string(theme.Scene),
	}
	dotRadius := scale * 0.4

	for _, ink := range []uint8{viz.InkFloor, viz.InkCube, viz.InkSphere, viz.InkNone} {
		var dots strings.Builder
		for row := 0; row < canvas.Rows; row++ {
			for col := 0; col < canvas.Cols; col++ {
				if canvas.Ink(col, row) != ink {
					continue
				}
				for dy := 0; dy < 4; dy++ {
					for dx := 0; dx < 2; dx++ {
						if !canvas.IsSet(col*2+dx, row*4+dy) {
							continue
						}
						cx := float64(col*2+dx)*scale + scale/2
						cy := float64(row*4+dy)*scale + scale/2
						dots.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
		if dots.Len() > 0 {
			sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", inks[ink]))
			sb.WriteString(dots.String())
			sb.WriteString("</g>\n")
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

type Point struct{ X, Y float64 }

// SeriesToSVG plots values against their index.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{float64(i), v}
	}
	return TrajectoryToSVG(points, width, height, strokeColor)
}

// TrajectoryToSVG draws points as one polyline scaled to fit with a 10%
// margin. Fewer than two points give an empty string.
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

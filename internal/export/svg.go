package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/particle"
	"github.com/san-kum/spherebounce/internal/viz"
)

const (
	background = "#0a0a0a"
	foreground = "#4fc3f7"
)

// CanvasToSVG draws every lit Braille dot of canvas as a circle, scale
// units apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, foreground))

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values against xs as a single polyline, padded by a
// tenth of each range. xs and values must have the same length.
func SeriesToSVG(xs, values []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(values) {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := values[0], values[0]
	for i := range xs {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, values[i]), max(maxY, values[i])
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
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
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

// Snapshot renders colliders and spheres onto a fresh canvas, framed the way
// the live view frames them.
func Snapshot(cs []*collider.Collider, ps []*particle.Particle, cols, rows int) *viz.Canvas {
	canvas := viz.NewCanvas(cols, rows)
	cam := viz.NewCamera()
	cam.Frame(cs)
	viz.Render3D(canvas, viz.ColliderWireframe(cs), cam)
	viz.RenderParticles(canvas, ps, cam)
	return canvas
}

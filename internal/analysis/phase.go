package analysis

import (
	"strings"

	"github.com/san-kum/spherebounce/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	Points []Point
}

// slotTrack returns the samples of one slot across frames. A slot is reused
// when its particle is recycled, so the track may jump.
func slotTrack(frames []dynamo.Frame, slot int) []dynamo.Sample {
	out := make([]dynamo.Sample, 0, len(frames))
	for _, f := range frames {
		for _, smp := range f.Samples {
			if smp.Slot == slot {
				out = append(out, smp)
				break
			}
		}
	}
	return out
}

// GeneratePhasePortrait plots height against vertical velocity for a slot.
func GeneratePhasePortrait(frames []dynamo.Frame, slot int) *PhasePortrait2D {
	track := slotTrack(frames, slot)
	if len(track) == 0 {
		return nil
	}

	portrait := &PhasePortrait2D{Points: make([]Point, 0, len(track))}
	for _, smp := range track {
		portrait.Points = append(portrait.Points, Point{X: smp.Position.Y(), Y: smp.Velocity.Y()})
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
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

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// zero velocity line
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// BounceSection is the state of a slot each time its vertical velocity turns
// from downward to upward.
type BounceSection struct {
	Times  []float64
	Points []Point
}

// GenerateBounceSection records (height, rebound speed) at every bounce of a
// slot. A recycled slot whose new particle rises can register as a bounce.
func GenerateBounceSection(frames []dynamo.Frame, slot int) *BounceSection {
	section := &BounceSection{}

	prevVy, seen := 0.0, false
	for _, f := range frames {
		found := false
		for _, smp := range f.Samples {
			if smp.Slot != slot {
				continue
			}
			found = true
			vy := smp.Velocity.Y()
			if seen && prevVy < 0 && vy > 0 {
				section.Times = append(section.Times, f.Time)
				section.Points = append(section.Points, Point{X: smp.Position.Y(), Y: vy})
			}
			prevVy = vy
			break
		}
		seen = found
	}
	return section
}

// BounceSectionToASCII converts section data to ASCII plot
func BounceSectionToASCII(section *BounceSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No bounces detected"
	}
	return PhasePortraitToASCII(&PhasePortrait2D{Points: section.Points}, width, height)
}

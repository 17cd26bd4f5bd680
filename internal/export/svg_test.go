package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/particle"
	"github.com/san-kum/spherebounce/internal/transform"
	"github.com/san-kum/spherebounce/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Error("expected 4x4 pixels at scale 2")
	}
	if !strings.Contains(svg, `cx="7.0" cy="7.0"`) {
		t.Error("expected the last dot at the bottom right")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{0}, []float64{1}, 100, 50, "#fff") != "" {
		t.Error("one point is not a series")
	}
	if SeriesToSVG([]float64{0, 1}, []float64{1}, 100, 50, "#fff") != "" {
		t.Error("mismatched lengths should be rejected")
	}

	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{0, 1, 0}, 120, 60, "#fff")
	if !strings.Contains(svg, `stroke="#fff"`) {
		t.Error("stroke color missing")
	}
	if n := strings.Count(svg, " L"); n != 2 {
		t.Errorf("expected 2 line segments, got %d", n)
	}
	if !strings.Contains(svg, "M10.0,55.0") {
		t.Errorf("first point should sit inside the padding: %s", svg)
	}
}

func TestSnapshot(t *testing.T) {
	floor := collider.NewPlane("floor", transform.New(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{10, 1, 10}), mgl64.Vec2{}, 0.8)
	tmpl, err := particle.NewTemplate("ball", 1, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	ball := particle.New(tmpl, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{}, 0)

	empty := viz.NewCanvas(40, 20).String()
	c := Snapshot([]*collider.Collider{floor}, []*particle.Particle{ball}, 40, 20)
	if c.String() == empty {
		t.Error("snapshot should draw something")
	}
}

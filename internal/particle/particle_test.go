package particle

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/dynamo"
)

func TestNewTemplateRejectsNonPositiveMass(t *testing.T) {
	for _, mass := range []float64{0, -0.1, -100, math.Inf(-1)} {
		_, err := NewTemplate("sphere", mass, 1)
		if !errors.Is(err, dynamo.ErrNonPositiveMass) {
			t.Errorf("mass %g: expected ErrNonPositiveMass, got %v", mass, err)
		}
	}
}

func TestNewTemplateRejectsNonPositiveScale(t *testing.T) {
	_, err := NewTemplate("sphere", 1, 0)
	if !errors.Is(err, dynamo.ErrNonPositiveScale) {
		t.Errorf("expected ErrNonPositiveScale, got %v", err)
	}
}

func TestParticleRadius(t *testing.T) {
	tmpl, err := NewTemplate("sphere", 0.1, 1.5)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	p := New(tmpl, mgl64.Vec3{}, mgl64.Vec3{}, dynamo.NoProxy)
	if p.Radius() != 0.75 {
		t.Errorf("expected radius 0.75, got %f", p.Radius())
	}
}

func TestParticleReleaseOnce(t *testing.T) {
	h := dynamo.NewNopHost()
	id, _ := h.Spawn("sphere", mgl64.Vec3{}, mgl64.QuatIdent())

	p := &Particle{Mass: 1, Scale: 1, Proxy: id}
	p.Release(h)
	p.Release(h)

	if p.HasProxy() {
		t.Error("particle still owns a proxy after release")
	}
	if h.Destroyed != 1 {
		t.Errorf("expected exactly 1 destroy, got %d", h.Destroyed)
	}
}

func TestParticleKineticEnergy(t *testing.T) {
	p := &Particle{Mass: 2, Velocity: mgl64.Vec3{3, 4, 0}}
	if ke := p.KineticEnergy(); math.Abs(ke-25) > 1e-12 {
		t.Errorf("expected kinetic energy 25, got %f", ke)
	}
}

func TestParticleIsValid(t *testing.T) {
	p := &Particle{Mass: 1, Position: mgl64.Vec3{0, math.NaN(), 0}}
	if p.IsValid() {
		t.Error("NaN position should be invalid")
	}
}

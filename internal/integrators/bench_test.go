package integrators

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/forces"
	"github.com/san-kum/spherebounce/internal/particle"
)

func benchForces() forces.Set {
	return forces.Set{
		forces.NewConstant(mgl64.Vec3{0, -9.8, 0}),
		forces.NewViscousDrag(0.1),
	}
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	f := benchForces()
	p := &particle.Particle{Mass: 1, Scale: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(p, f, 0.01)
	}
}

func BenchmarkSemiImplicitEuler(b *testing.B) {
	integrator := NewSemiImplicitEuler()
	f := benchForces()
	p := &particle.Particle{Mass: 1, Scale: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(p, f, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	f := benchForces()
	p := &particle.Particle{Mass: 1, Scale: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(p, f, 0.01)
	}
}

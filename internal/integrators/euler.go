package integrators

import (
	"github.com/san-kum/spherebounce/internal/forces"
	"github.com/san-kum/spherebounce/internal/particle"
)

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(p *particle.Particle, f forces.Force, dt float64) {
	accel := f.Force(p).Mul(1 / p.Mass)

	// position uses the pre-update velocity
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
	p.Velocity = p.Velocity.Add(accel.Mul(dt))
}

// SemiImplicitEuler updates velocity first and moves with the new velocity.
// Only used for comparison runs.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(p *particle.Particle, f forces.Force, dt float64) {
	accel := f.Force(p).Mul(1 / p.Mass)
	p.Velocity = p.Velocity.Add(accel.Mul(dt))
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
}

// Package integrators advances a particle by one fixed timestep under a force.
//
// [Euler] is the simulation default and its update order is part of the
// contract: position moves with the velocity from before the step, then the
// velocity takes the acceleration. Swapping the order changes trajectories.
package integrators

import (
	"fmt"

	"github.com/san-kum/spherebounce/internal/forces"
	"github.com/san-kum/spherebounce/internal/particle"
)

type Integrator interface {
	Step(p *particle.Particle, f forces.Force, dt float64)
}

var registry = map[string]func() Integrator{
	"euler":         func() Integrator { return NewEuler() },
	"semi-implicit": func() Integrator { return NewSemiImplicitEuler() },
	"rk4":           func() Integrator { return NewRK4() },
}

// Get returns a fresh integrator by name.
func Get(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	return []string{"euler", "semi-implicit", "rk4"}
}

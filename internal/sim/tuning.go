package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/integrators"
	"github.com/san-kum/spherebounce/internal/particle"
)

// Setters take effect from the next tick. Mass and scale only apply to
// particles spawned afterwards.

func (s *Simulator) SetMass(mass float64) error {
	t, err := particle.NewTemplate(s.template.Name, mass, s.template.Scale)
	if err != nil {
		return err
	}
	s.template = t
	return nil
}

func (s *Simulator) SetScale(scale float64) error {
	t, err := particle.NewTemplate(s.template.Name, s.template.Mass, scale)
	if err != nil {
		return err
	}
	s.template = t
	return nil
}

func (s *Simulator) SetPeriod(period float64) error {
	return s.emitter.SetPeriod(period)
}

func (s *Simulator) SetInitialVelocity(v mgl64.Vec3) {
	s.emitter.InitialVelocity = v
}

func (s *Simulator) SetConstantForce(f mgl64.Vec3) {
	s.constant.Set(f)
}

func (s *Simulator) SetDragCoefficient(kd float64) {
	s.drag.SetCoefficient(kd)
}

// SetCapacity resizes the pool, releasing the oldest particles on shrink.
func (s *Simulator) SetCapacity(n int) error {
	released, err := s.pool.Resize(n, s.host)
	if err != nil {
		return err
	}
	if released > 0 {
		s.log.Debug("pool shrunk", "capacity", n, "released", released)
	}
	return nil
}

func (s *Simulator) SetIntegrator(in integrators.Integrator) {
	s.integrator = in
}

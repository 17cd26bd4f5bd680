package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/forces"
	"github.com/san-kum/spherebounce/internal/particle"
)

// RK4 evaluates the force at intermediate states using a scratch particle so
// velocity-dependent forces see the trial velocity.
type RK4 struct {
	scratch particle.Particle
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) accel(p *particle.Particle, f forces.Force, x, v mgl64.Vec3) mgl64.Vec3 {
	r.scratch = *p
	r.scratch.Position = x
	r.scratch.Velocity = v
	return f.Force(&r.scratch).Mul(1 / p.Mass)
}

func (r *RK4) Step(p *particle.Particle, f forces.Force, dt float64) {
	x, v := p.Position, p.Velocity
	half := dt * 0.5

	k1x, k1v := v, r.accel(p, f, x, v)

	x2, v2 := x.Add(k1x.Mul(half)), v.Add(k1v.Mul(half))
	k2x, k2v := v2, r.accel(p, f, x2, v2)

	x3, v3 := x.Add(k2x.Mul(half)), v.Add(k2v.Mul(half))
	k3x, k3v := v3, r.accel(p, f, x3, v3)

	x4, v4 := x.Add(k3x.Mul(dt)), v.Add(k3v.Mul(dt))
	k4x, k4v := v4, r.accel(p, f, x4, v4)

	dt6 := dt / 6.0
	p.Position = x.Add(k1x.Add(k2x.Mul(2)).Add(k3x.Mul(2)).Add(k4x).Mul(dt6))
	p.Velocity = v.Add(k1v.Add(k2v.Mul(2)).Add(k3v.Mul(2)).Add(k4v).Mul(dt6))
}

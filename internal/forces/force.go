// Package forces provides the force generators applied to every particle.
//
// A [Force] maps a particle's current state to a force vector. Generators are
// composed into a [Set] whose Sum is evaluated fresh each tick; drag depends
// on the current velocity, so nothing is cached.
package forces

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/particle"
)

type Force interface {
	Force(p *particle.Particle) mgl64.Vec3
}

// Constant returns the same vector regardless of particle state (gravity).
type Constant struct {
	F mgl64.Vec3
}

func NewConstant(f mgl64.Vec3) *Constant {
	return &Constant{F: f}
}

func (c *Constant) Force(*particle.Particle) mgl64.Vec3 { return c.F }

// Set replaces the force vector. No validation.
func (c *Constant) Set(f mgl64.Vec3) { c.F = f }

func (c *Constant) GetParams() map[string]float64 {
	return map[string]float64{"fx": c.F[0], "fy": c.F[1], "fz": c.F[2]}
}

func (c *Constant) SetParam(name string, v float64) error {
	switch name {
	case "fx":
		c.F[0] = v
	case "fy":
		c.F[1] = v
	case "fz":
		c.F[2] = v
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// ViscousDrag opposes motion with magnitude proportional to speed.
type ViscousDrag struct {
	Kd float64
}

func NewViscousDrag(kd float64) *ViscousDrag {
	return &ViscousDrag{Kd: kd}
}

func (d *ViscousDrag) Force(p *particle.Particle) mgl64.Vec3 {
	return p.Velocity.Mul(-d.Kd)
}

// SetCoefficient replaces the drag coefficient. No validation.
func (d *ViscousDrag) SetCoefficient(kd float64) { d.Kd = kd }

func (d *ViscousDrag) GetParams() map[string]float64 {
	return map[string]float64{"drag": d.Kd}
}

func (d *ViscousDrag) SetParam(name string, v float64) error {
	if name != "drag" {
		return fmt.Errorf("unknown param: %s", name)
	}
	d.Kd = v
	return nil
}

// Set is an ordered collection of forces. A Set is itself a Force.
type Set []Force

func (s Set) Force(p *particle.Particle) mgl64.Vec3 {
	return s.Sum(p)
}

func (s Set) Sum(p *particle.Particle) mgl64.Vec3 {
	var total mgl64.Vec3
	for _, f := range s {
		total = total.Add(f.Force(p))
	}
	return total
}

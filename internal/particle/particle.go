// Package particle defines the simulated sphere and the template it is spawned from.
package particle

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/dynamo"
)

// Template holds the spawn-time properties shared by every emitted sphere.
// Mass and Scale are validated once here so that no tick can divide by zero.
type Template struct {
	Name  string
	Mass  float64
	Scale float64
}

func NewTemplate(name string, mass, scale float64) (Template, error) {
	t := Template{Name: name, Mass: mass, Scale: scale}
	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}

func (t Template) Validate() error {
	if t.Mass <= 0 {
		return fmt.Errorf("%w, got %g", dynamo.ErrNonPositiveMass, t.Mass)
	}
	if t.Scale <= 0 {
		return fmt.Errorf("%w, got %g", dynamo.ErrNonPositiveScale, t.Scale)
	}
	return nil
}

// Particle is a point-mass sphere. Scale is the uniform diameter.
type Particle struct {
	Mass     float64
	Scale    float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Proxy    dynamo.ProxyID
}

// New builds a particle from a validated template.
func New(t Template, pos, vel mgl64.Vec3, proxy dynamo.ProxyID) *Particle {
	return &Particle{
		Mass:     t.Mass,
		Scale:    t.Scale,
		Position: pos,
		Velocity: vel,
		Proxy:    proxy,
	}
}

func (p *Particle) Radius() float64 { return p.Scale / 2 }

// HasProxy reports whether the particle still owns a visual proxy.
func (p *Particle) HasProxy() bool { return p.Proxy != dynamo.NoProxy }

// Release destroys the owned proxy. Safe to call more than once.
func (p *Particle) Release(h dynamo.Host) {
	if p.Proxy == dynamo.NoProxy {
		return
	}
	h.Destroy(p.Proxy)
	p.Proxy = dynamo.NoProxy
}

// Sync pushes the particle position to its proxy.
func (p *Particle) Sync(h dynamo.Host) {
	if p.Proxy == dynamo.NoProxy {
		return
	}
	h.SetPosition(p.Proxy, p.Position)
}

func (p *Particle) IsValid() bool {
	return dynamo.IsFinite(p.Position) && dynamo.IsFinite(p.Velocity)
}

// KineticEnergy returns 1/2 m |v|^2.
func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
}

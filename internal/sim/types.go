package sim

import (
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/collision"
	"github.com/san-kum/spherebounce/internal/particle"
)

// ColliderSource supplies the static colliders tested every tick.
type ColliderSource interface {
	Colliders() []*collider.Collider
}

// Colliders is a fixed collider list.
type Colliders []*collider.Collider

func (c Colliders) Colliders() []*collider.Collider { return c }

type Metric interface {
	Name() string
	Observe(t float64, particles []*particle.Particle)
	Value() float64
	Reset()
}

// Observer is called once at the end of every tick with the live particles,
// oldest first.
type Observer interface {
	OnTick(t float64, particles []*particle.Particle)
}

// ContactObserver is called for every contact that was responded to.
// Metrics implementing it are notified as well.
type ContactObserver interface {
	OnContact(p *particle.Particle, c *collider.Collider, contact collision.Contact)
}

// Stats counts lifetime events of a simulator.
type Stats struct {
	Spawned  int
	Recycled int
	Contacts int
}

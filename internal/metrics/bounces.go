package metrics

import (
	"sort"

	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/collision"
	"github.com/san-kum/spherebounce/internal/particle"
)

// Bounces counts responded contacts, in total and per collider name.
type Bounces struct {
	name       string
	total      int
	byCollider map[string]int
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces", byCollider: make(map[string]int)}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(float64, []*particle.Particle) {}

func (b *Bounces) OnContact(_ *particle.Particle, c *collider.Collider, _ collision.Contact) {
	b.total++
	b.byCollider[c.Name]++
}

func (b *Bounces) Value() float64 { return float64(b.total) }

func (b *Bounces) Count(collider string) int { return b.byCollider[collider] }

// Colliders returns the names of colliders hit at least once, sorted.
func (b *Bounces) Colliders() []string {
	names := make([]string, 0, len(b.byCollider))
	for n := range b.byCollider {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (b *Bounces) Reset() {
	b.total = 0
	b.byCollider = make(map[string]int)
}

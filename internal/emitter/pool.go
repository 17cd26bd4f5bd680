package emitter

import (
	"fmt"

	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/particle"
)

// Pool is a fixed-capacity ring buffer of particles. Until it is full new
// particles are appended; after that each insert overwrites the slot under
// the write cursor, releasing the old particle's proxy first.
type Pool struct {
	slots  []*particle.Particle
	live   int
	cursor int
}

func NewPool(capacity int) (*Pool, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w, got %d", dynamo.ErrInvalidCapacity, capacity)
	}
	return &Pool{slots: make([]*particle.Particle, capacity)}, nil
}

func (p *Pool) Cap() int { return len(p.slots) }
func (p *Pool) Len() int { return p.live }

// Insert stores np and returns its slot. If a particle had to be recycled it
// is returned after its proxy has been released.
func (p *Pool) Insert(np *particle.Particle, h dynamo.Host) (int, *particle.Particle) {
	if p.live < len(p.slots) {
		slot := p.live
		p.slots[slot] = np
		p.live++
		return slot, nil
	}

	slot := p.cursor
	old := p.slots[slot]
	old.Release(h)
	p.slots[slot] = np
	p.cursor = (p.cursor + 1) % len(p.slots)
	return slot, old
}

// At returns the particle in slot i, or nil.
func (p *Pool) At(i int) *particle.Particle {
	if i < 0 || i >= p.live {
		return nil
	}
	return p.slots[i]
}

// Each visits live particles in slot order.
func (p *Pool) Each(fn func(slot int, pt *particle.Particle)) {
	for i := 0; i < p.live; i++ {
		fn(i, p.slots[i])
	}
}

// Ordered returns the live particles oldest first.
func (p *Pool) Ordered() []*particle.Particle {
	out := make([]*particle.Particle, 0, p.live)
	if p.live < len(p.slots) {
		return append(out, p.slots[:p.live]...)
	}
	out = append(out, p.slots[p.cursor:]...)
	return append(out, p.slots[:p.cursor]...)
}

// Resize changes the capacity between ticks. When shrinking below the live
// count the oldest particles are released.
func (p *Pool) Resize(capacity int, h dynamo.Host) (int, error) {
	if capacity < 1 {
		return 0, fmt.Errorf("%w, got %d", dynamo.ErrInvalidCapacity, capacity)
	}

	ordered := p.Ordered()
	released := 0
	if len(ordered) > capacity {
		released = len(ordered) - capacity
		for _, old := range ordered[:released] {
			old.Release(h)
		}
		ordered = ordered[released:]
	}

	p.slots = make([]*particle.Particle, capacity)
	copy(p.slots, ordered)
	p.live = len(ordered)
	p.cursor = 0
	return released, nil
}

// Clear releases every live particle.
func (p *Pool) Clear(h dynamo.Host) {
	for i := 0; i < p.live; i++ {
		p.slots[i].Release(h)
		p.slots[i] = nil
	}
	p.live = 0
	p.cursor = 0
}

package metrics

import (
	"github.com/san-kum/spherebounce/internal/particle"
)

// Population reports the peak number of live particles.
type Population struct {
	name    string
	peak    int
	current int
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(t float64, ps []*particle.Particle) {
	p.current = len(ps)
	if p.current > p.peak {
		p.peak = p.current
	}
}

func (p *Population) Value() float64 { return float64(p.peak) }
func (p *Population) Current() int   { return p.current }

func (p *Population) Reset() {
	p.peak = 0
	p.current = 0
}

// Escaped is the fraction of particle samples found below a floor height,
// i.e. particles that missed every collider.
type Escaped struct {
	name    string
	floor   float64
	escaped int
	samples int
}

func NewEscaped(floor float64) *Escaped {
	return &Escaped{name: "escaped", floor: floor}
}

func (e *Escaped) Name() string { return e.name }

func (e *Escaped) Observe(t float64, ps []*particle.Particle) {
	for _, p := range ps {
		if p.Position.Y() < e.floor {
			e.escaped++
		}
		e.samples++
	}
}

func (e *Escaped) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return float64(e.escaped) / float64(e.samples)
}

func (e *Escaped) Reset() {
	e.escaped = 0
	e.samples = 0
}

package metrics

import (
	"github.com/san-kum/spherebounce/internal/particle"
)

// KineticEnergy is the total kinetic energy of the live particles, averaged
// over the observed ticks.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
	peak        float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(t float64, ps []*particle.Particle) {
	ke := Total(ps)
	e.totalEnergy += ke
	if ke > e.peak {
		e.peak = ke
	}
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

// Peak is the highest total observed in a single tick.
func (e *KineticEnergy) Peak() float64 { return e.peak }

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.peak = 0
	e.samples = 0
}

// Total sums the kinetic energy of ps.
func Total(ps []*particle.Particle) float64 {
	sum := 0.0
	for _, p := range ps {
		sum += p.KineticEnergy()
	}
	return sum
}

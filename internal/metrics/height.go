package metrics

import (
	"math"

	"github.com/san-kum/spherebounce/internal/particle"
)

// MeanHeight averages the particles' world Y over every observed tick that
// had at least one live particle.
type MeanHeight struct {
	name    string
	sum     float64
	samples int
}

func NewMeanHeight() *MeanHeight {
	return &MeanHeight{name: "mean_height"}
}

func (h *MeanHeight) Name() string { return h.name }

func (h *MeanHeight) Observe(t float64, ps []*particle.Particle) {
	if len(ps) == 0 {
		return
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.Position.Y()
	}
	h.sum += sum / float64(len(ps))
	h.samples++
}

func (h *MeanHeight) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return h.sum / float64(h.samples)
}

func (h *MeanHeight) Reset() {
	h.sum = 0
	h.samples = 0
}

// MeanSpeed is the average particle speed over all observed samples.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(t float64, ps []*particle.Particle) {
	for _, p := range ps {
		m.sum += math.Sqrt(p.Velocity.Dot(p.Velocity))
		m.samples++
	}
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

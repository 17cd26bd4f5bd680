package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Configurable is implemented by anything with runtime-tunable parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Config controls a batch run.
type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	// RecordEvery records one frame every N ticks. Zero records every tick.
	RecordEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.02,
		Duration:      10.0,
		RecordEvery:   1,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w, got %f", ErrInvalidTimestep, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	return nil
}

// Steps is the number of ticks a run of this config takes.
func (c Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

// Sample is one particle's state at a recorded tick. Slot is the pool slot the
// particle occupies, so samples of the same particle line up across frames
// until it is recycled.
type Sample struct {
	Slot     int        `json:"slot"`
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
}

// Frame is every live particle at one recorded tick.
type Frame struct {
	Time    float64  `json:"time"`
	Samples []Sample `json:"samples"`
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Spawned    int
	Recycled   int
	Contacts   int
	Errors     []error
}

// MeanHeight returns the average Y position of each frame.
func (r *Result) MeanHeight() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		if len(f.Samples) == 0 {
			continue
		}
		sum := 0.0
		for _, s := range f.Samples {
			sum += s.Position.Y()
		}
		out[i] = sum / float64(len(f.Samples))
	}
	return out
}

// Times returns the timestamp of each frame.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Time
	}
	return out
}

// IsFinite reports whether every component of v is a real number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Package emitter spawns particles on a fixed cadence into a bounded pool.
package emitter

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/particle"
	"github.com/san-kum/spherebounce/internal/transform"
)

// Emitter counts down by the elapsed time each tick and fires once the
// countdown reaches zero. The countdown is then reset to Period, not
// Period minus the overshoot, so when Period is not a multiple of dt the
// average rate runs slightly below 1/Period.
type Emitter struct {
	Transform       *transform.Transform
	Period          float64
	InitialVelocity mgl64.Vec3
	countdown       float64
}

// New seeds the countdown to period, or to zero when emitOnStart is set so
// the first tick fires.
func New(t *transform.Transform, period float64, v0 mgl64.Vec3, emitOnStart bool) (*Emitter, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w, got %g", dynamo.ErrInvalidPeriod, period)
	}
	e := &Emitter{Transform: t, Period: period, InitialVelocity: v0, countdown: period}
	if emitOnStart {
		e.countdown = 0
	}
	return e, nil
}

func (e *Emitter) Countdown() float64 { return e.countdown }

func (e *Emitter) SetPeriod(period float64) error {
	if period <= 0 {
		return fmt.Errorf("%w, got %g", dynamo.ErrInvalidPeriod, period)
	}
	e.Period = period
	if e.countdown > period {
		e.countdown = period
	}
	return nil
}

// Tick advances the countdown and reports whether one particle is due.
func (e *Emitter) Tick(dt float64) bool {
	e.countdown -= dt
	if e.countdown > 0 {
		return false
	}
	e.countdown = e.Period
	return true
}

// SpawnState returns the world position and velocity of a new particle:
// the emitter origin and the initial velocity rotated into world space.
func (e *Emitter) SpawnState() (mgl64.Vec3, mgl64.Vec3) {
	return e.Transform.TransformPoint(mgl64.Vec3{}), e.Transform.TransformDirection(e.InitialVelocity)
}

// Spawn creates a particle at the emitter and a sized proxy for it. If the
// host cannot provide a proxy the particle is still returned, without a
// visual, together with the host's error.
func (e *Emitter) Spawn(tmpl particle.Template, h dynamo.Host) (*particle.Particle, error) {
	pos, vel := e.SpawnState()

	id, err := h.Spawn(tmpl.Name, pos, mgl64.QuatIdent())
	if err != nil {
		return particle.New(tmpl, pos, vel, dynamo.NoProxy), err
	}
	h.SetWorldScale(id, mgl64.Vec3{tmpl.Scale, tmpl.Scale, tmpl.Scale})
	return particle.New(tmpl, pos, vel, id), nil
}

package emitter

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/transform"
)

func TestNewRejectsBadPeriod(t *testing.T) {
	_, err := New(transform.Identity(), 0, mgl64.Vec3{}, false)
	assert.True(t, errors.Is(err, dynamo.ErrInvalidPeriod))
}

func TestTickCadence(t *testing.T) {
	tests := []struct {
		name        string
		period, dt  float64
		emitOnStart bool
		ticks       int
		want        []int
	}{
		{"first emission after one period", 0.1, 0.05, false, 6, []int{1, 3, 5}},
		{"emit on start", 0.1, 0.05, true, 4, []int{0, 2}},
		{"period shorter than dt", 0.01, 0.05, false, 3, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(transform.Identity(), tt.period, mgl64.Vec3{}, tt.emitOnStart)
			require.NoError(t, err)

			var fired []int
			for i := 0; i < tt.ticks; i++ {
				if e.Tick(tt.dt) {
					fired = append(fired, i)
				}
			}
			assert.Equal(t, tt.want, fired)
		})
	}
}

func TestTickDropsOvershoot(t *testing.T) {
	// period 0.25 with dt 0.1 fires on ticks 2, 5, 8: every 0.3s, not 0.25s.
	e, err := New(transform.Identity(), 0.25, mgl64.Vec3{}, false)
	require.NoError(t, err)

	n := 0
	for i := 0; i < 9; i++ {
		if e.Tick(0.1) {
			n++
			assert.InDelta(t, 0.25, e.Countdown(), 1e-12)
		}
	}
	assert.Equal(t, 3, n)
}

func TestSetPeriodClampsCountdown(t *testing.T) {
	e, _ := New(transform.Identity(), 1, mgl64.Vec3{}, false)
	require.NoError(t, e.SetPeriod(0.2))
	assert.InDelta(t, 0.2, e.Countdown(), 1e-12)
	assert.Error(t, e.SetPeriod(-1))
}

func TestSpawnState(t *testing.T) {
	tr := transform.FromEuler(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 90}, mgl64.Vec3{2, 2, 2})
	e, _ := New(tr, 1, mgl64.Vec3{0, 5, 0}, false)

	pos, vel := e.SpawnState()
	assert.InDelta(t, 1, pos.X(), 1e-9)
	assert.InDelta(t, 2, pos.Y(), 1e-9)
	assert.InDelta(t, 3, pos.Z(), 1e-9)

	// direction is rotated but not scaled
	assert.InDelta(t, -5, vel.X(), 1e-9)
	assert.InDelta(t, 0, vel.Y(), 1e-9)
	assert.InDelta(t, 0, vel.Z(), 1e-9)
}

func TestSpawnWithoutTemplate(t *testing.T) {
	e, _ := New(transform.Identity(), 1, mgl64.Vec3{1, 0, 0}, false)

	h := dynamo.NewNopHost("other")
	p, err := e.Spawn(ball, h)
	assert.True(t, errors.Is(err, dynamo.ErrTemplateNotFound))
	require.NotNil(t, p)
	assert.False(t, p.HasProxy())
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, p.Velocity)

	h = dynamo.NewNopHost("ball")
	p, err = e.Spawn(ball, h)
	require.NoError(t, err)
	assert.True(t, p.HasProxy())
	assert.Equal(t, 1, h.Live())
}

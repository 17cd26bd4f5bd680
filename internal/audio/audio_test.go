package audio

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/collision"
	"github.com/san-kum/spherebounce/internal/particle"
	"github.com/san-kum/spherebounce/internal/transform"
	"github.com/stretchr/testify/assert"
)

func buffer() [][]float32 {
	return [][]float32{make([]float32, BufferSize), make([]float32, BufferSize)}
}

func peak(out [][]float32) float32 {
	var m float32
	for _, ch := range out {
		for _, v := range ch {
			m = max(m, v, -v)
		}
	}
	return m
}

func TestPitch(t *testing.T) {
	assert.Equal(t, Pitch("floor"), Pitch("floor"))
	assert.Contains(t, scale, Pitch("bumper-left"))
}

func TestSilentWithoutContacts(t *testing.T) {
	a := NewProcessor()
	out := buffer()
	a.Process(out)
	assert.Zero(t, peak(out))
	assert.Zero(t, a.Voices())
}

func TestStrikeDecays(t *testing.T) {
	a := NewProcessor()
	a.Strike(Pitch("floor"), 1)
	assert.Equal(t, 1, a.Voices())

	out := buffer()
	a.Process(out)
	assert.Greater(t, peak(out), float32(0.01))
	assert.Equal(t, 1, a.Voices())

	bass, mid, high := a.Levels()
	assert.Greater(t, bass+mid+high, 0.0)

	// one second of buffers is many envelope time constants
	for i := 0; i < SampleRate/BufferSize; i++ {
		a.Process(out)
	}
	assert.Zero(t, a.Voices())
}

func TestOnContactScalesWithImpact(t *testing.T) {
	a := NewProcessor()
	c := collider.NewSphere("ball", transform.New(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}), 0.8)
	tmpl, _ := particle.NewTemplate("ball", 1, 0.2)
	contact := collision.Contact{Collided: true, Entering: true, Normal: mgl64.Vec3{0, 1, 0}}

	slow := particle.New(tmpl, mgl64.Vec3{}, mgl64.Vec3{3, 0.01, 0}, 0)
	a.OnContact(slow, c, contact)
	assert.Zero(t, a.Voices(), "grazing contact should be silent")

	fast := particle.New(tmpl, mgl64.Vec3{}, mgl64.Vec3{0, 5, 0}, 0)
	a.OnContact(fast, c, contact)
	assert.Equal(t, 1, a.Voices())
	assert.Equal(t, 0.5, a.pending[0].amp)
}

func TestOnContactRotatedCollider(t *testing.T) {
	a := NewProcessor()
	wall := collider.NewPlane("wall", transform.FromEuler(mgl64.Vec3{}, mgl64.Vec3{0, 0, 90}, mgl64.Vec3{1, 1, 1}), mgl64.Vec2{0.5, 0.5}, 1)
	contact := collision.Contact{Collided: true, Entering: true, Normal: collision.Up}

	// the wall's local +Y faces along world -X
	tmpl, _ := particle.NewTemplate("ball", 1, 0.2)
	p := particle.New(tmpl, mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, 0)
	a.OnContact(p, wall, contact)
	assert.Equal(t, 1, a.Voices())
	assert.InDelta(t, 1.0, a.pending[0].amp, 1e-9)
}

func TestVoiceLimit(t *testing.T) {
	a := NewProcessor()
	for i := 0; i < maxVoices+10; i++ {
		a.Strike(220, 1)
	}
	a.Process(buffer())
	assert.LessOrEqual(t, a.Voices(), maxVoices)
}

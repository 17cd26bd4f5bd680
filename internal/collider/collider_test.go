package collider

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"sphere", Sphere},
		{"SphereCollider", Sphere},
		{"plane", Plane},
		{"PlaneCollider", Plane},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("capsule")
	assert.True(t, errors.Is(err, dynamo.ErrUnknownShape))
}

func TestSphereSnapshotRadius(t *testing.T) {
	c := NewSphere("ball", transform.New(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent(), mgl64.Vec3{4, 4, 4}), 0.5)

	s := c.Snapshot()
	assert.Equal(t, 2.0, s.Radius)
	assert.Equal(t, 0.5, s.Restitution)
	assert.Equal(t, mgl64.Vec3{4, 4, 4}, c.Transform.LocalScale, "scale must be restored")
}

func TestPlaneSnapshotHalfExtents(t *testing.T) {
	c := NewPlane("floor", transform.New(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{2, 1, 3}), mgl64.Vec2{5, 5}, 1)

	s := c.Snapshot()
	assert.Equal(t, 10.0, s.HalfHeight)
	assert.Equal(t, 15.0, s.HalfWidth)
}

func TestPlaneDefaultHalfExtents(t *testing.T) {
	c := NewPlane("floor", transform.Identity(), mgl64.Vec2{}, 1)
	assert.Equal(t, DefaultHalfExtents, c.HalfExtents)
}

func TestAmplifies(t *testing.T) {
	assert.False(t, NewSphere("a", transform.Identity(), 1).Amplifies())
	assert.True(t, NewSphere("b", transform.Identity(), 1.2).Amplifies())
}

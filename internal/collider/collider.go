// Package collider describes the static shapes spheres bounce off.
package collider

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/transform"
)

type Kind int

const (
	Sphere Kind = iota
	Plane
)

func (k Kind) String() string {
	switch k {
	case Sphere:
		return "sphere"
	case Plane:
		return "plane"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the shape tags used in scene files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "sphere", "spherecollider":
		return Sphere, nil
	case "plane", "planecollider":
		return Plane, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownShape, s)
}

// DefaultHalfExtents describes a unit plane before scaling.
var DefaultHalfExtents = mgl64.Vec2{0.5, 0.5}

// Collider is a static shape. The simulation only reads it.
//
// Sphere: radius is half the lossy X scale; scale is assumed uniform.
// Plane: a rectangle in the local XZ plane at Y=0 whose half extents are
// HalfExtents scaled by the lossy X and Z scale. A zero scale axis gives
// degenerate geometry and is not guarded.
//
// Restitution is not clamped. Values above one add energy on every bounce.
type Collider struct {
	Name        string
	Kind        Kind
	Transform   *transform.Transform
	Restitution float64
	HalfExtents mgl64.Vec2
}

func NewSphere(name string, t *transform.Transform, restitution float64) *Collider {
	return &Collider{Name: name, Kind: Sphere, Transform: t, Restitution: restitution}
}

func NewPlane(name string, t *transform.Transform, halfExtents mgl64.Vec2, restitution float64) *Collider {
	if halfExtents == (mgl64.Vec2{}) {
		halfExtents = DefaultHalfExtents
	}
	return &Collider{Name: name, Kind: Plane, Transform: t, Restitution: restitution, HalfExtents: halfExtents}
}

// Snapshot is the consistent view of a collider a single test works on.
type Snapshot struct {
	Frame       transform.Frame
	Kind        Kind
	Restitution float64
	// Radius is set for spheres.
	Radius float64
	// HalfHeight (local X) and HalfWidth (local Z) are set for planes.
	HalfHeight, HalfWidth float64
}

func (c *Collider) Snapshot() Snapshot {
	f := c.Transform.UnitFrame()
	s := Snapshot{Frame: f, Kind: c.Kind, Restitution: c.Restitution}
	switch c.Kind {
	case Sphere:
		s.Radius = f.Size.X() / 2
	case Plane:
		s.HalfHeight = c.HalfExtents.X() * f.Size.X()
		s.HalfWidth = c.HalfExtents.Y() * f.Size.Z()
	}
	return s
}

// Amplifies reports whether the restitution injects energy.
func (c *Collider) Amplifies() bool { return c.Restitution > 1 }

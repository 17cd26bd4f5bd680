// Package collision tests particles against static colliders and applies the
// bounce response.
//
// Every call is a pure test-and-respond on one (particle, collider) pair.
// The particle is moved into the collider's unscaled local frame, tested
// against the shape there, and only an entering contact (velocity pointing
// into the surface) is answered: the velocity is reflected with the
// collider's restitution and, for planes, the particle is lifted back onto
// the surface. A contact that is already separating is left untouched.
package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/particle"
)

// Up is the plane normal in collider-local space and the fallback normal for
// a degenerate sphere contact.
var Up = mgl64.Vec3{0, 1, 0}

// Contact is the outcome of one shape test. Normal and Closest are in
// collider-local space; Closest is only meaningful for planes.
type Contact struct {
	Collided bool
	Entering bool
	Normal   mgl64.Vec3
	Closest  mgl64.Vec3
}

// Responded reports whether the resolver changed the particle.
func (c Contact) Responded() bool { return c.Collided && c.Entering }

func normalizeOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return fallback
	}
	return v.Mul(1 / l)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// TestSphere checks a ball at local position pos against a sphere collider
// centred on the local origin.
func TestSphere(pos, vel mgl64.Vec3, colliderRadius, ballRadius float64) Contact {
	n := normalizeOr(pos, Up)
	return Contact{
		Collided: pos.Len() <= colliderRadius+ballRadius,
		Entering: vel.Dot(n) < 0,
		Normal:   n,
	}
}

// TestPlane checks a ball against the finite plane spanning
// [-halfHeight, halfHeight] on local X and [-halfWidth, halfWidth] on local Z.
func TestPlane(pos, vel mgl64.Vec3, halfHeight, halfWidth, ballRadius float64) Contact {
	closest := mgl64.Vec3{
		clamp(pos.X(), -halfHeight, halfHeight),
		0,
		clamp(pos.Z(), -halfWidth, halfWidth),
	}
	toBall := pos.Sub(closest)

	n := Up
	onBorder := math.Abs(closest.X()) == halfHeight || math.Abs(closest.Z()) == halfWidth
	if onBorder {
		n = normalizeOr(toBall, Up)
	}

	return Contact{
		Collided: toBall.Len() <= ballRadius,
		Entering: vel.Y() < 0,
		Normal:   n,
		Closest:  closest,
	}
}

// Reflect removes the velocity's component along n and adds back e times its
// magnitude pointing the other way. The tangential part is unchanged.
func Reflect(v, n mgl64.Vec3, e float64) mgl64.Vec3 {
	return v.Sub(n.Mul((1 + e) * v.Dot(n)))
}

// Resolve snapshots c and resolves p against it.
func Resolve(p *particle.Particle, c *collider.Collider) Contact {
	return ResolveSnapshot(p, c.Snapshot())
}

func ResolveSnapshot(p *particle.Particle, s collider.Snapshot) Contact {
	pos := s.Frame.ToLocalPoint(p.Position)
	vel := s.Frame.ToLocalDirection(p.Velocity)
	r := p.Radius()

	var c Contact
	switch s.Kind {
	case collider.Sphere:
		c = TestSphere(pos, vel, s.Radius, r)
	case collider.Plane:
		c = TestPlane(pos, vel, s.HalfHeight, s.HalfWidth, r)
	default:
		return c
	}

	if !c.Responded() {
		return c
	}

	if s.Kind == collider.Plane {
		// keep resting spheres from sinking under a persistent force
		pos = c.Closest.Add(c.Normal.Mul(r))
		p.Position = s.Frame.ToWorldPoint(pos)
	}
	p.Velocity = s.Frame.ToWorldDirection(Reflect(vel, c.Normal, s.Restitution))

	return c
}

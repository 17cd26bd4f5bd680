// Package transform implements a translate-rotate-scale node with an optional
// parent, the minimal scene-graph math the host and colliders need.
package transform

import (
	"github.com/go-gl/mathgl/mgl64"
)

var one = mgl64.Vec3{1, 1, 1}

type Transform struct {
	LocalPosition mgl64.Vec3
	LocalRotation mgl64.Quat
	LocalScale    mgl64.Vec3
	Parent        *Transform
}

func New(pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) *Transform {
	return &Transform{
		LocalPosition: pos,
		LocalRotation: rot,
		LocalScale:    scale,
	}
}

func Identity() *Transform {
	return New(mgl64.Vec3{}, mgl64.QuatIdent(), one)
}

// FromEuler builds a transform from Euler angles in degrees, applied X then Y then Z.
func FromEuler(pos, degrees, scale mgl64.Vec3) *Transform {
	rot := mgl64.AnglesToQuat(
		mgl64.DegToRad(degrees[0]),
		mgl64.DegToRad(degrees[1]),
		mgl64.DegToRad(degrees[2]),
		mgl64.XYZ,
	)
	return New(pos, rot, scale)
}

func (t *Transform) LocalMatrix() mgl64.Mat4 {
	p, s := t.LocalPosition, t.LocalScale
	return mgl64.Translate3D(p[0], p[1], p[2]).
		Mul4(t.LocalRotation.Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

func (t *Transform) WorldMatrix() mgl64.Mat4 {
	if t.Parent == nil {
		return t.LocalMatrix()
	}
	return t.Parent.WorldMatrix().Mul4(t.LocalMatrix())
}

// Position is the world-space origin of the transform.
func (t *Transform) Position() mgl64.Vec3 {
	return t.TransformPoint(mgl64.Vec3{})
}

// SetPosition moves the transform so its world origin lands on pos.
func (t *Transform) SetPosition(pos mgl64.Vec3) {
	if t.Parent == nil {
		t.LocalPosition = pos
		return
	}
	t.LocalPosition = t.Parent.InverseTransformPoint(pos)
}

func (t *Transform) Rotation() mgl64.Quat {
	if t.Parent == nil {
		return t.LocalRotation
	}
	return t.Parent.Rotation().Mul(t.LocalRotation)
}

// LossyScale approximates the world scale as the component-wise product of
// local scales up the hierarchy. Exact unless a rotated parent is scaled
// non-uniformly.
func (t *Transform) LossyScale() mgl64.Vec3 {
	s := t.LocalScale
	for p := t.Parent; p != nil; p = p.Parent {
		s = mgl64.Vec3{s[0] * p.LocalScale[0], s[1] * p.LocalScale[1], s[2] * p.LocalScale[2]}
	}
	return s
}

// SetWorldScale sets the local scale so the lossy scale equals world,
// compensating for any parent scaling.
func (t *Transform) SetWorldScale(world mgl64.Vec3) {
	t.LocalScale = one
	lossy := t.LossyScale()
	t.LocalScale = mgl64.Vec3{world[0] / lossy[0], world[1] / lossy[1], world[2] / lossy[2]}
}

func (t *Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return t.WorldMatrix().Mul4x1(p.Vec4(1)).Vec3()
}

func (t *Transform) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return t.WorldMatrix().Inv().Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection rotates d into world space. Scale is not applied.
func (t *Transform) TransformDirection(d mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation().Rotate(d)
}

func (t *Transform) InverseTransformDirection(d mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation().Inverse().Rotate(d)
}

// Frame is a read-only snapshot of a transform with its scale detached:
// the matrices map between world space and the unscaled local space, and
// Size keeps the lossy scale the shape tests read their dimensions from.
type Frame struct {
	World   mgl64.Mat4
	Inverse mgl64.Mat4
	Size    mgl64.Vec3
}

// UnitFrame temporarily normalizes the world scale to one, reads the
// resulting matrices and restores the original local scale.
func (t *Transform) UnitFrame() Frame {
	size := t.LossyScale()
	saved := t.LocalScale
	t.SetWorldScale(one)
	world := t.WorldMatrix()
	t.LocalScale = saved

	return Frame{World: world, Inverse: world.Inv(), Size: size}
}

func (f Frame) ToLocalPoint(p mgl64.Vec3) mgl64.Vec3 {
	return f.Inverse.Mul4x1(p.Vec4(1)).Vec3()
}

func (f Frame) ToLocalDirection(d mgl64.Vec3) mgl64.Vec3 {
	return f.Inverse.Mul4x1(d.Vec4(0)).Vec3()
}

func (f Frame) ToWorldPoint(p mgl64.Vec3) mgl64.Vec3 {
	return f.World.Mul4x1(p.Vec4(1)).Vec3()
}

func (f Frame) ToWorldDirection(d mgl64.Vec3) mgl64.Vec3 {
	return f.World.Mul4x1(d.Vec4(0)).Vec3()
}

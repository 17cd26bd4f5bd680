package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/viz"
)

func vec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

// frameCamera looks at the centre of the colliders from the front and
// slightly above, far enough back to see all of them.
func frameCamera(cs []*collider.Collider) rl.Camera3D {
	target, dist := mgl64.Vec3{0, 2, 0}, 15.0
	if lo, hi, ok := viz.Bounds(cs); ok {
		target = lo.Add(hi).Mul(0.5)
		dist = math.Max(8, hi.Sub(lo).Len()*1.2)
	}
	pos := target.Add(mgl64.Vec3{0, dist * 0.35, dist})
	return rl.NewCamera3D(vec(pos), vec(target), rl.NewVector3(0, 1, 0), 45, rl.CameraPerspective)
}

// orbit rotates pos about the vertical axis through target.
func orbit(pos, target rl.Vector3, angle float32) rl.Vector3 {
	s, c := float32(math.Sin(float64(angle))), float32(math.Cos(float64(angle)))
	dx, dz := pos.X-target.X, pos.Z-target.Z
	return rl.NewVector3(target.X+dx*c-dz*s, pos.Y, target.Z+dx*s+dz*c)
}

func (a *App) CustomGrid(slices int, spacing float32) {
	halfSize := float32(slices) * spacing / 2
	floor := float32(a.Config.EscapeHeight)
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, floor, -halfSize), rl.NewVector3(pos, floor, halfSize), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-halfSize, floor, pos), rl.NewVector3(halfSize, floor, pos), ColGrid)
	}
}

// RenderColliders draws spheres as wire spheres and planes as double-sided
// quads with an outline.
func (a *App) RenderColliders() {
	for _, c := range a.Exp.Scene().Colliders() {
		s := c.Snapshot()
		f := s.Frame
		center := f.ToWorldPoint(mgl64.Vec3{})
		switch s.Kind {
		case collider.Sphere:
			rl.DrawSphereWires(vec(center), float32(s.Radius), 12, 16, ColCollide)
		case collider.Plane:
			hx, hz := s.HalfHeight, s.HalfWidth
			p := [4]rl.Vector3{
				vec(f.ToWorldPoint(mgl64.Vec3{-hx, 0, -hz})),
				vec(f.ToWorldPoint(mgl64.Vec3{hx, 0, -hz})),
				vec(f.ToWorldPoint(mgl64.Vec3{hx, 0, hz})),
				vec(f.ToWorldPoint(mgl64.Vec3{-hx, 0, hz})),
			}
			fill := rl.ColorAlpha(ColCollide, 0.25)
			rl.DrawTriangle3D(p[0], p[2], p[1], fill)
			rl.DrawTriangle3D(p[0], p[3], p[2], fill)
			rl.DrawTriangle3D(p[0], p[1], p[2], fill)
			rl.DrawTriangle3D(p[0], p[2], p[3], fill)
			for i := range p {
				rl.DrawLine3D(p[i], p[(i+1)%4], ColCollide)
			}
			if a.ShowNormals {
				n := f.ToWorldDirection(mgl64.Vec3{0, 1, 0}).Mul(0.5)
				rl.DrawLine3D(vec(center), vec(center.Add(n)), ColAccent)
			}
		}
	}
}

// RenderProxies draws every live proxy at its world position, sized by its
// world scale.
func (a *App) RenderProxies() {
	for _, p := range a.Exp.Scene().Proxies() {
		pos := p.Transform.Position()
		r := p.Transform.LossyScale().X() / 2
		shade := uint8(math.Min(255, 120+math.Max(0, pos.Y())*15))
		rl.DrawSphere(vec(pos), float32(r), rl.NewColor(shade, shade, shade, 255))
	}
}

func (a *App) RenderEmitter() {
	e := a.Exp.Simulator().Emitter()
	origin := e.Transform.TransformPoint(mgl64.Vec3{})
	rl.DrawCubeWires(vec(origin), 0.3, 0.3, 0.3, ColAccent)
	if a.ShowNormals {
		dir := e.Transform.TransformDirection(e.InitialVelocity).Mul(0.1)
		rl.DrawLine3D(vec(origin), vec(origin.Add(dir)), ColSelect)
	}
}

package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/particle"
)

const circleSegments = 24

// Camera orbits Target and projects world points onto a canvas. With
// Perspective off and zero yaw/pitch it is a side view looking down -Z.
type Camera struct {
	Target      mgl64.Vec3
	Extent      float64 // half-size of the visible region in world units
	Distance    float64
	Yaw, Pitch  float64
	Zoom        float64
	Perspective bool
}

func NewCamera() *Camera {
	return &Camera{Extent: 10, Distance: 40, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+a)) }
func (c *Camera) RotateY(a float64) { c.Yaw += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Side returns to the orthographic side view.
func (c *Camera) Side() {
	c.Yaw, c.Pitch, c.Zoom, c.Perspective = 0, 0, 1, false
}

// Frame centres the camera on the colliders' bounds.
func (c *Camera) Frame(cs []*collider.Collider) {
	lo, hi, ok := Bounds(cs)
	if !ok {
		return
	}
	c.Target = lo.Add(hi).Mul(0.5)
	half := hi.Sub(lo).Mul(0.5)
	c.Extent = math.Max(1, math.Max(half.X(), half.Y())*1.15)
	c.Distance = 4 * c.Extent
}

func (c *Camera) view(p mgl64.Vec3) mgl64.Vec3 {
	rot := mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DY(c.Yaw))
	return rot.Mul3x1(p.Sub(c.Target)).Mul(c.Zoom)
}

// Project maps a world point to canvas pixels. It returns the pixel
// coordinates, the depth toward the viewer and whether the point lands on
// the canvas.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	v := c.view(p)
	scale := 1.0
	if c.Perspective {
		if v.Z() >= c.Distance-0.1 {
			return 0, 0, 0, false
		}
		scale = c.Distance / (c.Distance - v.Z())
	}
	ppu := float64(min(sw, sh)) / (2 * c.Extent)
	sx := int(math.Round(v.X()*scale*ppu)) + sw/2
	sy := sh/2 - int(math.Round(v.Y()*scale*ppu))
	return sx, sy, v.Z(), sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// PixelsPerUnit is the projection scale at the target depth.
func (c *Camera) PixelsPerUnit(sw, sh int) float64 {
	return float64(min(sw, sh)) / (2 * c.Extent) * c.Zoom
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }

// AddCircle adds a polyline circle around center spanned by the unit axes u
// and v.
func (w *Wireframe) AddCircle(center, u, v mgl64.Vec3, r float64) {
	prev := center.Add(u.Mul(r))
	for i := 1; i <= circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		next := center.Add(u.Mul(r * math.Cos(a))).Add(v.Mul(r * math.Sin(a)))
		w.AddEdge(prev, next)
		prev = next
	}
}

// ColliderWireframe outlines every collider in world space: spheres as
// three great circles, planes as their rectangle plus a short normal.
func ColliderWireframe(cs []*collider.Collider) *Wireframe {
	w := NewWireframe()
	for _, c := range cs {
		s := c.Snapshot()
		f := s.Frame
		center := f.ToWorldPoint(mgl64.Vec3{})
		ax := f.ToWorldDirection(mgl64.Vec3{1, 0, 0})
		ay := f.ToWorldDirection(mgl64.Vec3{0, 1, 0})
		az := f.ToWorldDirection(mgl64.Vec3{0, 0, 1})
		switch s.Kind {
		case collider.Sphere:
			w.AddCircle(center, ax, ay, s.Radius)
			w.AddCircle(center, ax, az, s.Radius)
			w.AddCircle(center, ay, az, s.Radius)
		case collider.Plane:
			hx, hz := s.HalfHeight, s.HalfWidth
			corners := [4]mgl64.Vec3{
				f.ToWorldPoint(mgl64.Vec3{-hx, 0, -hz}),
				f.ToWorldPoint(mgl64.Vec3{hx, 0, -hz}),
				f.ToWorldPoint(mgl64.Vec3{hx, 0, hz}),
				f.ToWorldPoint(mgl64.Vec3{-hx, 0, hz}),
			}
			for i := range corners {
				w.AddEdge(corners[i], corners[(i+1)%4])
			}
			w.AddEdge(center, center.Add(ay.Mul(0.25*math.Min(hx, hz))))
		}
	}
	return w
}

// Bounds returns the world-space box enclosing every collider.
func Bounds(cs []*collider.Collider) (lo, hi mgl64.Vec3, ok bool) {
	w := ColliderWireframe(cs)
	if len(w.Edges) == 0 {
		return lo, hi, false
	}
	lo, hi = w.Edges[0].Start, w.Edges[0].Start
	for _, e := range w.Edges {
		for _, p := range [2]mgl64.Vec3{e.Start, e.End} {
			for i := 0; i < 3; i++ {
				lo[i] = math.Min(lo[i], p[i])
				hi[i] = math.Max(hi[i], p[i])
			}
		}
	}
	return lo, hi, true
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// RenderParticles draws each particle as a dot, or as a circle when its
// projected radius spans more than two pixels.
func RenderParticles(c *Canvas, ps []*particle.Particle, cam *Camera) {
	cw, ch := c.PixelSize()
	ppu := cam.PixelsPerUnit(cw, ch)
	for _, p := range ps {
		x, y, _, ok := cam.Project(p.Position, cw, ch)
		if !ok {
			continue
		}
		if r := int(math.Round(p.Radius() * ppu)); r > 2 {
			c.DrawCircle(x, y, r)
		} else {
			c.Dot(x, y)
		}
	}
}

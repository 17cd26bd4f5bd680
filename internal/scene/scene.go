// Package scene is a minimal in-memory host: a proxy table of transforms
// parented under a root, a set of spawnable templates and a collider registry.
package scene

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/transform"
)

type Proxy struct {
	ID        dynamo.ProxyID
	Template  string
	Transform *transform.Transform
}

// Scene implements dynamo.Host and sim.ColliderSource. It is not safe for
// concurrent use.
type Scene struct {
	Root      *transform.Transform
	templates map[string]mgl64.Vec3
	proxies   map[dynamo.ProxyID]*Proxy
	colliders []*collider.Collider
	next      dynamo.ProxyID
}

func New() *Scene {
	return &Scene{
		Root:      transform.Identity(),
		templates: make(map[string]mgl64.Vec3),
		proxies:   make(map[dynamo.ProxyID]*Proxy),
	}
}

// Register makes a template spawnable. scale is the template's own local
// scale, overwritten when the simulation sizes the proxy.
func (s *Scene) Register(name string, scale mgl64.Vec3) {
	s.templates[name] = scale
}

func (s *Scene) Spawn(template string, pos mgl64.Vec3, rot mgl64.Quat) (dynamo.ProxyID, error) {
	scale, ok := s.templates[template]
	if !ok {
		return dynamo.NoProxy, fmt.Errorf("%w: %q", dynamo.ErrTemplateNotFound, template)
	}

	t := transform.New(mgl64.Vec3{}, rot, scale)
	t.Parent = s.Root
	t.SetPosition(pos)

	s.next++
	s.proxies[s.next] = &Proxy{ID: s.next, Template: template, Transform: t}
	return s.next, nil
}

func (s *Scene) Destroy(id dynamo.ProxyID) {
	delete(s.proxies, id)
}

func (s *Scene) SetWorldScale(id dynamo.ProxyID, scale mgl64.Vec3) {
	if p, ok := s.proxies[id]; ok {
		p.Transform.SetWorldScale(scale)
	}
}

func (s *Scene) SetPosition(id dynamo.ProxyID, pos mgl64.Vec3) {
	if p, ok := s.proxies[id]; ok {
		p.Transform.SetPosition(pos)
	}
}

func (s *Scene) Lookup(id dynamo.ProxyID) (*Proxy, bool) {
	p, ok := s.proxies[id]
	return p, ok
}

// Proxies returns the live proxies ordered by ID.
func (s *Scene) Proxies() []*Proxy {
	out := make([]*Proxy, 0, len(s.proxies))
	for _, p := range s.proxies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Scene) Len() int { return len(s.proxies) }

// AddCollider registers a static collider. Collider transforms without a
// parent are attached to the scene root.
func (s *Scene) AddCollider(c *collider.Collider) {
	if c.Transform.Parent == nil && c.Transform != s.Root {
		c.Transform.Parent = s.Root
	}
	s.colliders = append(s.colliders, c)
}

func (s *Scene) Colliders() []*collider.Collider { return s.colliders }

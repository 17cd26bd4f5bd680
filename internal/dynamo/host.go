package dynamo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ProxyID is an opaque handle to a visual proxy. The zero value means the
// particle has no visual representation.
type ProxyID uint64

// NoProxy is the handle of a particle simulating without a visual.
const NoProxy ProxyID = 0

// Host is the rendering side of the simulation. The core only ever writes to
// it; it never reads a proxy transform back.
type Host interface {
	// Spawn instantiates template at the given world transform.
	Spawn(template string, pos mgl64.Vec3, rot mgl64.Quat) (ProxyID, error)
	// Destroy releases a proxy. Destroying NoProxy is a no-op.
	Destroy(id ProxyID)
	// SetWorldScale sizes a proxy so its effective world scale matches scale.
	SetWorldScale(id ProxyID, scale mgl64.Vec3)
	// SetPosition moves a proxy to a world position.
	SetPosition(id ProxyID, pos mgl64.Vec3)
}

// NopHost hands out sequential proxy IDs and tracks which are alive.
// Used for headless batch runs and tests.
type NopHost struct {
	next      ProxyID
	live      map[ProxyID]struct{}
	Templates map[string]bool
	Destroyed int
}

func NewNopHost(templates ...string) *NopHost {
	h := &NopHost{live: make(map[ProxyID]struct{})}
	if len(templates) > 0 {
		h.Templates = make(map[string]bool, len(templates))
		for _, t := range templates {
			h.Templates[t] = true
		}
	}
	return h
}

// Spawn fails with ErrTemplateNotFound only when a template allow-list was given.
func (h *NopHost) Spawn(template string, _ mgl64.Vec3, _ mgl64.Quat) (ProxyID, error) {
	if h.Templates != nil && !h.Templates[template] {
		return NoProxy, fmt.Errorf("%w: %q", ErrTemplateNotFound, template)
	}
	h.next++
	h.live[h.next] = struct{}{}
	return h.next, nil
}

func (h *NopHost) Destroy(id ProxyID) {
	if id == NoProxy {
		return
	}
	if _, ok := h.live[id]; ok {
		delete(h.live, id)
		h.Destroyed++
	}
}

func (h *NopHost) SetWorldScale(ProxyID, mgl64.Vec3) {}
func (h *NopHost) SetPosition(ProxyID, mgl64.Vec3)   {}

// Live returns the number of proxies spawned and not yet destroyed.
func (h *NopHost) Live() int { return len(h.live) }

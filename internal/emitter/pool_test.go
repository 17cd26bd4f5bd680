package emitter

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/particle"
)

var ball = particle.Template{Name: "ball", Mass: 1, Scale: 1}

func spawnInto(t *testing.T, p *Pool, h *dynamo.NopHost, x float64) (int, *particle.Particle) {
	t.Helper()
	id, err := h.Spawn("ball", mgl64.Vec3{}, mgl64.QuatIdent())
	if err != nil {
		t.Fatal(err)
	}
	return p.Insert(particle.New(ball, mgl64.Vec3{x, 0, 0}, mgl64.Vec3{}, id), h)
}

func TestNewPoolRejectsZeroCapacity(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := NewPool(n); !errors.Is(err, dynamo.ErrInvalidCapacity) {
			t.Errorf("NewPool(%d): expected ErrInvalidCapacity, got %v", n, err)
		}
	}
}

func TestPoolFillsThenRecycles(t *testing.T) {
	h := dynamo.NewNopHost()
	p, _ := NewPool(3)

	for i := 0; i < 3; i++ {
		slot, old := spawnInto(t, p, h, float64(i))
		if slot != i || old != nil {
			t.Fatalf("insert %d: slot=%d recycled=%v", i, slot, old)
		}
	}
	if p.Len() != 3 || h.Live() != 3 {
		t.Fatalf("expected 3 live, got pool=%d host=%d", p.Len(), h.Live())
	}

	slot, old := spawnInto(t, p, h, 3)
	if slot != 0 {
		t.Errorf("expected overwrite at slot 0, got %d", slot)
	}
	if old == nil || old.Position.X() != 0 {
		t.Fatalf("expected the oldest particle to be recycled, got %v", old)
	}
	if old.HasProxy() {
		t.Error("recycled particle still owns its proxy")
	}
	if h.Live() != 3 || h.Destroyed != 1 {
		t.Errorf("expected 3 live and 1 destroyed, got %d and %d", h.Live(), h.Destroyed)
	}
	if p.Len() != 3 {
		t.Errorf("pool grew past capacity: %d", p.Len())
	}
}

func TestPoolCursorWraps(t *testing.T) {
	h := dynamo.NewNopHost()
	p, _ := NewPool(2)

	var slots []int
	for i := 0; i < 6; i++ {
		slot, _ := spawnInto(t, p, h, float64(i))
		slots = append(slots, slot)
	}
	want := []int{0, 1, 0, 1, 0, 1}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slots = %v, want %v", slots, want)
		}
	}
	if h.Destroyed != 4 {
		t.Errorf("expected 4 recycled proxies, got %d", h.Destroyed)
	}
}

func TestPoolOrdered(t *testing.T) {
	h := dynamo.NewNopHost()
	p, _ := NewPool(3)
	for i := 0; i < 5; i++ {
		spawnInto(t, p, h, float64(i))
	}

	got := p.Ordered()
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d particles, got %d", len(want), len(got))
	}
	for i, pt := range got {
		if pt.Position.X() != want[i] {
			t.Errorf("ordered[%d] = %v, want x=%v", i, pt.Position, want[i])
		}
	}
}

func TestPoolEachAndAt(t *testing.T) {
	h := dynamo.NewNopHost()
	p, _ := NewPool(4)
	spawnInto(t, p, h, 1)
	spawnInto(t, p, h, 2)

	visited := 0
	p.Each(func(slot int, pt *particle.Particle) {
		if p.At(slot) != pt {
			t.Errorf("At(%d) disagrees with Each", slot)
		}
		visited++
	})
	if visited != 2 {
		t.Errorf("expected 2 visits, got %d", visited)
	}
	if p.At(2) != nil || p.At(-1) != nil {
		t.Error("expected nil for empty or out-of-range slots")
	}
}

func TestPoolResize(t *testing.T) {
	tests := []struct {
		name         string
		fill, resize int
		wantReleased int
		wantOldest   float64
	}{
		{"shrink drops oldest", 5, 2, 3, 3},
		{"grow keeps all", 3, 6, 0, 0},
		{"same size", 4, 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := dynamo.NewNopHost()
			p, _ := NewPool(tt.fill)
			for i := 0; i < tt.fill; i++ {
				spawnInto(t, p, h, float64(i))
			}

			released, err := p.Resize(tt.resize, h)
			if err != nil {
				t.Fatal(err)
			}
			if released != tt.wantReleased || h.Destroyed != tt.wantReleased {
				t.Errorf("released %d (host destroyed %d), want %d", released, h.Destroyed, tt.wantReleased)
			}
			if p.Cap() != tt.resize {
				t.Errorf("cap = %d, want %d", p.Cap(), tt.resize)
			}
			if got := p.Ordered()[0].Position.X(); got != tt.wantOldest {
				t.Errorf("oldest x = %v, want %v", got, tt.wantOldest)
			}
		})
	}
}

func TestPoolResizeThenRecycle(t *testing.T) {
	h := dynamo.NewNopHost()
	p, _ := NewPool(4)
	for i := 0; i < 6; i++ {
		spawnInto(t, p, h, float64(i))
	}
	if _, err := p.Resize(2, h); err != nil {
		t.Fatal(err)
	}

	_, old := spawnInto(t, p, h, 6)
	if old == nil || old.Position.X() != 4 {
		t.Errorf("expected particle 4 to be recycled next, got %v", old)
	}
	if _, err := p.Resize(0, h); !errors.Is(err, dynamo.ErrInvalidCapacity) {
		t.Errorf("expected ErrInvalidCapacity, got %v", err)
	}
}

func TestPoolClear(t *testing.T) {
	h := dynamo.NewNopHost()
	p, _ := NewPool(3)
	for i := 0; i < 4; i++ {
		spawnInto(t, p, h, float64(i))
	}

	p.Clear(h)
	if p.Len() != 0 || h.Live() != 0 {
		t.Errorf("expected empty pool and host, got %d and %d", p.Len(), h.Live())
	}
	p.Clear(h)
	if h.Destroyed != 4 {
		t.Errorf("proxies destroyed %d times, want 4", h.Destroyed)
	}
}

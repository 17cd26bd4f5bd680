package sim

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/collision"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/forces"
	"github.com/san-kum/spherebounce/internal/particle"
	"github.com/san-kum/spherebounce/internal/transform"
)

func testOptions() Options {
	return Options{
		Template:        particle.Template{Name: "ball", Mass: 1, Scale: 1},
		Emitter:         transform.New(mgl64.Vec3{0, 5, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}),
		Period:          0.1,
		InitialVelocity: mgl64.Vec3{1, 0, 0},
		Capacity:        8,
		ConstantForce:   mgl64.Vec3{0, -9.81, 0},
	}
}

func testFloor() Colliders {
	return Colliders{collider.NewPlane("floor",
		transform.New(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{100, 1, 100}),
		mgl64.Vec2{}, 0.8)}
}

func TestSimulatorRun(t *testing.T) {
	s, err := New(dynamo.NewNopHost(), testFloor(), testOptions())
	if err != nil {
		t.Fatal(err)
	}

	cfg := dynamo.Config{Dt: 0.1, Duration: 1.0, RecordEvery: 1}
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if len(result.Frames[0].Samples) != 0 {
		t.Errorf("expected an empty first frame, got %d samples", len(result.Frames[0].Samples))
	}
	if result.Spawned != 10 || result.Recycled != 2 {
		t.Errorf("expected 10 spawned and 2 recycled, got %d and %d", result.Spawned, result.Recycled)
	}

	last := result.Frames[len(result.Frames)-1]
	if math.Abs(last.Time-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", last.Time)
	}
	for _, smp := range last.Samples {
		if smp.Position.Y() < 0.5-1e-9 {
			t.Errorf("slot %d fell through the floor: %v", smp.Slot, smp.Position)
		}
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	s, _ := New(dynamo.NewNopHost(), nil, testOptions())

	result, err := s.Run(context.Background(), dynamo.Config{Dt: 0.1, Duration: 1.0, RecordEvery: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Frames) != 3 {
		t.Errorf("expected 3 frames, got %d", len(result.Frames))
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s, _ := New(dynamo.NewNopHost(), nil, testOptions())

	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"zero dt", dynamo.Config{Dt: 0, Duration: 1.0}},
		{"negative dt", dynamo.Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", dynamo.Config{Dt: 0.1, Duration: 0}},
		{"negative duration", dynamo.Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorRunCanceled(t *testing.T) {
	s, _ := New(dynamo.NewNopHost(), nil, testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, dynamo.DefaultConfig())
	if !errors.Is(err, dynamo.ErrContextCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected a cancellation error, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no ticks after cancel, got %d", result.StepsTaken)
	}
}

type nanForce struct{}

func (nanForce) Force(*particle.Particle) mgl64.Vec3 { return mgl64.Vec3{math.NaN(), 0, 0} }

func TestSimulatorValidateState(t *testing.T) {
	opts := testOptions()
	opts.EmitOnStart = true
	opts.Extra = []forces.Force{nanForce{}}
	s, _ := New(dynamo.NewNopHost(), nil, opts)

	result, err := s.Run(context.Background(), dynamo.Config{Dt: 0.1, Duration: 1, ValidateState: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", result.Errors[0])
	}
	var simErr *dynamo.SimulationError
	if !errors.As(result.Errors[0], &simErr) || simErr.Step != 1 {
		t.Errorf("expected a SimulationError at step 1, got %v", result.Errors[0])
	}
	if result.StepsTaken != 1 {
		t.Errorf("expected the run to stop after 1 step, got %d", result.StepsTaken)
	}
}

type testMetric struct {
	ticks    int
	contacts int
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(float64, []*particle.Particle) {
	m.ticks++
}
func (m *testMetric) Value() float64 { return float64(m.contacts) }
func (m *testMetric) Reset()         { m.ticks, m.contacts = 0, 0 }
func (m *testMetric) OnContact(*particle.Particle, *collider.Collider, collision.Contact) {
	m.contacts++
}

func TestSimulatorMetrics(t *testing.T) {
	opts := testOptions()
	opts.Emitter = transform.New(mgl64.Vec3{0, 0.6, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	s, _ := New(dynamo.NewNopHost(), testFloor(), opts)

	metric := &testMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), dynamo.Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.ticks != 10 {
		t.Errorf("expected 10 observations, got %d", metric.ticks)
	}
	if metric.contacts == 0 || metric.contacts != result.Contacts {
		t.Errorf("metric saw %d contacts, result has %d", metric.contacts, result.Contacts)
	}
}

type recordingObserver struct {
	times []float64
	sizes []int
}

func (o *recordingObserver) OnTick(t float64, ps []*particle.Particle) {
	o.times = append(o.times, t)
	o.sizes = append(o.sizes, len(ps))
}

func TestSimulatorObserver(t *testing.T) {
	opts := testOptions()
	opts.Capacity = 2
	opts.EmitOnStart = true
	s, _ := New(dynamo.NewNopHost(), nil, opts)

	obs := &recordingObserver{}
	s.AddObserver(obs)
	for i := 0; i < 4; i++ {
		if err := s.Advance(0.1); err != nil {
			t.Fatal(err)
		}
	}

	want := []int{1, 2, 2, 2}
	for i := range want {
		if obs.sizes[i] != want[i] {
			t.Errorf("tick %d: observed %d particles, want %d", i, obs.sizes[i], want[i])
		}
	}
	if math.Abs(obs.times[3]-0.4) > 1e-9 {
		t.Errorf("expected time 0.4, got %f", obs.times[3])
	}
}

func TestEnsemble(t *testing.T) {
	var mu sync.Mutex
	seeds := make(map[int64]bool)

	factory := func(seed int64) (*Simulator, error) {
		mu.Lock()
		seeds[seed] = true
		mu.Unlock()
		opts := testOptions()
		opts.InitialVelocity = mgl64.Vec3{float64(seed), 0, 0}
		return New(dynamo.NewNopHost(), testFloor(), opts)
	}

	results, err := NewEnsemble(factory, 4, 10).Run(context.Background(), dynamo.Config{Dt: 0.05, Duration: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 10 {
			t.Errorf("run %d took %d steps", i, r.StepsTaken)
		}
	}
	for s := int64(10); s < 14; s++ {
		if !seeds[s] {
			t.Errorf("seed %d never used", s)
		}
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	factory := func(int64) (*Simulator, error) {
		opts := testOptions()
		opts.Capacity = 0
		return New(dynamo.NewNopHost(), nil, opts)
	}
	if _, err := NewEnsemble(factory, 2, 0).Run(context.Background(), dynamo.DefaultConfig()); !errors.Is(err, dynamo.ErrInvalidCapacity) {
		t.Errorf("expected ErrInvalidCapacity, got %v", err)
	}
}

// Package experiment turns a config into a ready-to-run scene and simulator.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/config"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/integrators"
	"github.com/san-kum/spherebounce/internal/metrics"
	"github.com/san-kum/spherebounce/internal/particle"
	"github.com/san-kum/spherebounce/internal/scene"
	"github.com/san-kum/spherebounce/internal/sim"
	"github.com/san-kum/spherebounce/internal/transform"
)

type Experiment struct {
	cfg        *config.Config
	log        *slog.Logger
	randSource *rand.Rand
	scene      *scene.Scene
	simulator  *sim.Simulator
	metrics    []sim.Metric
}

func New(cfg *config.Config, log *slog.Logger) *Experiment {
	if log == nil {
		log = slog.Default()
	}
	return &Experiment{
		cfg:        cfg,
		log:        log,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// BuildScene registers the particle template and every configured collider.
func BuildScene(cfg *config.Config) (*scene.Scene, error) {
	sc := scene.New()
	sc.Register(cfg.Template(), mgl64.Vec3{1, 1, 1})

	for i, cc := range cfg.Colliders {
		kind, err := collider.ParseKind(cc.Shape)
		if err != nil {
			return nil, fmt.Errorf("collider %d (%s): %w", i, cc.Name, err)
		}
		t := transform.FromEuler(cc.Position.Mgl(), cc.Rotation.Mgl(), cc.ColliderScale().Mgl())

		var c *collider.Collider
		switch kind {
		case collider.Sphere:
			c = collider.NewSphere(cc.Name, t, cc.Restitution)
		case collider.Plane:
			c = collider.NewPlane(cc.Name, t, cc.HalfExtents.Mgl(), cc.Restitution)
		}
		sc.AddCollider(c)
	}
	return sc, nil
}

// DefaultMetrics are the metrics attached to every experiment.
func DefaultMetrics(cfg *config.Config) []sim.Metric {
	return append(metrics.Standard(), metrics.NewEscaped(cfg.EscapeHeight))
}

// Options converts the config into simulator options. jitter is added to
// the initial velocity.
func Options(cfg *config.Config, jitter mgl64.Vec3, log *slog.Logger) (sim.Options, error) {
	tmpl, err := particle.NewTemplate(cfg.Template(), cfg.Particle.Mass, cfg.Particle.Scale)
	if err != nil {
		return sim.Options{}, err
	}
	in, err := integrators.Get(cfg.IntegratorName())
	if err != nil {
		return sim.Options{}, err
	}

	return sim.Options{
		Template:        tmpl,
		Emitter:         transform.FromEuler(cfg.Emitter.Position.Mgl(), cfg.Emitter.Rotation.Mgl(), mgl64.Vec3{1, 1, 1}),
		Period:          cfg.Emitter.Period,
		InitialVelocity: cfg.Emitter.InitialVelocity.Mgl().Add(jitter),
		EmitOnStart:     cfg.Emitter.EmitOnStart,
		Capacity:        cfg.MaxSpheres,
		ConstantForce:   cfg.Forces.Constant.Mgl(),
		Drag:            cfg.Forces.Drag,
		Integrator:      in,
		Logger:          log,
	}, nil
}

// Jitter draws a uniform offset in [-amount, amount) per component.
func Jitter(r *rand.Rand, amount float64) mgl64.Vec3 {
	if amount == 0 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{
		(2*r.Float64() - 1) * amount,
		(2*r.Float64() - 1) * amount,
		(2*r.Float64() - 1) * amount,
	}
}

// Setup builds the scene and simulator. The scene is the simulator's host
// unless host is non-nil.
func (e *Experiment) Setup(host dynamo.Host) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	sc, err := BuildScene(e.cfg)
	if err != nil {
		return err
	}
	if host == nil {
		host = sc
	}

	opts, err := Options(e.cfg, mgl64.Vec3{}, e.log)
	if err != nil {
		return err
	}
	s, err := sim.New(host, sc, opts)
	if err != nil {
		return err
	}

	e.metrics = DefaultMetrics(e.cfg)
	for _, m := range e.metrics {
		s.AddMetric(m)
	}
	e.scene = sc
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.RunConfig())
}

// Execute sets up a fresh simulator, runs it to completion and releases
// its proxies.
func (e *Experiment) Execute(ctx context.Context) (*dynamo.Result, error) {
	if err := e.Setup(nil); err != nil {
		return nil, err
	}
	defer e.Close()
	return e.Run(ctx)
}

// Close releases every live proxy back to the host. It is a no-op before
// Setup.
func (e *Experiment) Close() {
	if e.simulator != nil {
		e.simulator.Close()
	}
}

// RunEnsemble runs n independent copies of the experiment in parallel. Each
// member gets its own scene and an initial velocity jittered by
// cfg.Emitter.Jitter, seeded from cfg.Seed+i.
func (e *Experiment) RunEnsemble(ctx context.Context, n int) ([]*dynamo.Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	factory := func(seed int64) (*sim.Simulator, error) {
		sc, err := BuildScene(e.cfg)
		if err != nil {
			return nil, err
		}
		r := rand.New(rand.NewSource(seed))
		opts, err := Options(e.cfg, Jitter(r, e.cfg.Emitter.Jitter), e.log)
		if err != nil {
			return nil, err
		}
		s, err := sim.New(sc, sc, opts)
		if err != nil {
			return nil, err
		}
		for _, m := range DefaultMetrics(e.cfg) {
			s.AddMetric(m)
		}
		return s, nil
	}
	return sim.NewEnsemble(factory, n, e.cfg.Seed).Run(ctx, e.cfg.RunConfig())
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Scene() *scene.Scene { return e.scene }

func (e *Experiment) Metrics() []sim.Metric { return e.metrics }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Rand is the experiment's seeded random source.
func (e *Experiment) Rand() *rand.Rand { return e.randSource }

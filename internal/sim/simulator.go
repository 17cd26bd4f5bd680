package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/collision"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/emitter"
	"github.com/san-kum/spherebounce/internal/forces"
	"github.com/san-kum/spherebounce/internal/integrators"
	"github.com/san-kum/spherebounce/internal/particle"
	"github.com/san-kum/spherebounce/internal/transform"
)

type Options struct {
	Template        particle.Template
	Emitter         *transform.Transform
	Period          float64
	InitialVelocity mgl64.Vec3
	EmitOnStart     bool
	Capacity        int

	ConstantForce mgl64.Vec3
	Drag          float64
	// Extra forces are summed after the constant force and drag.
	Extra []forces.Force

	// Integrator defaults to explicit Euler.
	Integrator integrators.Integrator
	Logger     *slog.Logger
}

type Simulator struct {
	host       dynamo.Host
	colliders  ColliderSource
	template   particle.Template
	emitter    *emitter.Emitter
	pool       *emitter.Pool
	constant   *forces.Constant
	drag       *forces.ViscousDrag
	forces     forces.Set
	integrator integrators.Integrator

	metrics          []Metric
	observers        []Observer
	contactObservers []ContactObserver

	log    *slog.Logger
	warned map[string]bool

	time  float64
	step  int
	stats Stats
}

func New(host dynamo.Host, colliders ColliderSource, opts Options) (*Simulator, error) {
	if err := opts.Template.Validate(); err != nil {
		return nil, err
	}
	if opts.Emitter == nil {
		opts.Emitter = transform.Identity()
	}
	em, err := emitter.New(opts.Emitter, opts.Period, opts.InitialVelocity, opts.EmitOnStart)
	if err != nil {
		return nil, err
	}
	pool, err := emitter.NewPool(opts.Capacity)
	if err != nil {
		return nil, err
	}
	if colliders == nil {
		colliders = Colliders(nil)
	}
	if opts.Integrator == nil {
		opts.Integrator = integrators.NewEuler()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Simulator{
		host:       host,
		colliders:  colliders,
		template:   opts.Template,
		emitter:    em,
		pool:       pool,
		constant:   forces.NewConstant(opts.ConstantForce),
		drag:       forces.NewViscousDrag(opts.Drag),
		integrator: opts.Integrator,
		log:        opts.Logger,
		warned:     make(map[string]bool),
	}
	s.forces = append(forces.Set{s.constant, s.drag}, opts.Extra...)

	for _, c := range colliders.Colliders() {
		if c.Amplifies() {
			s.warnOnce("restitution:"+c.Name, "collider restitution above 1 adds energy on every bounce",
				"collider", c.Name, "restitution", c.Restitution)
		}
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) AddContactObserver(o ContactObserver) {
	s.contactObservers = append(s.contactObservers, o)
}

func (s *Simulator) warnOnce(key, msg string, args ...any) {
	if s.warned[key] {
		return
	}
	s.warned[key] = true
	s.log.Warn(msg, args...)
}

// Advance runs one tick: emission, then integration of every live particle,
// then collision of every particle against every collider.
func (s *Simulator) Advance(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w, got %g", dynamo.ErrInvalidTimestep, dt)
	}

	if s.emitter.Tick(dt) {
		s.emit()
	}

	s.pool.Each(func(_ int, p *particle.Particle) {
		s.integrator.Step(p, s.forces, dt)
		p.Sync(s.host)
	})

	colliders := s.colliders.Colliders()
	s.pool.Each(func(_ int, p *particle.Particle) {
		for _, c := range colliders {
			contact := collision.Resolve(p, c)
			if !contact.Responded() {
				continue
			}
			s.stats.Contacts++
			p.Sync(s.host)
			s.notifyContact(p, c, contact)
		}
	})

	s.time += dt
	s.step++

	if len(s.observers) > 0 || len(s.metrics) > 0 {
		live := s.pool.Ordered()
		for _, m := range s.metrics {
			m.Observe(s.time, live)
		}
		for _, o := range s.observers {
			o.OnTick(s.time, live)
		}
	}
	return nil
}

func (s *Simulator) emit() {
	p, err := s.emitter.Spawn(s.template, s.host)
	if err != nil {
		s.warnOnce("spawn:"+s.template.Name, "proxy spawn failed, particles will simulate without a visual",
			"template", s.template.Name, "err", err)
	}

	_, old := s.pool.Insert(p, s.host)
	s.stats.Spawned++
	if old != nil {
		s.stats.Recycled++
	}
}

func (s *Simulator) notifyContact(p *particle.Particle, c *collider.Collider, contact collision.Contact) {
	for _, o := range s.contactObservers {
		o.OnContact(p, c, contact)
	}
	for _, m := range s.metrics {
		if o, ok := m.(ContactObserver); ok {
			o.OnContact(p, c, contact)
		}
	}
}

// Run advances cfg.Steps() ticks and records frames of every live particle.
// Cancellation is checked between ticks.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}
	result := &dynamo.Result{
		Frames:  make([]dynamo.Frame, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := s.stats
	result.Frames = append(result.Frames, s.Frame())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result, start)
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		if err := s.Advance(cfg.Dt); err != nil {
			return result, err
		}
		result.StepsTaken++

		if cfg.ValidateState {
			if err := s.checkState(); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}

		if (i+1)%every == 0 {
			result.Frames = append(result.Frames, s.Frame())
		}
	}

	s.collect(result, start)
	return result, nil
}

func (s *Simulator) collect(result *dynamo.Result, start Stats) {
	result.Spawned = s.stats.Spawned - start.Spawned
	result.Recycled = s.stats.Recycled - start.Recycled
	result.Contacts = s.stats.Contacts - start.Contacts
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) checkState() error {
	var bad error
	s.pool.Each(func(slot int, p *particle.Particle) {
		if bad == nil && !p.IsValid() {
			bad = &dynamo.SimulationError{
				Step:    s.step,
				Time:    s.time,
				Wrapped: fmt.Errorf("slot %d: %w", slot, dynamo.ErrInvalidState),
			}
		}
	})
	return bad
}

// Frame captures the current position and velocity of every live particle.
func (s *Simulator) Frame() dynamo.Frame {
	f := dynamo.Frame{Time: s.time, Samples: make([]dynamo.Sample, 0, s.pool.Len())}
	s.pool.Each(func(slot int, p *particle.Particle) {
		f.Samples = append(f.Samples, dynamo.Sample{Slot: slot, Position: p.Position, Velocity: p.Velocity})
	})
	return f
}

// Particles returns the live particles, oldest first.
func (s *Simulator) Particles() []*particle.Particle { return s.pool.Ordered() }

func (s *Simulator) Len() int                    { return s.pool.Len() }
func (s *Simulator) Capacity() int               { return s.pool.Cap() }
func (s *Simulator) Time() float64               { return s.time }
func (s *Simulator) Step() int                   { return s.step }
func (s *Simulator) Stats() Stats                { return s.stats }
func (s *Simulator) Template() particle.Template { return s.template }
func (s *Simulator) Emitter() *emitter.Emitter   { return s.emitter }

// Forces exposes the tunable forces for the live view.
func (s *Simulator) Forces() (*forces.Constant, *forces.ViscousDrag) { return s.constant, s.drag }

// Close releases every remaining proxy.
func (s *Simulator) Close() {
	s.pool.Clear(s.host)
}

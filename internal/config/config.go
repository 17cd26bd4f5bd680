package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/integrators"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 0.02
	DefaultDuration     = 10.0
	DefaultPeriod       = 0.1
	DefaultMaxSpheres   = 50
	DefaultMass         = 1.0
	DefaultScale        = 0.3
	DefaultTemplate     = "ball"
	DefaultGravity      = -9.81
	DefaultEscapeHeight = -10.0
)

type Config struct {
	Name         string           `yaml:"name"`
	Integrator   string           `yaml:"integrator"`
	Dt           float64          `yaml:"dt"`
	Duration     float64          `yaml:"duration"`
	Seed         int64            `yaml:"seed"`
	RecordEvery  int              `yaml:"record_every"`
	MaxSpheres   int              `yaml:"max_spheres"`
	EscapeHeight float64          `yaml:"escape_height"`
	Emitter      EmitterConfig    `yaml:"emitter"`
	Particle     ParticleConfig   `yaml:"particle"`
	Forces       ForcesConfig     `yaml:"forces"`
	Colliders    []ColliderConfig `yaml:"colliders"`
}

type EmitterConfig struct {
	Position        Vec3    `yaml:"position"`
	Rotation        Vec3    `yaml:"rotation"`
	Period          float64 `yaml:"period"`
	InitialVelocity Vec3    `yaml:"initial_velocity"`
	EmitOnStart     bool    `yaml:"emit_on_start"`
	// Jitter is the half-width of the uniform noise added to each
	// component of the initial velocity by ensemble members.
	Jitter float64 `yaml:"jitter"`
}

type ParticleConfig struct {
	Template string  `yaml:"template"`
	Mass     float64 `yaml:"mass"`
	Scale    float64 `yaml:"scale"`
}

type ForcesConfig struct {
	Constant Vec3    `yaml:"constant"`
	Drag     float64 `yaml:"drag"`
}

type ColliderConfig struct {
	Name        string  `yaml:"name"`
	Shape       string  `yaml:"shape"`
	Position    Vec3    `yaml:"position"`
	Rotation    Vec3    `yaml:"rotation"`
	Scale       Vec3    `yaml:"scale"`
	HalfExtents Vec2    `yaml:"half_extents,omitempty"`
	Restitution float64 `yaml:"restitution"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:         "default",
		Integrator:   "euler",
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
		RecordEvery:  1,
		MaxSpheres:   DefaultMaxSpheres,
		EscapeHeight: DefaultEscapeHeight,
		Emitter: EmitterConfig{
			Position:        Vec3{0, 3, 0},
			Period:          DefaultPeriod,
			InitialVelocity: Vec3{0, 4, 0},
		},
		Particle: ParticleConfig{
			Template: DefaultTemplate,
			Mass:     DefaultMass,
			Scale:    DefaultScale,
		},
		Forces: ForcesConfig{Constant: Vec3{0, DefaultGravity, 0}},
		Colliders: []ColliderConfig{
			{Name: "floor", Shape: "plane", Scale: Vec3{20, 1, 20}, Restitution: 0.8},
		},
	}
}

// Load reads a YAML config, or an INI scene file when the extension is
// .ini or .gcfg. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		return LoadINI(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Colliders = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that would otherwise fail mid-run.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w, got %g", dynamo.ErrInvalidTimestep, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.Emitter.Period <= 0 {
		return fmt.Errorf("%w, got %g", dynamo.ErrInvalidPeriod, c.Emitter.Period)
	}
	if c.MaxSpheres < 1 {
		return fmt.Errorf("%w, got %d", dynamo.ErrInvalidCapacity, c.MaxSpheres)
	}
	if c.Particle.Mass <= 0 {
		return fmt.Errorf("%w, got %g", dynamo.ErrNonPositiveMass, c.Particle.Mass)
	}
	if c.Particle.Scale <= 0 {
		return fmt.Errorf("%w, got %g", dynamo.ErrNonPositiveScale, c.Particle.Scale)
	}
	if _, err := integrators.Get(c.integrator()); err != nil {
		return err
	}
	for i, cc := range c.Colliders {
		if _, err := collider.ParseKind(cc.Shape); err != nil {
			return fmt.Errorf("collider %d (%s): %w", i, cc.Name, err)
		}
	}
	return nil
}

func (c *Config) integrator() string {
	if c.Integrator == "" {
		return "euler"
	}
	return c.Integrator
}

// IntegratorName is the configured integrator, defaulting to euler.
func (c *Config) IntegratorName() string { return c.integrator() }

func (c *Config) Template() string {
	if c.Particle.Template == "" {
		return DefaultTemplate
	}
	return c.Particle.Template
}

// RunConfig is the batch run part of the config.
func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Seed:          c.Seed,
		RecordEvery:   c.RecordEvery,
		ValidateState: true,
	}
}

// ColliderScale returns the collider's scale, treating an all-zero scale
// as unit.
func (cc ColliderConfig) ColliderScale() Vec3 {
	if cc.Scale == (Vec3{}) {
		return Vec3{1, 1, 1}
	}
	return cc.Scale
}

package config

import (
	"fmt"
	"sort"

	"gopkg.in/gcfg.v1"
)

// iniFile mirrors Config for gcfg. Colliders are named subsections:
//
//	[Collider "floor"]
//	Shape = plane
//	Scale = 20, 1, 20
type iniFile struct {
	Scene struct {
		Name         string
		Integrator   string
		Dt           float64
		Duration     float64
		Seed         int64
		RecordEvery  int
		MaxSpheres   int
		EscapeHeight float64
	}
	Emitter struct {
		Position        Vec3
		Rotation        Vec3
		Period          float64
		InitialVelocity Vec3
		EmitOnStart     bool
		Jitter          float64
	}
	Particle struct {
		Template string
		Mass     float64
		Scale    float64
	}
	Forces struct {
		Constant Vec3
		Drag     float64
	}
	Collider map[string]*struct {
		Shape       string
		Position    Vec3
		Rotation    Vec3
		Scale       Vec3
		HalfExtents Vec2
		Restitution float64
	}
}

// LoadINI reads a scene file in gcfg's INI dialect. Colliders are returned
// sorted by name.
func LoadINI(path string) (*Config, error) {
	def := DefaultConfig()

	var f iniFile
	f.Scene.Name = def.Name
	f.Scene.Integrator = def.Integrator
	f.Scene.Dt = def.Dt
	f.Scene.Duration = def.Duration
	f.Scene.RecordEvery = def.RecordEvery
	f.Scene.MaxSpheres = def.MaxSpheres
	f.Scene.EscapeHeight = def.EscapeHeight
	f.Emitter.Position = def.Emitter.Position
	f.Emitter.Period = def.Emitter.Period
	f.Emitter.InitialVelocity = def.Emitter.InitialVelocity
	f.Particle.Template = def.Particle.Template
	f.Particle.Mass = def.Particle.Mass
	f.Particle.Scale = def.Particle.Scale
	f.Forces.Constant = def.Forces.Constant

	if err := gcfg.ReadFileInto(&f, path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := &Config{
		Name:         f.Scene.Name,
		Integrator:   f.Scene.Integrator,
		Dt:           f.Scene.Dt,
		Duration:     f.Scene.Duration,
		Seed:         f.Scene.Seed,
		RecordEvery:  f.Scene.RecordEvery,
		MaxSpheres:   f.Scene.MaxSpheres,
		EscapeHeight: f.Scene.EscapeHeight,
		Emitter: EmitterConfig{
			Position:        f.Emitter.Position,
			Rotation:        f.Emitter.Rotation,
			Period:          f.Emitter.Period,
			InitialVelocity: f.Emitter.InitialVelocity,
			EmitOnStart:     f.Emitter.EmitOnStart,
			Jitter:          f.Emitter.Jitter,
		},
		Particle: ParticleConfig(f.Particle),
		Forces:   ForcesConfig(f.Forces),
	}

	names := make([]string, 0, len(f.Collider))
	for name := range f.Collider {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := f.Collider[name]
		cfg.Colliders = append(cfg.Colliders, ColliderConfig{
			Name:        name,
			Shape:       c.Shape,
			Position:    c.Position,
			Rotation:    c.Rotation,
			Scale:       c.Scale,
			HalfExtents: c.HalfExtents,
			Restitution: c.Restitution,
		})
	}
	return cfg, nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/spherebounce/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "euler" {
		t.Errorf("expected integrator euler, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, dynamo.ErrInvalidTimestep},
		{"zero period", func(c *Config) { c.Emitter.Period = 0 }, dynamo.ErrInvalidPeriod},
		{"zero capacity", func(c *Config) { c.MaxSpheres = 0 }, dynamo.ErrInvalidCapacity},
		{"zero mass", func(c *Config) { c.Particle.Mass = 0 }, dynamo.ErrNonPositiveMass},
		{"negative scale", func(c *Config) { c.Particle.Scale = -1 }, dynamo.ErrNonPositiveScale},
		{"unknown shape", func(c *Config) { c.Colliders[0].Shape = "cube" }, dynamo.ErrUnknownShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Integrator = "leapfrog"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bowl")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Colliders[0].Shape != "sphere" {
		t.Errorf("expected dome collider first, got %s", cfg.Colliders[0].Shape)
	}

	cfg.Colliders[0].Restitution = 5
	cfg.Emitter.Position[1] = -100
	if Presets["bowl"].Colliders[0].Restitution == 5 || Presets["bowl"].Emitter.Position[1] == -100 {
		t.Error("mutating a preset copy changed the preset table")
	}
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Forces.Drag = 0.3

	c := cfg.Clone()
	if c == nil || c.Forces.Drag != 0.3 || len(c.Colliders) != len(cfg.Colliders) {
		t.Fatalf("clone differs: %+v", c)
	}
	c.Colliders[0].Restitution = 9
	if cfg.Colliders[0].Restitution == 9 {
		t.Error("clone shares its collider slice")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != 4 {
		t.Fatalf("expected 4 presets, got %v", names)
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")

	src := GetPreset("pinball")
	if err := Save(path, src); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.Name != "pinball" || len(got.Colliders) != len(src.Colliders) {
		t.Errorf("loaded %s with %d colliders", got.Name, len(got.Colliders))
	}
	if got.Colliders[3].Rotation != (Vec3{0, 0, -20}) {
		t.Errorf("rotation lost: %v", got.Colliders[3].Rotation)
	}
}

func TestLoadYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "name: partial\nemitter:\n  initial_velocity: \"1, 2, 3\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != DefaultDt || cfg.Particle.Mass != DefaultMass {
		t.Errorf("defaults lost: dt=%g mass=%g", cfg.Dt, cfg.Particle.Mass)
	}
	if cfg.Emitter.InitialVelocity != (Vec3{1, 2, 3}) {
		t.Errorf("expected text vector to parse, got %v", cfg.Emitter.InitialVelocity)
	}
	if len(cfg.Colliders) != 0 {
		t.Errorf("expected no colliders, got %d", len(cfg.Colliders))
	}
}

const sceneINI = `[Scene]
Name = ramp
Dt = 0.01
MaxSpheres = 12

[Emitter]
Position = 0, 4, 0
InitialVelocity = 1, 0, 0
EmitOnStart = true

[Particle]
Mass = 2

[Collider "ramp"]
Shape = plane
Rotation = 0, 0, 15
Scale = 6, 1, 3
HalfExtents = 0.5, 0.25
Restitution = 0.6

[Collider "bumper"]
Shape = sphere
Position = 2, 1, 0
Restitution = 1
`

func TestLoadINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramp.ini")
	if err := os.WriteFile(path, []byte(sceneINI), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config invalid: %v", err)
	}

	if cfg.Name != "ramp" || cfg.Dt != 0.01 || cfg.MaxSpheres != 12 {
		t.Errorf("scene section not applied: %+v", cfg)
	}
	if cfg.Duration != DefaultDuration || cfg.Particle.Scale != DefaultScale {
		t.Error("missing INI fields should keep their defaults")
	}
	if !cfg.Emitter.EmitOnStart || cfg.Emitter.Position != (Vec3{0, 4, 0}) {
		t.Errorf("emitter section not applied: %+v", cfg.Emitter)
	}
	if cfg.Particle.Mass != 2 {
		t.Errorf("expected mass 2, got %g", cfg.Particle.Mass)
	}

	if len(cfg.Colliders) != 2 {
		t.Fatalf("expected 2 colliders, got %d", len(cfg.Colliders))
	}
	if cfg.Colliders[0].Name != "bumper" || cfg.Colliders[1].Name != "ramp" {
		t.Errorf("colliders not sorted by name: %s, %s", cfg.Colliders[0].Name, cfg.Colliders[1].Name)
	}
	if cfg.Colliders[1].HalfExtents != (Vec2{0.5, 0.25}) {
		t.Errorf("half extents: %v", cfg.Colliders[1].HalfExtents)
	}
	if cfg.Colliders[0].ColliderScale() != (Vec3{1, 1, 1}) {
		t.Errorf("expected unit scale for unscaled collider, got %v", cfg.Colliders[0].ColliderScale())
	}
}

func TestVecUnmarshalText(t *testing.T) {
	var v Vec3
	if err := v.UnmarshalText([]byte("1,2 , 3")); err != nil || v != (Vec3{1, 2, 3}) {
		t.Errorf("got %v, %v", v, err)
	}
	if err := v.UnmarshalText([]byte("1, 2")); err == nil {
		t.Error("expected error for two components")
	}
	if err := v.UnmarshalText([]byte("1, x, 3")); err == nil {
		t.Error("expected error for non-numeric component")
	}
}

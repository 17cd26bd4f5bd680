package config

import (
	"sort"

	"github.com/jinzhu/copier"
)

var Presets = map[string]*Config{
	"fountain": {
		Name: "fountain", Integrator: "euler", Dt: 0.02, Duration: 10.0,
		RecordEvery: 1, MaxSpheres: 60, EscapeHeight: -5,
		Emitter: EmitterConfig{
			Position: Vec3{0, 0.5, 0}, Period: 0.08,
			InitialVelocity: Vec3{0.6, 7, 0}, Jitter: 0.4,
		},
		Particle: ParticleConfig{Template: "ball", Mass: 1, Scale: 0.25},
		Forces:   ForcesConfig{Constant: Vec3{0, -9.81, 0}, Drag: 0.05},
		Colliders: []ColliderConfig{
			{Name: "basin", Shape: "plane", Scale: Vec3{12, 1, 12}, Restitution: 0.6},
		},
	},
	"bowl": {
		Name: "bowl", Integrator: "euler", Dt: 0.01, Duration: 15.0,
		RecordEvery: 2, MaxSpheres: 40, EscapeHeight: -10,
		Emitter: EmitterConfig{
			Position: Vec3{0, 6, 0}, Period: 0.25,
			InitialVelocity: Vec3{1.5, 0, 0.5}, Jitter: 0.2,
		},
		Particle: ParticleConfig{Template: "ball", Mass: 0.5, Scale: 0.4},
		Forces:   ForcesConfig{Constant: Vec3{0, -9.81, 0}, Drag: 0.02},
		Colliders: []ColliderConfig{
			{Name: "dome", Shape: "sphere", Position: Vec3{0, -2, 0}, Scale: Vec3{5, 5, 5}, Restitution: 0.9},
			{Name: "floor", Shape: "plane", Position: Vec3{0, -3, 0}, Scale: Vec3{30, 1, 30}, Restitution: 0.3},
		},
	},
	"staircase": {
		Name: "staircase", Integrator: "euler", Dt: 0.01, Duration: 12.0,
		RecordEvery: 2, MaxSpheres: 30, EscapeHeight: -8,
		Emitter: EmitterConfig{
			Position: Vec3{-4, 6, 0}, Period: 0.5,
			InitialVelocity: Vec3{2, 0, 0}, Jitter: 0.1,
		},
		Particle: ParticleConfig{Template: "ball", Mass: 1, Scale: 0.3},
		Forces:   ForcesConfig{Constant: Vec3{0, -9.81, 0}},
		Colliders: []ColliderConfig{
			{Name: "step1", Shape: "plane", Position: Vec3{-3, 4, 0}, Scale: Vec3{2, 1, 4}, Restitution: 0.5},
			{Name: "step2", Shape: "plane", Position: Vec3{-1, 2.5, 0}, Scale: Vec3{2, 1, 4}, Restitution: 0.5},
			{Name: "step3", Shape: "plane", Position: Vec3{1, 1, 0}, Scale: Vec3{2, 1, 4}, Restitution: 0.5},
			{Name: "ground", Shape: "plane", Position: Vec3{3, -0.5, 0}, Scale: Vec3{4, 1, 4}, Restitution: 0.4},
		},
	},
	"pinball": {
		Name: "pinball", Integrator: "euler", Dt: 0.005, Duration: 20.0,
		RecordEvery: 4, MaxSpheres: 20, EscapeHeight: -2,
		Emitter: EmitterConfig{
			Position: Vec3{0, 9, 0}, Period: 0.75,
			InitialVelocity: Vec3{0.5, 0, 0}, Jitter: 0.3,
		},
		Particle: ParticleConfig{Template: "ball", Mass: 1, Scale: 0.35},
		Forces:   ForcesConfig{Constant: Vec3{0, -6, 0}, Drag: 0.01},
		Colliders: []ColliderConfig{
			{Name: "bumper-left", Shape: "sphere", Position: Vec3{-1.5, 6, 0}, Scale: Vec3{1, 1, 1}, Restitution: 1.2},
			{Name: "bumper-right", Shape: "sphere", Position: Vec3{1.5, 6, 0}, Scale: Vec3{1, 1, 1}, Restitution: 1.2},
			{Name: "bumper-mid", Shape: "sphere", Position: Vec3{0, 4, 0}, Scale: Vec3{1.2, 1.2, 1.2}, Restitution: 1.1},
			{Name: "flipper-left", Shape: "plane", Position: Vec3{-2, 1.5, 0}, Rotation: Vec3{0, 0, -20}, Scale: Vec3{3, 1, 2}, Restitution: 0.7},
			{Name: "flipper-right", Shape: "plane", Position: Vec3{2, 1.5, 0}, Rotation: Vec3{0, 0, 20}, Scale: Vec3{3, 1, 2}, Restitution: 0.7},
			{Name: "wall-left", Shape: "plane", Position: Vec3{-4, 5, 0}, Rotation: Vec3{0, 0, -90}, Scale: Vec3{10, 1, 2}, Restitution: 0.8},
			{Name: "wall-right", Shape: "plane", Position: Vec3{4, 5, 0}, Rotation: Vec3{0, 0, 90}, Scale: Vec3{10, 1, 2}, Restitution: 0.8},
		},
	},
}

// GetPreset returns a deep copy of the named preset, or nil.
func GetPreset(name string) *Config {
	src, ok := Presets[name]
	if !ok {
		return nil
	}
	return src.Clone()
}

// Clone returns a deep copy of c, or nil if c cannot be copied.
func (c *Config) Clone() *Config {
	out := &Config{}
	if err := copier.CopyWithOption(out, c, copier.Option{DeepCopy: true}); err != nil {
		return nil
	}
	return out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

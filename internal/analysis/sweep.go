package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/spherebounce/internal/config"
	"github.com/san-kum/spherebounce/internal/experiment"
)

// SweepPoint is the metric value of one run at one parameter value.
type SweepPoint struct {
	Param float64
	Value float64
}

// Sweepable lists the parameters Sweep understands.
var Sweepable = []string{"restitution", "drag", "gravity", "period", "mass"}

// ApplyParam sets one of the Sweepable parameters on cfg. Gravity is given
// as a magnitude and restitution applies to every collider.
func ApplyParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "restitution":
		for i := range cfg.Colliders {
			cfg.Colliders[i].Restitution = v
		}
	case "drag":
		cfg.Forces.Drag = v
	case "gravity":
		cfg.Forces.Constant[1] = -v
	case "period":
		cfg.Emitter.Period = v
	case "mass":
		cfg.Particle.Mass = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// Sweep runs the scene once per parameter value, evenly spaced over
// [paramMin, paramMax], and records the named metric of each run. base is
// not modified.
func Sweep(ctx context.Context, base *config.Config, paramName string, paramMin, paramMax float64, paramSteps int, metric string) ([]SweepPoint, error) {
	if paramSteps <= 1 {
		paramSteps = 2
	}
	paramStep := (paramMax - paramMin) / float64(paramSteps-1)

	results := make([]SweepPoint, 0, paramSteps)
	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*paramStep

		cfg := base.Clone()
		if err := ApplyParam(cfg, paramName, param); err != nil {
			return nil, err
		}

		result, err := experiment.New(cfg, nil).Execute(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", paramName, param, err)
		}

		v, ok := result.Metrics[metric]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", metric)
		}
		results = append(results, SweepPoint{Param: param, Value: v})
	}
	return results, nil
}

package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/heatsim/internal/diffusion"
	"github.com/san-kum/heatsim/internal/metrics"
)

type Registry struct {
	steppers map[string]func() diffusion.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		steppers: make(map[string]func() diffusion.Stepper),
	}

	r.steppers["loop"] = func() diffusion.Stepper { return diffusion.NewLoopStepper() }
	r.steppers["shift"] = func() diffusion.Stepper { return diffusion.NewShiftStepper() }
	r.steppers["parallel"] = func() diffusion.Stepper { return diffusion.NewParallelStepper(0) }

	return r
}

// Register adds or replaces a named stepper factory.
func (r *Registry) Register(name string, fn func() diffusion.Stepper) {
	r.steppers[name] = fn
}

func (r *Registry) GetStepper(name string) (diffusion.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSteppers() []string {
	names := make([]string, 0, len(r.steppers))
	for name := range r.steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []diffusion.Metric {
	return []diffusion.Metric{
		metrics.NewMass(),
		metrics.NewMassDrift(),
		metrics.NewPeak(),
		metrics.NewSpread(),
		metrics.NewStability(1e-12),
	}
}

// NewFromConfig builds an experiment whose stepper is looked up by
// cfg.Stepper.
func (r *Registry) NewFromConfig(cfg Config, withMetrics bool) (*Experiment, error) {
	stepper, err := r.GetStepper(cfg.Stepper)
	if err != nil {
		return nil, err
	}
	var ms []diffusion.Metric
	if withMetrics {
		ms = r.DefaultMetrics()
	}
	exp := New(cfg)
	if err := exp.Setup(stepper, ms); err != nil {
		return nil, err
	}
	return exp, nil
}

package sweep

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatsim/internal/experiment"
)

// Params that a sweep can vary.
const (
	ParamDt   = "dt"
	ParamD    = "d"
	ParamSize = "size"
)

// Sweep runs one experiment per value of Param, evenly spaced over
// [Min, Max]. For ParamSize the value is used as both rows and cols.
type Sweep struct {
	Param      string  `yaml:"param"`
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
	Steps      int     `yaml:"steps"`
	Iterations int     `yaml:"iterations"`
	Stepper    string  `yaml:"stepper"`
}

// Point is the outcome of one sweep run.
type Point struct {
	Value          float64
	ElapsedSeconds float64
	MassDrift      float64
	Peak           float64
	Stable         bool
}

func Load(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Sweep
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

func (s *Sweep) Validate() error {
	switch s.Param {
	case ParamDt, ParamD, ParamSize:
	default:
		return fmt.Errorf("unknown sweep param: %s", s.Param)
	}
	if s.Steps < 1 {
		return fmt.Errorf("sweep needs at least one step, got %d", s.Steps)
	}
	if s.Iterations < 0 {
		return fmt.Errorf("negative iterations: %d", s.Iterations)
	}
	if s.Max < s.Min {
		return fmt.Errorf("sweep range [%g, %g] is empty", s.Min, s.Max)
	}
	return nil
}

// Values returns the swept parameter values. A single step uses Min.
func (s *Sweep) Values() []float64 {
	if s.Steps == 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)
	out := make([]float64, s.Steps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	out[len(out)-1] = s.Max
	return out
}

func (s *Sweep) apply(cfg experiment.Config, v float64) experiment.Config {
	switch s.Param {
	case ParamDt:
		cfg.Dt = v
	case ParamD:
		cfg.D = v
	case ParamSize:
		cfg.Rows, cfg.Cols = int(v), int(v)
	}
	if s.Stepper != "" {
		cfg.Stepper = s.Stepper
	}
	return cfg
}

// Run executes the sweep sequentially so that timings do not compete for
// cores.
func Run(ctx context.Context, s *Sweep, base experiment.Config, registry *experiment.Registry) ([]Point, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	values := s.Values()
	points := make([]Point, 0, len(values))
	for i, v := range values {
		cfg := s.apply(base, v)
		exp, err := registry.NewFromConfig(cfg, true)
		if err != nil {
			return points, fmt.Errorf("sweep %s=%g: %w", s.Param, v, err)
		}
		result, err := exp.Run(ctx, s.Iterations)
		if err != nil {
			return points, fmt.Errorf("sweep %s=%g: %w", s.Param, v, err)
		}

		p := Point{
			Value:          v,
			ElapsedSeconds: result.Elapsed.Seconds(),
			MassDrift:      result.Metrics["mass_drift"],
			Peak:           result.Metrics["peak"],
			Stable:         result.Metrics["stability"] == 1,
		}
		points = append(points, p)

		log.WithFields(log.Fields{
			"param":  s.Param,
			"value":  v,
			"index":  i + 1,
			"of":     len(values),
			"stable": p.Stable,
		}).Debug("sweep point")
	}
	return points, nil
}

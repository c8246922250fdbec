package experiment

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/heatsim/internal/diffusion"
)

const (
	DefaultRows      = 640
	DefaultCols      = 640
	DefaultBlockLow  = 0.4
	DefaultBlockHigh = 0.5
	DefaultSeedValue = 0.005
	DefaultDt        = 0.1
	DefaultD         = 1.0
	DefaultStepper   = "loop"
)

// Config fixes the grid, the seeded block and the coefficients of one
// experiment. The block covers [floor(Rows*BlockLow), floor(Rows*BlockHigh))
// on the row axis and the same fractions of Cols on the column axis.
type Config struct {
	Rows      int
	Cols      int
	BlockLow  float64
	BlockHigh float64
	SeedValue float64
	Dt        float64
	D         float64
	Stepper   string
}

func DefaultConfig() Config {
	return Config{
		Rows:      DefaultRows,
		Cols:      DefaultCols,
		BlockLow:  DefaultBlockLow,
		BlockHigh: DefaultBlockHigh,
		SeedValue: DefaultSeedValue,
		Dt:        DefaultDt,
		D:         DefaultD,
		Stepper:   DefaultStepper,
	}
}

func (c Config) Validate() error {
	if c.Rows <= 0 {
		return &diffusion.InvalidArgumentError{Name: "rows", Value: c.Rows, Reason: "must be positive"}
	}
	if c.Cols <= 0 {
		return &diffusion.InvalidArgumentError{Name: "cols", Value: c.Cols, Reason: "must be positive"}
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"block_low", c.BlockLow},
		{"block_high", c.BlockHigh},
		{"seed_value", c.SeedValue},
		{"dt", c.Dt},
		{"D", c.D},
	} {
		if err := diffusion.CheckFinite(v.name, v.val); err != nil {
			return err
		}
	}
	if c.BlockLow < 0 || c.BlockHigh > 1 || c.BlockLow > c.BlockHigh {
		return &diffusion.InvalidArgumentError{
			Name:   "block",
			Value:  fmt.Sprintf("[%g, %g)", c.BlockLow, c.BlockHigh),
			Reason: "need 0 <= low <= high <= 1",
		}
	}
	return nil
}

// BlockBounds returns the half-open index range of the seeded block along
// an axis of length n.
func (c Config) BlockBounds(n int) (low, high int) {
	return int(float64(n) * c.BlockLow), int(float64(n) * c.BlockHigh)
}

// InitialField builds the seeded field: zero everywhere except the block,
// which holds SeedValue.
func InitialField(cfg Config) (*diffusion.Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := diffusion.NewField(cfg.Rows, cfg.Cols)
	rLow, rHigh := cfg.BlockBounds(cfg.Rows)
	cLow, cHigh := cfg.BlockBounds(cfg.Cols)
	for i := rLow; i < rHigh; i++ {
		row := f.Row(i)
		for j := cLow; j < cHigh; j++ {
			row[j] = cfg.SeedValue
		}
	}
	return f, nil
}

// Result is the outcome of one run. Elapsed is the time spent inside the
// stepper; seeding, metrics and observers are not counted.
type Result struct {
	Initial    *diffusion.Field
	Final      *diffusion.Field
	Elapsed    time.Duration
	Iterations int
	Stepper    string
	Metrics    map[string]float64
}

type Experiment struct {
	cfg       Config
	stepper   diffusion.Stepper
	metrics   []diffusion.Metric
	observers []diffusion.Observer
	logger    log.FieldLogger
}

func New(cfg Config) *Experiment {
	return &Experiment{
		cfg:    cfg,
		logger: log.StandardLogger(),
	}
}

func (e *Experiment) Setup(stepper diffusion.Stepper, metrics []diffusion.Metric) error {
	if stepper == nil {
		return fmt.Errorf("nil stepper")
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	e.stepper = stepper
	e.metrics = metrics
	return nil
}

func (e *Experiment) AddObserver(o diffusion.Observer) { e.observers = append(e.observers, o) }

func (e *Experiment) SetLogger(l log.FieldLogger) { e.logger = l }

func (e *Experiment) Config() Config { return e.cfg }

// Run seeds the field and applies the stepper iterations times, each step
// reading only the previous step's output. A canceled context stops the
// run between steps and returns the partial result with ctx.Err().
func (e *Experiment) Run(ctx context.Context, iterations int) (*Result, error) {
	if e.stepper == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if iterations < 0 {
		return nil, &diffusion.InvalidArgumentError{Name: "iterations", Value: iterations, Reason: "must not be negative"}
	}

	initial, err := InitialField(e.cfg)
	if err != nil {
		return nil, err
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	cur := initial.Clone()
	next := diffusion.NewField(e.cfg.Rows, e.cfg.Cols)
	e.observe(cur, 0)

	logger := e.logger.WithFields(log.Fields{
		"stepper":    e.stepper.Name(),
		"rows":       e.cfg.Rows,
		"cols":       e.cfg.Cols,
		"iterations": iterations,
	})
	logger.Debug("experiment started")

	result := &Result{
		Initial: initial,
		Stepper: e.stepper.Name(),
		Metrics: make(map[string]float64),
	}

	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			e.finish(result, cur)
			logger.WithField("completed", result.Iterations).Warn("experiment canceled")
			return result, ctx.Err()
		default:
		}

		start := time.Now()
		e.stepper.Step(next, cur, e.cfg.Dt, e.cfg.D)
		result.Elapsed += time.Since(start)

		cur, next = next, cur
		result.Iterations++
		e.observe(cur, i+1)
	}
	e.finish(result, cur)

	logger.WithField("elapsed", result.Elapsed).Debug("experiment finished")
	return result, nil
}

func (e *Experiment) observe(f *diffusion.Field, step int) {
	for _, m := range e.metrics {
		m.Observe(f, step)
	}
	for _, o := range e.observers {
		o.OnStep(f, step)
	}
}

func (e *Experiment) finish(result *Result, cur *diffusion.Field) {
	result.Final = cur
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunExperiment runs the default 640x640 experiment with the loop stepper
// and returns the elapsed wall-clock time in seconds.
func RunExperiment(iterations int) (float64, error) {
	exp := New(DefaultConfig())
	if err := exp.Setup(diffusion.NewLoopStepper(), nil); err != nil {
		return 0, err
	}
	result, err := exp.Run(context.Background(), iterations)
	if err != nil {
		return 0, err
	}
	return result.Elapsed.Seconds(), nil
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/diffusion"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/export"
	"github.com/san-kum/heatsim/internal/metrics"
	"github.com/san-kum/heatsim/internal/viz"
)

// fieldFlags are the experiment settings shared by run and live.
type fieldFlags struct {
	configFile string
	preset     string
	base       *config.Config
	cfg        config.Config
}

// register binds the flags with defaults taken from def.
func (f *fieldFlags) register(cmd *cobra.Command, def *config.Config) {
	f.base = def
	f.cfg = *def
	fl := cmd.Flags()
	fl.IntVar(&f.cfg.Iterations, "iterations", def.Iterations, "number of diffusion steps")
	fl.IntVar(&f.cfg.Rows, "rows", def.Rows, "grid rows")
	fl.IntVar(&f.cfg.Cols, "cols", def.Cols, "grid columns")
	fl.Float64Var(&f.cfg.Dt, "dt", def.Dt, "timestep")
	fl.Float64Var(&f.cfg.D, "d", def.D, "diffusion coefficient")
	fl.Float64Var(&f.cfg.BlockLow, "block-low", def.BlockLow, "seeded block start (fraction of each axis)")
	fl.Float64Var(&f.cfg.BlockHigh, "block-high", def.BlockHigh, "seeded block end (fraction of each axis)")
	fl.Float64Var(&f.cfg.SeedValue, "seed-value", def.SeedValue, "value of the seeded block")
	fl.StringVar(&f.cfg.Stepper, "stepper", def.Stepper, "stepper: loop, shift or parallel")
	fl.StringVar(&f.configFile, "config", "", "config file path (yaml or ini)")
	fl.StringVar(&f.preset, "preset", "", "use preset configuration")
}

// resolve layers the preset, then the config file, then flags the user
// set explicitly.
func (f *fieldFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	base := *f.base
	cfg := &base
	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}
	if f.configFile != "" {
		loaded, err := config.LoadOver(f.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	fl := cmd.Flags()
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"iterations", func() { cfg.Iterations = f.cfg.Iterations }},
		{"rows", func() { cfg.Rows = f.cfg.Rows }},
		{"cols", func() { cfg.Cols = f.cfg.Cols }},
		{"dt", func() { cfg.Dt = f.cfg.Dt }},
		{"d", func() { cfg.D = f.cfg.D }},
		{"block-low", func() { cfg.BlockLow = f.cfg.BlockLow }},
		{"block-high", func() { cfg.BlockHigh = f.cfg.BlockHigh }},
		{"seed-value", func() { cfg.SeedValue = f.cfg.SeedValue }},
		{"stepper", func() { cfg.Stepper = f.cfg.Stepper }},
	}
	for _, o := range overrides {
		if fl.Changed(o.flag) {
			o.apply()
		}
	}
	return cfg, nil
}

type runOptions struct {
	fields  fieldFlags
	csvPath string
	svgPath string
	outDir  string
	json    bool
	plot    bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run one diffusion experiment and report its wall-clock time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, &opts)
		},
	}
	opts.fields.register(cmd, config.DefaultConfig())
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "write the final field as CSV")
	cmd.Flags().StringVar(&opts.svgPath, "svg", "", "write the final field as an SVG heatmap")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "write summary.json, field.csv and field.svg into a directory")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print a JSON summary instead of text")
	cmd.Flags().BoolVar(&opts.plot, "plot", false, "plot the center row profile and the mass history")
	return cmd
}

func runExperiment(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := opts.fields.resolve(cmd)
	if err != nil {
		return err
	}
	expCfg := cfg.Experiment()

	registry := experiment.NewRegistry()
	exp, err := registry.NewFromConfig(expCfg, true)
	if err != nil {
		return err
	}
	exp.SetLogger(log.WithField("command", "run"))
	var mass *metrics.Mass
	if opts.plot {
		mass = metrics.NewMass()
		exp.AddObserver(diffusion.ObserverFunc(mass.Observe))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log.WithFields(log.Fields{
		"stepper":    expCfg.Stepper,
		"rows":       expCfg.Rows,
		"cols":       expCfg.Cols,
		"iterations": cfg.Iterations,
	}).Info("running experiment")

	result, err := exp.Run(ctx, cfg.Iterations)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		if err := export.WriteJSON(out, export.NewSummary(expCfg, result)); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "execution time: %.2f sec.\n\n", result.Elapsed.Seconds())
		printMetrics(cmd, result)
	}

	if opts.plot {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.PlotProfile(result.Final, expCfg.Rows/2, 80, 10))
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.PlotSeries(mass.History(), "total mass", 80, 6))
	}

	if opts.csvPath != "" {
		if err := export.WriteCSVFile(opts.csvPath, result.Final); err != nil {
			return err
		}
		log.WithField("path", opts.csvPath).Info("wrote field csv")
	}
	if opts.svgPath != "" {
		svg := export.FieldToSVG(result.Final, 128, 4, viz.CurrentTheme)
		if err := os.WriteFile(opts.svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		log.WithField("path", opts.svgPath).Info("wrote field svg")
	}
	if opts.outDir != "" {
		if err := export.WriteRun(opts.outDir, expCfg, result); err != nil {
			return err
		}
		log.WithField("dir", opts.outDir).Info("wrote run outputs")
	}
	return nil
}

func printMetrics(cmd *cobra.Command, result *experiment.Result) {
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "stepper\t%s\n", result.Stepper)
	fmt.Fprintf(w, "iterations\t%d\n", result.Iterations)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, result.Metrics[name])
	}
	w.Flush()
}

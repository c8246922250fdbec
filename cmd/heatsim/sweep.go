package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/sweep"
)

type sweepOptions struct {
	file       string
	sweep      sweep.Sweep
	rows, cols int
}

func newSweepCmd() *cobra.Command {
	var opts sweepOptions
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the experiment over a range of dt, D or grid size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, &opts)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&opts.file, "file", "", "sweep definition (yaml)")
	fl.StringVar(&opts.sweep.Param, "param", sweep.ParamDt, "swept parameter: dt, d or size")
	fl.Float64Var(&opts.sweep.Min, "min", 0.05, "first value")
	fl.Float64Var(&opts.sweep.Max, "max", 0.4, "last value")
	fl.IntVar(&opts.sweep.Steps, "steps", 8, "number of values")
	fl.IntVar(&opts.sweep.Iterations, "iterations", 100, "diffusion steps per run")
	fl.StringVar(&opts.sweep.Stepper, "stepper", experiment.DefaultStepper, "stepper")
	fl.IntVar(&opts.rows, "rows", 128, "grid rows")
	fl.IntVar(&opts.cols, "cols", 128, "grid columns")
	return cmd
}

func runSweep(cmd *cobra.Command, opts *sweepOptions) error {
	s := &opts.sweep
	if opts.file != "" {
		loaded, err := sweep.Load(opts.file)
		if err != nil {
			return err
		}
		s = loaded
	}

	base := experiment.DefaultConfig()
	base.Rows, base.Cols = opts.rows, opts.cols

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	points, err := sweep.Run(ctx, s, base, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSEC\tMASS_DRIFT\tPEAK\tSTABLE\n", s.Param)
	for _, p := range points {
		fmt.Fprintf(w, "%g\t%.3f\t%.2e\t%.4g\t%t\n", p.Value, p.ElapsedSeconds, p.MassDrift, p.Peak, p.Stable)
	}
	return w.Flush()
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/experiment"
)

type compareOptions struct {
	iterations int
	rows, cols int
}

func newCompareCmd() *cobra.Command {
	var opts compareOptions
	cmd := &cobra.Command{
		Use:   "compare [stepper...]",
		Short: "check steppers against the loop reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareSteppers(cmd, &opts, args)
		},
	}
	cmd.Flags().IntVar(&opts.iterations, "iterations", 10, "number of diffusion steps")
	cmd.Flags().IntVar(&opts.rows, "rows", 128, "grid rows")
	cmd.Flags().IntVar(&opts.cols, "cols", 128, "grid columns")
	return cmd
}

func compareSteppers(cmd *cobra.Command, opts *compareOptions, steppers []string) error {
	registry := experiment.NewRegistry()
	if len(steppers) == 0 {
		steppers = registry.ListSteppers()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg := experiment.DefaultConfig()
	cfg.Rows, cfg.Cols = opts.rows, opts.cols

	run := func(name string) (*experiment.Result, error) {
		c := cfg
		c.Stepper = name
		exp, err := registry.NewFromConfig(c, true)
		if err != nil {
			return nil, err
		}
		exp.SetLogger(log.WithField("command", "compare"))
		return exp.Run(ctx, opts.iterations)
	}

	ref, err := run(experiment.DefaultStepper)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing steppers on %dx%d over %d iterations (reference: %s)\n\n",
		cfg.Rows, cfg.Cols, opts.iterations, experiment.DefaultStepper)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tMAX_ABS_DIFF\tMASS_DRIFT\tTIME")

	for _, name := range steppers {
		result, err := run(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", name, err)
			continue
		}
		diff, err := result.Final.MaxAbsDiff(ref.Final)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%v\n", name, diff, result.Metrics["mass_drift"], result.Elapsed)
	}
	return w.Flush()
}

package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/experiment"
)

type benchOptions struct {
	iterations []int
	steppers   []string
	rows, cols int
}

func newBenchCmd() *cobra.Command {
	var opts benchOptions
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "time each stepper over several iteration counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchSteppers(cmd, &opts)
		},
	}
	cmd.Flags().IntSliceVar(&opts.iterations, "iterations", []int{10, 50, 100}, "iteration counts")
	cmd.Flags().StringSliceVar(&opts.steppers, "steppers", experiment.NewRegistry().ListSteppers(), "steppers to time")
	cmd.Flags().IntVar(&opts.rows, "rows", experiment.DefaultRows, "grid rows")
	cmd.Flags().IntVar(&opts.cols, "cols", experiment.DefaultCols, "grid columns")
	return cmd
}

func benchSteppers(cmd *cobra.Command, opts *benchOptions) error {
	registry := experiment.NewRegistry()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %dx%d grid\n\n", opts.rows, opts.cols)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tITERATIONS\tTIME\tSEC\tCELLS/SEC")

	for _, name := range opts.steppers {
		for _, n := range opts.iterations {
			cfg := experiment.DefaultConfig()
			cfg.Rows, cfg.Cols = opts.rows, opts.cols
			cfg.Stepper = name

			exp, err := registry.NewFromConfig(cfg, false)
			if err != nil {
				return err
			}
			exp.SetLogger(log.WithField("command", "bench"))
			result, err := exp.Run(ctx, n)
			if err != nil {
				return err
			}

			secs := result.Elapsed.Seconds()
			rate := math.Inf(1)
			if secs > 0 {
				rate = float64(opts.rows*opts.cols*n) / secs
			}
			fmt.Fprintf(w, "%s\t%d\t%v\t%.2f\t%.3g\n", name, n, result.Elapsed, secs, rate)
			log.WithFields(log.Fields{"stepper": name, "iterations": n, "elapsed": result.Elapsed}).Debug("bench row")
		}
	}
	return w.Flush()
}

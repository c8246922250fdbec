package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	verbose   bool
	logFormat string
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:           "heatsim",
		Short:         "2-D heat diffusion benchmark",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(
		newRunCmd(),
		newBenchCmd(),
		newCompareCmd(),
		newLiveCmd(),
		newSweepCmd(),
		newPresetsCmd(),
		newSteppersCmd(),
	)
	return rootCmd
}

func setupLogging(opts globalOptions) error {
	switch opts.logFormat {
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format: %s", opts.logFormat)
	}
	if opts.verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	return nil
}

package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/viz"
)

type liveOptions struct {
	fields       fieldFlags
	stepsPerTick int
	theme        string
}

func newLiveCmd() *cobra.Command {
	var opts liveOptions
	cmd := &cobra.Command{
		Use:   "live",
		Short: "step the field with a live terminal heatmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, &opts)
		},
	}
	def := config.DefaultConfig()
	def.Rows, def.Cols = 128, 128
	opts.fields.register(cmd, def)
	cmd.Flags().IntVar(&opts.stepsPerTick, "steps-per-tick", 4, "diffusion steps per frame")
	cmd.Flags().StringVar(&opts.theme, "theme", viz.CurrentTheme.Name, "heat palette")
	return cmd
}

func runLive(cmd *cobra.Command, opts *liveOptions) error {
	cfg, err := opts.fields.resolve(cmd)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	stepper, err := registry.GetStepper(cfg.Stepper)
	if err != nil {
		return err
	}

	viz.SetTheme(opts.theme)
	m, err := viz.NewModel(cfg.Experiment(), stepper, opts.stepsPerTick)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heatsim/internal/diffusion"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/metrics"
)

const (
	mapWidth        = 64
	mapHeight       = 24
	historyCapacity = 600
	maxStepsPerTick = 256
)

type TickMsg time.Time

// Model steps a diffusion field on every tick and renders it as a heatmap
// next to its mass and peak history.
type Model struct {
	cfg          experiment.Config
	stepper      diffusion.Stepper
	cur, next    *diffusion.Field
	initial      *diffusion.Field
	step         int
	stepsPerTick int
	running      bool
	theme        Theme
	mass         *metrics.Mass
	drift        *metrics.MassDrift
	peaks        []float64
	tickEvery    time.Duration
}

// NewModel seeds the field described by cfg. The stepper is applied
// stepsPerTick times per frame.
func NewModel(cfg experiment.Config, stepper diffusion.Stepper, stepsPerTick int) (Model, error) {
	initial, err := experiment.InitialField(cfg)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		cfg:          cfg,
		stepper:      stepper,
		initial:      initial,
		stepsPerTick: max(1, min(stepsPerTick, maxStepsPerTick)),
		running:      true,
		theme:        CurrentTheme,
		mass:         metrics.NewMassWindow(historyCapacity),
		drift:        metrics.NewMassDrift(),
		tickEvery:    time.Second / 30,
	}
	m.reset()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.tickEvery, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "t":
			m.theme = GetTheme(NextTheme(m.theme.Name))
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		}
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		return m, m.tick()
	}
	return m, nil
}

// advance applies n steps, double buffering between cur and next.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		m.stepper.Step(m.next, m.cur, m.cfg.Dt, m.cfg.D)
		m.cur, m.next = m.next, m.cur
		m.step++
		m.observe()
	}
}

func (m *Model) observe() {
	m.mass.Observe(m.cur, m.step)
	m.drift.Observe(m.cur, m.step)
	m.peaks = append(m.peaks, m.cur.Max())
	if len(m.peaks) > historyCapacity {
		m.peaks = m.peaks[1:]
	}
}

func (m *Model) reset() {
	m.cur = m.initial.Clone()
	m.next = diffusion.NewField(m.cfg.Rows, m.cfg.Cols)
	m.step = 0
	m.mass.Reset()
	m.drift.Reset()
	m.peaks = m.peaks[:0]
	m.observe()
}

// Step returns the number of steps applied since the last reset.
func (m Model) Step() int { return m.step }

func (m Model) Running() bool { return m.running }

func (m Model) Field() *diffusion.Field { return m.cur }

func (m Model) View() string {
	heat := HeatmapTheme(m.cur, mapWidth, mapHeight, m.theme)
	legend := Legend(m.cur.Min(), m.cur.Max(), mapWidth, m.theme)
	left := lipgloss.NewStyle().Padding(1, 2).Render(heat + "\n\n" + legend)

	header, label, value := m.theme.panelStyles()
	row := func(name, v string) string { return label.Render(name) + value.Render(v) + "\n" }

	var s strings.Builder
	s.WriteString(header.Render(strings.ToUpper(m.stepper.Name())+" STEPPER") + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	s.WriteString(row("Grid", fmt.Sprintf("%dx%d", m.cfg.Rows, m.cfg.Cols)))
	s.WriteString(row("Step", fmt.Sprintf("%d", m.step)))
	s.WriteString(row("Steps/tick", fmt.Sprintf("%d", m.stepsPerTick)))
	s.WriteString(row("Time", fmt.Sprintf("%.2f", float64(m.step)*m.cfg.Dt)))
	s.WriteString(row("Mass", fmt.Sprintf("%.6g", m.mass.Value())))
	s.WriteString(row("Drift", fmt.Sprintf("%.2e", m.drift.Value())))
	s.WriteString(row("Peak", fmt.Sprintf("%.6g", m.cur.Max())))
	s.WriteString(row("Theme", m.theme.Name))

	if len(m.peaks) > 1 {
		s.WriteString(graphStyle.Render(PlotSeries(m.peaks, "Peak", 20, 4)) + "\n")
	}
	s.WriteString(label.Render("Peak trend") + Sparkline(m.peaks, 24) + "\n")

	s.WriteString(KeyHint.Foreground(m.theme.Muted).Render("\nSP:Pause N:Step R:Reset Q:Quit\nT:Theme  +/-:Speed"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, statsStyle.Render(s.String()))
}

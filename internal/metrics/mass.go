package metrics

import (
	"math"

	"github.com/san-kum/heatsim/internal/diffusion"
)

// Mass records the total of all cells at each observed step.
type Mass struct {
	name     string
	history  []float64
	capacity int
}

func NewMass() *Mass {
	return &Mass{name: "mass"}
}

// NewMassWindow keeps only the most recent capacity observations.
func NewMassWindow(capacity int) *Mass {
	return &Mass{name: "mass", capacity: max(capacity, 1)}
}

func (m *Mass) Name() string { return m.name }

func (m *Mass) Observe(f *diffusion.Field, step int) {
	if m.capacity > 0 && len(m.history) == m.capacity {
		m.history = append(m.history[:0], m.history[1:]...)
	}
	m.history = append(m.history, f.Sum())
}

// Value returns the most recently observed mass.
func (m *Mass) Value() float64 {
	if len(m.history) == 0 {
		return 0
	}
	return m.history[len(m.history)-1]
}

// History returns the mass at every retained step, oldest first.
func (m *Mass) History() []float64 {
	return m.history
}

func (m *Mass) Reset() {
	m.history = m.history[:0]
}

// MassDrift tracks the largest relative deviation of the total mass from
// the first observation.
type MassDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (d *MassDrift) Name() string { return d.name }

func (d *MassDrift) Observe(f *diffusion.Field, step int) {
	mass := f.Sum()
	if d.samples == 0 {
		d.initial = mass
	}
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(mass-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *MassDrift) Value() float64 { return d.maxDrift }

func (d *MassDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

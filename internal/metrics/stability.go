package metrics

import (
	"github.com/san-kum/heatsim/internal/diffusion"
)

// Stability is the fraction of observed steps whose field is finite and
// has no cell below -threshold. The explicit scheme oscillates into
// negative values once D*dt exceeds 1/4.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *diffusion.Field, step int) {
	s.samples++
	if !f.IsFinite() || f.Min() < -s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

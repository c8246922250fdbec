package metrics

import (
	"math"

	"github.com/san-kum/heatsim/internal/diffusion"
)

type Peak struct {
	name string
	peak float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(f *diffusion.Field, step int) {
	p.peak = f.Max()
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak = 0 }

// Spread is the mass-weighted RMS distance of the field from the grid
// center, in cells. It grows as the seeded block diffuses outward.
//
// Distances are planar and ignore the toroidal wrap: once the front
// crosses an edge, mass that arrives on the opposite edge counts as far
// from the center, so the value is only meaningful for fronts that have
// not yet reached the boundary.
type Spread struct {
	name   string
	spread float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(f *diffusion.Field, step int) {
	rows, cols := f.Dims()
	ci, cj := float64(rows-1)/2, float64(cols-1)/2

	var mass, moment float64
	for i := 0; i < rows; i++ {
		di := float64(i) - ci
		for j, v := range f.Row(i) {
			dj := float64(j) - cj
			mass += v
			moment += v * (di*di + dj*dj)
		}
	}

	if mass == 0 {
		s.spread = 0
		return
	}
	s.spread = math.Sqrt(math.Abs(moment / mass))
}

func (s *Spread) Value() float64 { return s.spread }

func (s *Spread) Reset() { s.spread = 0 }

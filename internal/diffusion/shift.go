package diffusion

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ShiftStepper computes the Laplacian with whole-array operations: four
// circular shifts of the field summed, minus four times the field.
type ShiftStepper struct {
	lap, tmp *mat.Dense
}

func NewShiftStepper() *ShiftStepper {
	return &ShiftStepper{}
}

func (s *ShiftStepper) Name() string { return "shift" }

func (s *ShiftStepper) ensureScratch(r, c int) {
	if s.lap == nil {
		s.lap = mat.NewDense(r, c, nil)
		s.tmp = mat.NewDense(r, c, nil)
		return
	}
	if lr, lc := s.lap.Dims(); lr != r || lc != c {
		s.lap = mat.NewDense(r, c, nil)
		s.tmp = mat.NewDense(r, c, nil)
	}
}

func (s *ShiftStepper) Step(dst, src *Field, dt, d float64) {
	s.ensureScratch(src.rows, src.cols)
	in, out := src.Dense(), dst.Dense()

	Laplacian(s.lap, s.tmp, in)
	s.lap.Scale(dt*d, s.lap)
	out.Add(in, s.lap)
}

// Laplacian writes the toroidal five-point Laplacian of src into dst, using
// tmp as scratch. All three matrices must have the same shape and dst and
// tmp must not share storage with src.
func Laplacian(dst, tmp, src *mat.Dense) {
	Roll(dst, src, +1, 0)
	Roll(tmp, src, -1, 0)
	dst.Add(dst, tmp)
	Roll(tmp, src, +1, 1)
	dst.Add(dst, tmp)
	Roll(tmp, src, -1, 1)
	dst.Add(dst, tmp)
	tmp.Scale(4, src)
	dst.Sub(dst, tmp)
}

// Roll circularly shifts src by shift positions along axis (0 for rows,
// 1 for columns) and stores the result in dst, so that along that axis
// dst[k] = src[(k-shift) mod n].
func Roll(dst, src *mat.Dense, shift, axis int) {
	r, c := src.Dims()
	if dr, dc := dst.Dims(); dr != r || dc != c {
		panic(shapeErrorf("roll %dx%d into %dx%d", r, c, dr, dc))
	}
	switch axis {
	case 0:
		for i := 0; i < r; i++ {
			copy(dst.RawRowView(i), src.RawRowView(wrap(i-shift, r)))
		}
	case 1:
		k := wrap(shift, c)
		for i := 0; i < r; i++ {
			d, s := dst.RawRowView(i), src.RawRowView(i)
			copy(d[k:], s[:c-k])
			copy(d[:k], s[c-k:])
		}
	default:
		panic(fmt.Sprintf("diffusion: invalid roll axis %d", axis))
	}
}

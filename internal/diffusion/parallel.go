package diffusion

import "github.com/exascience/pargo/parallel"

// ParallelStepper splits the rows of each step into batches evaluated
// concurrently. Batches of 0 lets pargo pick a count from GOMAXPROCS.
type ParallelStepper struct {
	Batches int
}

func NewParallelStepper(batches int) *ParallelStepper {
	if batches < 0 {
		batches = 0
	}
	return &ParallelStepper{Batches: batches}
}

func (p *ParallelStepper) Name() string { return "parallel" }

func (p *ParallelStepper) Step(dst, src *Field, dt, d float64) {
	parallel.Range(0, src.rows, p.Batches, func(low, high int) {
		stepRows(dst, src, dt, d, low, high)
	})
}

// stepRows updates rows [low, high) of dst. The arithmetic is ordered as in
// LoopStepper so both produce identical results.
func stepRows(dst, src *Field, dt, d float64, low, high int) {
	rows, cols := src.rows, src.cols
	for i := low; i < high; i++ {
		up := src.Row(wrap(i-1, rows))
		dn := src.Row(wrap(i+1, rows))
		row := src.Row(i)
		out := dst.Row(i)
		for j := 0; j < cols; j++ {
			c := row[j]
			left, right := row[wrap(j-1, cols)], row[wrap(j+1, cols)]
			gridXX := dn[j] + up[j] - 2.0*c
			gridYY := right + left - 2.0*c
			out[j] = c + d*(gridXX+gridYY)*dt
		}
	}
}

package diffusion

// LoopStepper evaluates the five-point stencil cell by cell, resolving
// neighbors with modulo indexing.
type LoopStepper struct{}

func NewLoopStepper() *LoopStepper {
	return &LoopStepper{}
}

func (l *LoopStepper) Name() string { return "loop" }

func (l *LoopStepper) Step(dst, src *Field, dt, d float64) {
	xmax, ymax := src.rows, src.cols
	for i := 0; i < xmax; i++ {
		for j := 0; j < ymax; j++ {
			c := src.At(i, j)
			gridXX := src.At(wrap(i+1, xmax), j) + src.At(wrap(i-1, xmax), j) - 2.0*c
			gridYY := src.At(i, wrap(j+1, ymax)) + src.At(i, wrap(j-1, ymax)) - 2.0*c
			dst.Set(i, j, c+d*(gridXX+gridYY)*dt)
		}
	}
}

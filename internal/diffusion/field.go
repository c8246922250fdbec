package diffusion

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Field is a rows x cols grid of float64 values stored row-major in a
// single slice.
type Field struct {
	rows, cols int
	data       []float64
}

// NewField returns a zero-valued field. It panics if either dimension is
// not positive; use FromRows for untrusted input.
func NewField(rows, cols int) *Field {
	if rows <= 0 || cols <= 0 {
		panic(shapeErrorf("dimensions must be positive, got %dx%d", rows, cols))
	}
	return &Field{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromRows copies a nested slice into a new field. Empty and ragged input
// is rejected with a *ShapeError.
func FromRows(rows [][]float64) (*Field, error) {
	if len(rows) == 0 {
		return nil, shapeErrorf("field has no rows")
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, shapeErrorf("field has no columns")
	}
	f := NewField(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, shapeErrorf("row %d has %d columns, want %d", i, len(r), cols)
		}
		copy(f.data[i*cols:], r)
	}
	return f, nil
}

func (f *Field) Rows() int { return f.rows }
func (f *Field) Cols() int { return f.cols }

// Dims returns the number of rows and columns.
func (f *Field) Dims() (rows, cols int) { return f.rows, f.cols }

func (f *Field) At(i, j int) float64     { return f.data[i*f.cols+j] }
func (f *Field) Set(i, j int, v float64) { f.data[i*f.cols+j] = v }

// Row returns a view of row i. Writes through the view modify the field.
func (f *Field) Row(i int) []float64 {
	return f.data[i*f.cols : (i+1)*f.cols]
}

// Data returns the backing slice.
func (f *Field) Data() []float64 { return f.data }

// Dense wraps the field storage in a gonum matrix without copying.
func (f *Field) Dense() *mat.Dense {
	return mat.NewDense(f.rows, f.cols, f.data)
}

func (f *Field) Clone() *Field {
	c := &Field{rows: f.rows, cols: f.cols, data: make([]float64, len(f.data))}
	copy(c.data, f.data)
	return c
}

// CopyFrom overwrites f with the contents of src.
func (f *Field) CopyFrom(src *Field) error {
	if err := sameShape(f, src); err != nil {
		return err
	}
	copy(f.data, src.data)
	return nil
}

func (f *Field) ToRows() [][]float64 {
	out := make([][]float64, f.rows)
	for i := range out {
		out[i] = make([]float64, f.cols)
		copy(out[i], f.Row(i))
	}
	return out
}

// Sum returns the total mass of the field.
func (f *Field) Sum() float64 {
	sum := 0.0
	for _, v := range f.data {
		sum += v
	}
	return sum
}

func (f *Field) Max() float64 {
	m := math.Inf(-1)
	for _, v := range f.data {
		if v > m {
			m = v
		}
	}
	return m
}

func (f *Field) Min() float64 {
	m := math.Inf(1)
	for _, v := range f.data {
		if v < m {
			m = v
		}
	}
	return m
}

// IsFinite reports whether every cell is neither NaN nor infinite.
func (f *Field) IsFinite() bool {
	for _, v := range f.data {
		if isBad(v) {
			return false
		}
	}
	return true
}

func (f *Field) firstNonFinite() (i, j int, ok bool) {
	for k, v := range f.data {
		if isBad(v) {
			return k / f.cols, k % f.cols, true
		}
	}
	return 0, 0, false
}

// Equal reports whether f and g have the same shape and bit-identical values.
func (f *Field) Equal(g *Field) bool {
	if f.rows != g.rows || f.cols != g.cols {
		return false
	}
	for i, v := range f.data {
		if math.Float64bits(v) != math.Float64bits(g.data[i]) {
			return false
		}
	}
	return true
}

// MaxAbsDiff returns the largest absolute cell-wise difference.
func (f *Field) MaxAbsDiff(g *Field) (float64, error) {
	if err := sameShape(f, g); err != nil {
		return 0, err
	}
	d := 0.0
	for i, v := range f.data {
		d = math.Max(d, math.Abs(v-g.data[i]))
	}
	return d, nil
}

// Downsample averages the field into a rows x cols grid of blocks. Target
// dimensions larger than the field are clamped to the field size.
func (f *Field) Downsample(rows, cols int) *Field {
	rows = clamp(rows, 1, f.rows)
	cols = clamp(cols, 1, f.cols)
	out := NewField(rows, cols)
	for bi := 0; bi < rows; bi++ {
		r0, r1 := bi*f.rows/rows, (bi+1)*f.rows/rows
		for bj := 0; bj < cols; bj++ {
			c0, c1 := bj*f.cols/cols, (bj+1)*f.cols/cols
			sum := 0.0
			for i := r0; i < r1; i++ {
				row := f.Row(i)
				for j := c0; j < c1; j++ {
					sum += row[j]
				}
			}
			out.Set(bi, bj, sum/float64((r1-r0)*(c1-c0)))
		}
	}
	return out
}

func sameShape(a, b *Field) error {
	if a == nil || b == nil {
		return shapeErrorf("nil field")
	}
	if a.rows != b.rows || a.cols != b.cols {
		return shapeErrorf("%dx%d vs %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isBad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

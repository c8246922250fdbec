package diffusion

import "fmt"

// Stepper advances a field by one diffusion step. dst and src must have the
// same shape and must not share storage; every read comes from src.
type Stepper interface {
	Name() string
	Step(dst, src *Field, dt, d float64)
}

type Metric interface {
	Name() string
	Observe(f *Field, step int)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f *Field, step int)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(f *Field, step int)

func (fn ObserverFunc) OnStep(f *Field, step int) { fn(f, step) }

// Evolve applies one step of s to f and returns the result as a new field.
// f is not modified. A NaN or infinite cell is rejected, since it would
// spread to every cell within a few steps.
func Evolve(s Stepper, f *Field, dt, d float64) (*Field, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	if i, j, ok := f.firstNonFinite(); ok {
		return nil, &InvalidValueError{Name: fmt.Sprintf("field[%d][%d]", i, j), Value: f.At(i, j)}
	}
	if err := CheckFinite("dt", dt); err != nil {
		return nil, err
	}
	if err := CheckFinite("D", d); err != nil {
		return nil, err
	}
	out := NewField(f.rows, f.cols)
	s.Step(out, f, dt, d)
	return out, nil
}

// Validate rejects nil, empty and inconsistently sized fields.
func Validate(f *Field) error {
	switch {
	case f == nil:
		return shapeErrorf("nil field")
	case f.rows <= 0 || f.cols <= 0:
		return shapeErrorf("empty field %dx%d", f.rows, f.cols)
	case len(f.data) != f.rows*f.cols:
		return shapeErrorf("%d values for %dx%d field", len(f.data), f.rows, f.cols)
	}
	return nil
}

// wrap returns i mod n in [0, n).
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

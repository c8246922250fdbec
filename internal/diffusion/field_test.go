package diffusion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	f, err := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	rows, cols := f.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 6.0, f.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, f.Row(1))
}

func TestFromRows_Copies(t *testing.T) {
	src := [][]float64{{1, 2}, {3, 4}}
	f, err := FromRows(src)
	require.NoError(t, err)

	src[0][0] = 99
	assert.Equal(t, 1.0, f.At(0, 0), "field must not alias its input")
}

func TestFromRows_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
	}{
		{"nil", nil},
		{"no rows", [][]float64{}},
		{"empty row", [][]float64{{}}},
		{"ragged", [][]float64{{1, 2}, {3}}},
		{"ragged long", [][]float64{{1}, {2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRows(tt.rows)
			assert.ErrorIs(t, err, ErrShape)

			var se *ShapeError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestNewField_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { NewField(0, 3) })
	assert.Panics(t, func() { NewField(3, -1) })
}

func TestField_CloneIndependent(t *testing.T) {
	f := NewField(2, 2)
	f.Set(0, 1, 5)

	c := f.Clone()
	c.Set(0, 1, 7)

	assert.Equal(t, 5.0, f.At(0, 1))
	assert.Equal(t, 7.0, c.At(0, 1))
}

func TestField_SumMaxMin(t *testing.T) {
	f, err := FromRows([][]float64{{1, -2}, {3.5, 0}})
	require.NoError(t, err)

	assert.InDelta(t, 2.5, f.Sum(), 1e-12)
	assert.Equal(t, 3.5, f.Max())
	assert.Equal(t, -2.0, f.Min())
}

func TestField_IsFinite(t *testing.T) {
	f := NewField(2, 2)
	assert.True(t, f.IsFinite())

	f.Set(1, 1, math.NaN())
	assert.False(t, f.IsFinite())

	f.Set(1, 1, math.Inf(-1))
	assert.False(t, f.IsFinite())
}

func TestField_EqualAndDiff(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Set(1, 0, 3.25)
	assert.False(t, a.Equal(b))

	d, err := a.MaxAbsDiff(b)
	require.NoError(t, err)
	assert.Equal(t, 0.25, d)

	_, err = a.MaxAbsDiff(NewField(3, 2))
	assert.ErrorIs(t, err, ErrShape)
	assert.False(t, a.Equal(NewField(2, 3)))
}

func TestField_CopyFrom(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	b := NewField(2, 2)
	require.NoError(t, b.CopyFrom(a))
	assert.True(t, a.Equal(b))

	assert.ErrorIs(t, NewField(1, 2).CopyFrom(a), ErrShape)
}

func TestField_ToRowsRoundTrip(t *testing.T) {
	in := [][]float64{{1, 2, 3}, {4, 5, 6}}
	f, err := FromRows(in)
	require.NoError(t, err)
	assert.Equal(t, in, f.ToRows())
}

func TestField_DenseSharesStorage(t *testing.T) {
	f := NewField(2, 3)
	m := f.Dense()
	m.Set(1, 2, 9)
	assert.Equal(t, 9.0, f.At(1, 2))
}

func TestField_Downsample(t *testing.T) {
	f, err := FromRows([][]float64{
		{1, 1, 2, 2},
		{1, 1, 2, 2},
		{3, 3, 4, 4},
		{3, 3, 4, 4},
	})
	require.NoError(t, err)

	d := f.Downsample(2, 2)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, d.ToRows())
	assert.InDelta(t, f.Sum()/4, d.Sum(), 1e-12)

	same := f.Downsample(10, 10)
	assert.True(t, f.Equal(same), "oversized targets clamp to the field size")
}

func TestWrap(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{0, 3, 0},
		{-1, 3, 2},
		{3, 3, 0},
		{4, 3, 1},
		{-4, 3, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wrap(tt.i, tt.n), "wrap(%d, %d)", tt.i, tt.n)
	}
}

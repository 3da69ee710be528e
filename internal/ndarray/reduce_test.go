package ndarray

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestFullReductions(t *testing.T) {
	a := FromSlice([]float64{1, 2, 3, 4})

	assert.Equal(t, 10.0, a.Sum())
	assert.Equal(t, 24.0, a.Prod())
	assert.Equal(t, 2.5, a.Mean())
	assert.InDelta(t, 1.25, a.Var(), 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), a.Std(), 1e-12)

	lo, err := a.Min()
	require.NoError(t, err)
	hi, err := a.Max()
	require.NoError(t, err)
	ptp, err := a.Ptp()
	require.NoError(t, err)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 4.0, hi)
	assert.Equal(t, 3.0, ptp)

	assert.Equal(t, []float64{1, 2, 6, 24}, a.CumProd().Values())
}

func TestEmptyReductions(t *testing.T) {
	a := Zeros(0)
	assert.Equal(t, 0.0, a.Sum())
	assert.Equal(t, 1.0, a.Prod())
	assert.True(t, math.IsNaN(a.Mean()))

	_, err := a.Min()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = a.ArgMax()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 0, a.CumProd().Size())
}

func TestReduceAxis(t *testing.T) {
	a := MustNew([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	rows, err := a.ReduceAxis(1, floats.Sum)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, rows.Shape())
	assert.Equal(t, []float64{6, 15}, rows.Values())

	cols, err := a.ReduceAxis(0, floats.Sum)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7, 9}, cols.Values())

	last, err := a.ReduceAxis(-1, floats.Max)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6}, last.Values())

	_, err = a.ReduceAxis(2, floats.Sum)
	assert.ErrorIs(t, err, ErrAxis)
}

func TestTrace(t *testing.T) {
	a := MustNew([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, 3, 3)
	tr, err := a.Trace(0)
	require.NoError(t, err)
	assert.Equal(t, 15.0, tr)

	tr, err = a.Trace(1)
	require.NoError(t, err)
	assert.Equal(t, 8.0, tr)

	_, err = Arange(3).Trace(0)
	assert.ErrorIs(t, err, ErrShape)
}

func TestRoundClip(t *testing.T) {
	a := FromSlice([]float64{0.5, 1.5, 2.25, -3.7})
	assert.Equal(t, []float64{0, 2, 2, -4}, a.Round(0).Values())
	assert.Equal(t, []float64{0.5, 1.5, 2.2, -3.7}, a.Round(1).Values())
	assert.Equal(t, []float64{0.5, 1.5, 2, -1}, a.Clip(-1, 2).Values())
}

func TestArgOps(t *testing.T) {
	a := FromSlice([]float64{3, 1, 2})
	assert.Equal(t, []int{1, 2, 0}, a.Argsort())
	assert.Equal(t, []float64{3, 1, 2}, a.Values(), "argsort leaves the array untouched")

	i, err := a.ArgMin()
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	i, err = a.ArgMax()
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	sorted := FromSlice([]float64{1, 2, 2, 3})
	assert.Equal(t, []int{1, 4}, sorted.SearchSorted([]float64{2, 5}, false))
	assert.Equal(t, []int{3, 0}, sorted.SearchSorted([]float64{2, 0}, true))
}

func TestNonzero(t *testing.T) {
	a := MustNew([]float64{0, 1, 2, 0}, 2, 2)
	nz := a.Nonzero()
	assert.Equal(t, [][]int{{0, 1}, {1, 0}}, nz)
}

func TestPut(t *testing.T) {
	a := Zeros(5)
	require.NoError(t, a.Put([]int{0, 2, 4}, []float64{7, 8}))
	assert.Equal(t, []float64{7, 0, 8, 0, 7}, a.Values())

	assert.ErrorIs(t, a.Put([]int{9}, []float64{1}), ErrIndex)
	assert.ErrorIs(t, a.Put([]int{0}, nil), ErrEmpty)
}

package ndarray

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sum returns the sum of all elements; 0 for an empty array.
func (a *Array) Sum() float64 { return floats.Sum(a.Values()) }

// Prod returns the product of all elements; 1 for an empty array.
func (a *Array) Prod() float64 { return floats.Prod(a.Values()) }

// Mean returns the arithmetic mean; NaN for an empty array.
func (a *Array) Mean() float64 {
	if a.Size() == 0 {
		return math.NaN()
	}
	return stat.Mean(a.Values(), nil)
}

// Var returns the population variance (divisor N).
func (a *Array) Var() float64 {
	if a.Size() == 0 {
		return math.NaN()
	}
	return stat.PopVariance(a.Values(), nil)
}

// Std returns the population standard deviation (divisor N).
func (a *Array) Std() float64 {
	if a.Size() == 0 {
		return math.NaN()
	}
	return stat.PopStdDev(a.Values(), nil)
}

func (a *Array) Min() (float64, error) {
	if a.Size() == 0 {
		return 0, fmt.Errorf("%w: min", ErrEmpty)
	}
	return floats.Min(a.Values()), nil
}

func (a *Array) Max() (float64, error) {
	if a.Size() == 0 {
		return 0, fmt.Errorf("%w: max", ErrEmpty)
	}
	return floats.Max(a.Values()), nil
}

// Ptp returns max - min ("peak to peak").
func (a *Array) Ptp() (float64, error) {
	if a.Size() == 0 {
		return 0, fmt.Errorf("%w: ptp", ErrEmpty)
	}
	vals := a.Values()
	return floats.Max(vals) - floats.Min(vals), nil
}

// ArgMin returns the flat index of the smallest element.
func (a *Array) ArgMin() (int, error) {
	if a.Size() == 0 {
		return 0, fmt.Errorf("%w: argmin", ErrEmpty)
	}
	return floats.MinIdx(a.Values()), nil
}

// ArgMax returns the flat index of the largest element.
func (a *Array) ArgMax() (int, error) {
	if a.Size() == 0 {
		return 0, fmt.Errorf("%w: argmax", ErrEmpty)
	}
	return floats.MaxIdx(a.Values()), nil
}

// CumProd returns the running product of the flattened array.
func (a *Array) CumProd() *Array {
	vals := a.Values()
	out := make([]float64, len(vals))
	if len(vals) > 0 {
		floats.CumProd(out, vals)
	}
	return owned(out, []int{len(out)})
}

// ReduceAxis applies fn to every lane along axis and returns an array with
// that axis removed.
func (a *Array) ReduceAxis(axis int, fn func(lane []float64) float64) (*Array, error) {
	ax, err := normAxis(axis, len(a.shape))
	if err != nil {
		return nil, err
	}
	n := a.shape[ax]
	vals := a.moveAxisLast(ax).Values()

	shape := make([]int, 0, len(a.shape)-1)
	shape = append(shape, a.shape[:ax]...)
	shape = append(shape, a.shape[ax+1:]...)
	size, _ := sizeOf(shape)

	out := make([]float64, size)
	for i := range out {
		out[i] = fn(vals[i*n : (i+1)*n])
	}
	return owned(out, shape), nil
}

// Trace sums the diagonal of a two-dimensional array, shifted by offset.
func (a *Array) Trace(offset int) (float64, error) {
	if len(a.shape) != 2 {
		return 0, fmt.Errorf("%w: trace needs a 2-d array, got %d-d", ErrShape, len(a.shape))
	}
	sum := 0.0
	for i := 0; i < a.shape[0]; i++ {
		j := i + offset
		if j < 0 || j >= a.shape[1] {
			continue
		}
		sum += a.data[a.offset+i*a.strides[0]+j*a.strides[1]]
	}
	return sum, nil
}

// Round rounds half to even at the given number of decimals.
func (a *Array) Round(decimals int) *Array {
	scale := math.Pow(10, float64(decimals))
	return a.Map(func(v float64) float64 {
		return math.RoundToEven(v*scale) / scale
	})
}

// Clip limits every element to [lo, hi].
func (a *Array) Clip(lo, hi float64) *Array {
	return a.Map(func(v float64) float64 {
		return math.Min(math.Max(v, lo), hi)
	})
}

// Argsort returns the indices that sort the flattened array.
func (a *Array) Argsort() []int {
	vals := a.Values()
	inds := make([]int, len(vals))
	floats.Argsort(vals, inds)
	return inds
}

// SearchSorted returns insertion points for values into the flattened,
// ascending array. With right set, ties insert after equal elements.
func (a *Array) SearchSorted(values []float64, right bool) []int {
	sorted := a.Values()
	out := make([]int, len(values))
	for k, v := range values {
		if right {
			out[k] = sort.Search(len(sorted), func(i int) bool { return sorted[i] > v })
		} else {
			out[k] = sort.SearchFloat64s(sorted, v)
		}
	}
	return out
}

// Nonzero returns, per axis, the coordinates of non-zero elements.
func (a *Array) Nonzero() [][]int {
	out := make([][]int, len(a.shape))
	for ax := range out {
		out[ax] = []int{}
	}
	strides := contiguousStrides(a.shape)
	for i, v := range a.Values() {
		if v == 0 {
			continue
		}
		rem := i
		for ax := range a.shape {
			out[ax] = append(out[ax], rem/strides[ax])
			rem %= strides[ax]
		}
	}
	return out
}

// Put writes values at flat indices of the logical array. Values are cycled
// when shorter than indices.
func (a *Array) Put(indices []int, values []float64) error {
	if len(indices) == 0 {
		return nil
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: put with no values", ErrEmpty)
	}
	pos := a.positions()
	for k, i := range indices {
		j, err := normIndex(i, len(pos))
		if err != nil {
			return err
		}
		a.data[pos[j]] = values[k%len(values)]
	}
	return nil
}

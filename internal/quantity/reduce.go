package quantity

import (
	"fmt"
	"math"

	"github.com/san-kum/ufloat/internal/ndarray"
	"github.com/san-kum/ufloat/internal/units"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reductions keep a's unit except where noted. Full reductions return a
// Scalar, or a Number for a dimensionless array.

func (a *Array) Sum() Value { return degrade(a.data.Sum(), a.unit) }

func (a *Array) Mean() Value { return degrade(a.data.Mean(), a.unit) }

func (a *Array) Std() Value { return degrade(a.data.Std(), a.unit) }

// Var squares the unit.
func (a *Array) Var() Value {
	return degrade(a.data.Var(), units.Power(a.unit, 2))
}

// Prod raises the unit to the number of elements multiplied together.
func (a *Array) Prod() Value {
	return degrade(a.data.Prod(), units.Power(a.unit, float64(a.data.Size())))
}

func (a *Array) Min() (Value, error) { return a.extreme(a.data.Min) }

func (a *Array) Max() (Value, error) { return a.extreme(a.data.Max) }

// Ptp is the peak-to-peak range, max minus min.
func (a *Array) Ptp() (Value, error) { return a.extreme(a.data.Ptp) }

func (a *Array) extreme(f func() (float64, error)) (Value, error) {
	v, err := f()
	if err != nil {
		return nil, err
	}
	return degrade(v, a.unit), nil
}

func (a *Array) ArgMin() (int, error) { return a.data.ArgMin() }

func (a *Array) ArgMax() (int, error) { return a.data.ArgMax() }

// Trace sums the offset diagonal of a two-dimensional array.
func (a *Array) Trace(offset int) (Value, error) {
	v, err := a.data.Trace(offset)
	if err != nil {
		return nil, err
	}
	return degrade(v, a.unit), nil
}

// CumProd is only defined for dimensionless arrays: the partial products
// of a unit-bearing array would each have a different unit.
func (a *Array) CumProd() (*Array, error) {
	if !a.unit.IsDimensionless() {
		return nil, &units.DimensionError{Op: "cumprod", Unit: units.Format(a.unit)}
	}
	return &Array{data: a.data.CumProd()}, nil
}

func (a *Array) Round(decimals int) *Array {
	return &Array{data: a.data.Round(decimals), unit: a.unit}
}

// Clip limits a to [lo, hi]. A nil bound is open. Bounds must carry a's
// unit.
func (a *Array) Clip(lo, hi Value) (*Array, error) {
	if lo == nil && hi == nil {
		return nil, fmt.Errorf("clip: at least one of min or max must be set")
	}
	bound := func(v Value, open float64) (float64, error) {
		if v == nil {
			return open, nil
		}
		f, err := Rescale(v, a.unit)
		if err != nil {
			return 0, fmt.Errorf("clip: %w", err)
		}
		return f, nil
	}
	l, err := bound(lo, math.Inf(-1))
	if err != nil {
		return nil, err
	}
	h, err := bound(hi, math.Inf(1))
	if err != nil {
		return nil, err
	}
	return &Array{data: a.data.Clip(l, h), unit: a.unit}, nil
}

func (a *Array) Argsort() []int { return a.data.Argsort() }

// SearchSorted finds insertion points for values, which must carry a's
// unit, into the ascending flattened a.
func (a *Array) SearchSorted(values Value, right bool) ([]int, error) {
	v := asArray(values)
	if err := units.CheckCompatible(a.unit, v.unit); err != nil {
		return nil, fmt.Errorf("searchsorted: %w", err)
	}
	return a.data.SearchSorted(v.data.Values(), right), nil
}

func (a *Array) Nonzero() [][]int { return a.data.Nonzero() }

// Per-axis reductions return an array with axis removed.

func (a *Array) SumAxis(axis int) (*Array, error) {
	return a.reduceAxis(axis, floats.Sum, a.unit)
}

func (a *Array) MeanAxis(axis int) (*Array, error) {
	return a.reduceAxis(axis, func(l []float64) float64 { return stat.Mean(l, nil) }, a.unit)
}

func (a *Array) MinAxis(axis int) (*Array, error) {
	if err := a.nonEmptyAxis(axis); err != nil {
		return nil, err
	}
	return a.reduceAxis(axis, floats.Min, a.unit)
}

func (a *Array) MaxAxis(axis int) (*Array, error) {
	if err := a.nonEmptyAxis(axis); err != nil {
		return nil, err
	}
	return a.reduceAxis(axis, floats.Max, a.unit)
}

func (a *Array) VarAxis(axis int) (*Array, error) {
	return a.reduceAxis(axis, func(l []float64) float64 { return stat.PopVariance(l, nil) }, units.Power(a.unit, 2))
}

func (a *Array) StdAxis(axis int) (*Array, error) {
	return a.reduceAxis(axis, func(l []float64) float64 { return stat.PopStdDev(l, nil) }, a.unit)
}

// ProdAxis raises the unit to the length of axis.
func (a *Array) ProdAxis(axis int) (*Array, error) {
	n, err := a.axisLen(axis)
	if err != nil {
		return nil, err
	}
	return a.reduceAxis(axis, floats.Prod, units.Power(a.unit, float64(n)))
}

func (a *Array) reduceAxis(axis int, fn func([]float64) float64, u units.Unit) (*Array, error) {
	data, err := a.data.ReduceAxis(axis, fn)
	if err != nil {
		return nil, err
	}
	return &Array{data: data, unit: u}, nil
}

func (a *Array) axisLen(axis int) (int, error) {
	shape := a.data.Shape()
	ax := axis
	if ax < 0 {
		ax += len(shape)
	}
	if ax < 0 || ax >= len(shape) {
		return 0, fmt.Errorf("%w: %d for %d-d array", ndarray.ErrAxis, axis, len(shape))
	}
	return shape[ax], nil
}

func (a *Array) nonEmptyAxis(axis int) error {
	n, err := a.axisLen(axis)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: reduce along empty axis %d", ndarray.ErrEmpty, axis)
	}
	return nil
}

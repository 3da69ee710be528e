// Package quantity decorates numbers and arrays with a physical unit.
//
// A [Value] is exactly one of [Number], [Scalar] or *[Array]. Arithmetic
// between values goes through the ufunc dispatch table: the table decides
// the result unit, the ndarray engine computes the numbers. Results whose
// unit cancels out degrade to plain numbers.
package quantity

import (
	"fmt"

	"github.com/san-kum/ufloat/internal/ndarray"
	"github.com/san-kum/ufloat/internal/units"
)

// Value is a plain number, a unit-bearing scalar, or a unit-bearing array.
type Value interface {
	Unit() units.Unit
	String() string
	isValue()
}

// Number is a dimensionless plain number.
type Number float64

func (Number) Unit() units.Unit { return units.Dimensionless }

func (n Number) String() string { return formatFloat(float64(n)) }

func (Number) isValue() {}

func (Scalar) isValue() {}

func (*Array) isValue() {}

// Of lifts a Go value into a Value. Slices and ndarrays become
// dimensionless arrays.
func Of(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(x), nil
	case int:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case []float64:
		return &Array{data: ndarray.FromSlice(x)}, nil
	case *ndarray.Array:
		return &Array{data: x}, nil
	default:
		return nil, fmt.Errorf("quantity: cannot use %T as a value", v)
	}
}

// MustOf is like Of but panics on error.
func MustOf(v any) Value {
	q, err := Of(v)
	if err != nil {
		panic(err)
	}
	return q
}

// degrade returns Number when u is dimensionless and Scalar otherwise.
func degrade(v float64, u units.Unit) Value {
	if u.IsDimensionless() {
		return Number(v)
	}
	return Scalar{value: v, unit: u}
}

// scalarParts splits a non-array value into its number and unit.
func scalarParts(v Value) (float64, units.Unit) {
	switch x := v.(type) {
	case Number:
		return float64(x), units.Dimensionless
	case Scalar:
		return x.value, x.unit
	}
	panic(fmt.Sprintf("quantity: %T is not a scalar", v))
}

// asArray views any value as an array without copying array payloads.
func asArray(v Value) *Array {
	if a, ok := v.(*Array); ok {
		return a
	}
	f, u := scalarParts(v)
	return &Array{data: ndarray.Scalar(f), unit: u}
}

// Float returns the numeric part of a scalar value, ignoring its unit.
func Float(v Value) (float64, bool) {
	switch x := v.(type) {
	case Number:
		return float64(x), true
	case Scalar:
		return x.value, true
	case *Array:
		if x.data.Size() == 1 {
			f, _ := x.data.Item()
			return f, true
		}
	}
	return 0, false
}

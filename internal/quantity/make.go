package quantity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/ufloat/internal/ndarray"
	"github.com/san-kum/ufloat/internal/units"
	"gonum.org/v1/gonum/floats"
)

type makeOptions struct {
	override   bool
	undegraded bool
}

// Option configures Make.
type Option func(*makeOptions)

// WithOverride lets Make replace the unit an input already carries.
func WithOverride() Option {
	return func(o *makeOptions) { o.override = true }
}

// Undegraded keeps inputs with at most one element wrapped as an Array.
func Undegraded() Option {
	return func(o *makeOptions) { o.undegraded = true }
}

// Make wraps data with unit u. data may be anything Of accepts. If data
// already carries a unit it must equal u unless WithOverride is given.
//
// Inputs with at most one element degrade: to a Scalar when the unit is
// non-empty and to a Number otherwise.
func Make(data any, u units.Unit, opts ...Option) (Value, error) {
	var o makeOptions
	for _, opt := range opts {
		opt(&o)
	}

	v, err := Of(data)
	if err != nil {
		return nil, err
	}
	u = units.Simplify(u)
	if cur := v.Unit(); !cur.IsDimensionless() && !o.override {
		if err := units.CheckCompatible(cur, u); err != nil {
			return nil, err
		}
	}

	arr := asArray(v)
	if arr.data.Size() == 1 && !o.undegraded {
		f, _ := arr.data.Item()
		return degrade(f, u), nil
	}
	if src, ok := v.(*Array); ok {
		return &Array{data: src.data.Copy(), unit: u}, nil
	}
	return &Array{data: arr.data, unit: u}, nil
}

// MustMake is like Make but panics on error.
func MustMake(data any, u units.Unit, opts ...Option) Value {
	v, err := Make(data, u, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseScalar reads the "<value> [<unit>]" form produced by Scalar.String.
// A bare number parses as a Number.
func ParseScalar(s string) (Value, error) {
	s = strings.TrimSpace(s)
	num, rest, hasUnit := strings.Cut(s, "[")
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return nil, fmt.Errorf("quantity: parse %q: %w", s, err)
	}
	if !hasUnit {
		return Number(f), nil
	}
	sym, ok := strings.CutSuffix(strings.TrimSpace(rest), "]")
	if !ok {
		return nil, fmt.Errorf("quantity: parse %q: missing ']'", s)
	}
	u, err := units.Parse(sym)
	if err != nil {
		return nil, err
	}
	return degrade(f, u), nil
}

// Linspace returns n evenly spaced values from start to stop inclusive.
// start and stop must share a unit, which the result carries.
func Linspace(start, stop Value, n int) (*Array, error) {
	lo, u, err := scalarOf(start)
	if err != nil {
		return nil, err
	}
	hi, err := Rescale(stop, u)
	if err != nil {
		return nil, fmt.Errorf("linspace: %w", err)
	}
	if n < 0 {
		return nil, fmt.Errorf("linspace: %w: negative count %d", ndarray.ErrShape, n)
	}
	vals := make([]float64, n)
	switch n {
	case 0:
	case 1:
		vals[0] = lo
	default:
		floats.Span(vals, lo, hi)
	}
	return NewArray(ndarray.MustNew(vals), u), nil
}

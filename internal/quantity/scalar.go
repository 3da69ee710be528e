package quantity

import (
	"fmt"
	"strconv"

	"github.com/san-kum/ufloat/internal/ufunc"
	"github.com/san-kum/ufloat/internal/units"
)

// Scalar is a single number with a unit. Its unit never changes; every
// operation returns a new value.
type Scalar struct {
	value float64
	unit  units.Unit
}

// New returns the scalar v with unit u. It does not degrade: New(1, {})
// is a dimensionless Scalar, not a Number.
func New(v float64, u units.Unit) Scalar {
	return Scalar{value: v, unit: units.Simplify(u)}
}

// Value returns the numeric part in the scalar's own unit.
func (s Scalar) Value() float64 { return s.value }

func (s Scalar) Unit() units.Unit { return s.unit }

// Symbol returns the formatted unit.
func (s Scalar) Symbol() string { return units.Format(s.unit) }

func (s Scalar) Add(o Value) (Value, error) { return Binary(ufunc.Add, s, o) }

func (s Scalar) Sub(o Value) (Value, error) { return Binary(ufunc.Subtract, s, o) }

func (s Scalar) Mod(o Value) (Value, error) { return Binary(ufunc.Mod, s, o) }

// Mul multiplies without unit checks; an array operand yields an array.
func (s Scalar) Mul(o Value) (Value, error) { return Binary(ufunc.Multiply, s, o) }

func (s Scalar) Div(o Value) (Value, error) { return Binary(ufunc.TrueDivide, s, o) }

// Pow raises s to p. The result is a Number when p is 0.
func (s Scalar) Pow(p float64) Value {
	v, err := Binary(ufunc.Power, s, Number(p))
	if err != nil {
		// a plain scalar exponent always satisfies the power rule
		panic(err)
	}
	return v
}

// Scale multiplies the value by a plain factor.
func (s Scalar) Scale(f float64) Scalar {
	return Scalar{value: s.value * f, unit: s.unit}
}

func (s Scalar) Neg() Scalar {
	return Scalar{value: -s.value, unit: s.unit}
}

// Rescale returns the number o holds once checked against u. No conversion
// takes place: mismatching units are an error.
func Rescale(o Value, u units.Unit) (float64, error) {
	f, ou, err := scalarOf(o)
	if err != nil {
		return 0, err
	}
	if err := units.CheckCompatible(ou, u); err != nil {
		return 0, err
	}
	return f, nil
}

// Rescale returns the value of s after checking its unit against u.
func (s Scalar) Rescale(u units.Unit) (float64, error) {
	return Rescale(s, u)
}

// In expresses s as a multiple of ref, which must have the same unit.
// With catalog constants this reads as s.In(ms).
func (s Scalar) In(ref Value) (float64, error) {
	f, u, err := scalarOf(ref)
	if err != nil {
		return 0, err
	}
	if err := units.CheckCompatible(s.unit, u); err != nil {
		return 0, err
	}
	return s.value / f, nil
}

func (s Scalar) Lt(o Value) (bool, error) { return compareScalar(Less, s, o) }

func (s Scalar) Le(o Value) (bool, error) { return compareScalar(LessEqual, s, o) }

func (s Scalar) Gt(o Value) (bool, error) { return compareScalar(Greater, s, o) }

func (s Scalar) Ge(o Value) (bool, error) { return compareScalar(GreaterEqual, s, o) }

// Eq reports whether o has the same unit and value. It never fails.
func (s Scalar) Eq(o Value) bool {
	ok, _ := compareScalar(Equal, s, o)
	return ok
}

// Ne is the negation of Eq.
func (s Scalar) Ne(o Value) bool {
	ok, _ := compareScalar(NotEqual, s, o)
	return ok
}

// String renders "<value> [<unit>]".
func (s Scalar) String() string {
	return formatFloat(s.value) + " [" + units.Format(s.unit) + "]"
}

func (s Scalar) GoString() string {
	return fmt.Sprintf("quantity.New(%s, units.MustParse(%q))", formatFloat(s.value), units.Format(s.unit))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// scalarOf accepts numbers, scalars and single-element arrays.
func scalarOf(v Value) (float64, units.Unit, error) {
	if a, ok := v.(*Array); ok {
		f, err := a.data.Item()
		if err != nil {
			return 0, units.Unit{}, fmt.Errorf("quantity: expected a scalar: %w", err)
		}
		return f, a.unit, nil
	}
	f, u := scalarParts(v)
	return f, u, nil
}

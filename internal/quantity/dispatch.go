package quantity

import (
	"fmt"

	"github.com/san-kum/ufloat/internal/ndarray"
	"github.com/san-kum/ufloat/internal/ufunc"
	"github.com/san-kum/ufloat/internal/units"
)

// Binary applies a two-operand operation from the dispatch table. Without
// an array operand the result is a Scalar, or a Number when the unit
// cancels. With one, both operands are broadcast and the result is an
// *Array.
func Binary(op ufunc.Op, a, b Value) (Value, error) {
	e, err := lookup(op, 2)
	if err != nil {
		return nil, err
	}

	aa, aIsArr := a.(*Array)
	bb, bIsArr := b.(*Array)
	if !aIsArr && !bIsArr {
		x, ux := scalarParts(a)
		y, uy := scalarParts(b)
		u, err := e.Rule(ufunc.Arg{Unit: ux}, ufunc.Arg{Unit: uy, Values: []float64{y}})
		if err != nil {
			return nil, err
		}
		return degrade(e.Binary(x, y), u), nil
	}

	if !aIsArr {
		aa = asArray(a)
	}
	if !bIsArr {
		bb = asArray(b)
	}
	u, err := e.Rule(ufunc.Arg{Unit: aa.unit}, operandArg(op, bb))
	if err != nil {
		return nil, err
	}
	data, err := ndarray.Zip(aa.data, bb.data, e.Binary)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Array{data: data, unit: u}, nil
}

// Unary applies a one-operand operation from the dispatch table.
func Unary(op ufunc.Op, a Value) (Value, error) {
	e, err := lookup(op, 1)
	if err != nil {
		return nil, err
	}
	u, err := e.Rule(ufunc.Arg{Unit: a.Unit()})
	if err != nil {
		return nil, err
	}
	if arr, ok := a.(*Array); ok {
		return &Array{data: arr.data.Map(e.Unary), unit: u}, nil
	}
	x, _ := scalarParts(a)
	return degrade(e.Unary(x), u), nil
}

func lookup(op ufunc.Op, arity int) (ufunc.Entry, error) {
	e, err := ufunc.Lookup(op)
	if err != nil {
		return ufunc.Entry{}, err
	}
	if e.Arity != arity {
		return ufunc.Entry{}, fmt.Errorf("quantity: %s takes %d operands, not %d", op, e.Arity, arity)
	}
	return e, nil
}

// operandArg only copies the payload out when the rule reads it.
func operandArg(op ufunc.Op, a *Array) ufunc.Arg {
	if op == ufunc.Power {
		return ufunc.Arg{Unit: a.unit, Values: a.data.Values()}
	}
	return ufunc.Arg{Unit: a.unit}
}

func Add(a, b Value) (Value, error) { return Binary(ufunc.Add, a, b) }

func Sub(a, b Value) (Value, error) { return Binary(ufunc.Subtract, a, b) }

func Mul(a, b Value) (Value, error) { return Binary(ufunc.Multiply, a, b) }

func Div(a, b Value) (Value, error) { return Binary(ufunc.TrueDivide, a, b) }

func Mod(a, b Value) (Value, error) { return Binary(ufunc.Mod, a, b) }

func Pow(a, b Value) (Value, error) { return Binary(ufunc.Power, a, b) }

// Cmp is a comparison operator.
type Cmp uint8

const (
	Less Cmp = iota
	LessEqual
	Greater
	GreaterEqual
	Equal
	NotEqual
)

var cmpSymbols = [...]string{"<", "<=", ">", ">=", "==", "!="}

func (c Cmp) String() string {
	if int(c) < len(cmpSymbols) {
		return cmpSymbols[c]
	}
	return fmt.Sprintf("cmp(%d)", uint8(c))
}

func (c Cmp) test(x, y float64) bool {
	switch c {
	case Less:
		return x < y
	case LessEqual:
		return x <= y
	case Greater:
		return x > y
	case GreaterEqual:
		return x >= y
	case Equal:
		return x == y
	default:
		return x != y
	}
}

// mismatch resolves a comparison between different units: Equal is false,
// NotEqual is true, ordering is an error.
func (c Cmp) mismatch(l, r units.Unit) (bool, error) {
	switch c {
	case Equal:
		return false, nil
	case NotEqual:
		return true, nil
	}
	return false, &units.IncompatibleUnitError{Op: c.String(), Left: units.Format(l), Right: units.Format(r)}
}

// Compare evaluates a c b element-wise. Scalars compare to a 0-d mask.
// On a unit mismatch Equal and NotEqual yield a constant mask shaped like
// a; the ordering operators fail.
func Compare(c Cmp, a, b Value) (*ndarray.Mask, error) {
	aa, bb := asArray(a), asArray(b)
	if !units.Equal(aa.unit, bb.unit) {
		v, err := c.mismatch(aa.unit, bb.unit)
		if err != nil {
			return nil, err
		}
		return ndarray.NewMask(v, aa.data.Shape()...), nil
	}
	m, err := ndarray.Compare(aa.data, bb.data, c.test)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	return m, nil
}

func compareScalar(c Cmp, s Scalar, o Value) (bool, error) {
	f, u, err := scalarOf(o)
	if err != nil {
		if c == Equal || c == NotEqual {
			return c == NotEqual, nil
		}
		return false, err
	}
	if !units.Equal(s.unit, u) {
		return c.mismatch(s.unit, u)
	}
	return c.test(s.value, f), nil
}

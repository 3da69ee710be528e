// Package ufunc holds the dispatch table that maps every supported
// element-wise operation to its unit rule and its numeric kernel.
//
// The table is a fixed array indexed by [Op], built once at package
// initialisation and never modified afterwards.
package ufunc

import (
	"fmt"
	"math"

	"github.com/san-kum/ufloat/internal/units"
)

// Op identifies an element-wise operation.
type Op uint8

const (
	Invalid Op = iota

	Multiply
	Divide
	TrueDivide
	FloorDivide

	Add
	Subtract
	Mod
	Remainder
	Fmod
	Arctan2

	Power
	Square
	Sqrt
	Reciprocal

	Absolute
	Negative
	Conjugate
	OnesLike
	Rint
	Round
	Floor
	Ceil
	Fix
	Copy

	Radians
	Degrees
	Sin
	Cos
	Tan
	Sinh
	Cosh
	Tanh

	Arcsin
	Arccos
	Arctan
	Arcsinh
	Arccosh
	Arctanh

	Log
	Log10
	Log2
	Log1p
	Exp
	Expm1
	Logaddexp
	Logaddexp2

	numOps
)

// Arg is one operand as seen by a unit rule. Values is only consulted by
// rules that depend on operand data (the exponent of Power).
type Arg struct {
	Unit   units.Unit
	Values []float64
}

// Rule infers the result unit of an operation from its operands.
type Rule func(args ...Arg) (units.Unit, error)

// Entry is one row of the dispatch table.
type Entry struct {
	Name   string
	Arity  int
	Rule   Rule
	Unary  func(x float64) float64
	Binary func(x, y float64) float64
}

var table [numOps]Entry

var byName = map[string]Op{}

func register(op Op, e Entry) {
	table[op] = e
	byName[e.Name] = op
}

func (op Op) String() string {
	if op < numOps && table[op].Name != "" {
		return table[op].Name
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Lookup returns the table entry for op.
func Lookup(op Op) (Entry, error) {
	if op >= numOps || table[op].Rule == nil {
		return Entry{}, &units.UnsupportedOperationError{Op: op.String()}
	}
	return table[op], nil
}

// ByName resolves an operation by its lower-case name, e.g. "sqrt".
func ByName(name string) (Op, error) {
	op, ok := byName[name]
	if !ok {
		return Invalid, &units.UnsupportedOperationError{Op: name}
	}
	return op, nil
}

// Ops lists every registered operation in table order.
func Ops() []Op {
	ops := make([]Op, 0, numOps)
	for op := Op(1); op < numOps; op++ {
		if table[op].Rule != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

// Infer applies the unit rule of op to args.
func Infer(op Op, args ...Arg) (units.Unit, error) {
	e, err := Lookup(op)
	if err != nil {
		return units.Unit{}, err
	}
	if len(args) != e.Arity {
		return units.Unit{}, fmt.Errorf("%s: expected %d operands, got %d", e.Name, e.Arity, len(args))
	}
	return e.Rule(args...)
}

func init() {
	unary := func(op Op, name string, rule Rule, f func(float64) float64) {
		register(op, Entry{Name: name, Arity: 1, Rule: rule, Unary: f})
	}
	binary := func(op Op, name string, rule Rule, f func(float64, float64) float64) {
		register(op, Entry{Name: name, Arity: 2, Rule: rule, Binary: f})
	}

	binary(Multiply, "multiply", multiplyRule, func(x, y float64) float64 { return x * y })
	binary(Divide, "divide", divideRule, func(x, y float64) float64 { return x / y })
	binary(TrueDivide, "true_divide", divideRule, func(x, y float64) float64 { return x / y })
	binary(FloorDivide, "floor_divide", divideRule, func(x, y float64) float64 { return math.Floor(x / y) })

	binary(Add, "add", sameUnitRule("add"), func(x, y float64) float64 { return x + y })
	binary(Subtract, "subtract", sameUnitRule("subtract"), func(x, y float64) float64 { return x - y })
	binary(Mod, "mod", sameUnitRule("mod"), pyMod)
	binary(Remainder, "remainder", sameUnitRule("remainder"), pyMod)
	binary(Fmod, "fmod", sameUnitRule("fmod"), math.Mod)
	binary(Arctan2, "arctan2", sameUnitRule("arctan2"), math.Atan2)

	binary(Power, "power", powerRule, math.Pow)
	unary(Square, "square", scaleRule(2), func(x float64) float64 { return x * x })
	unary(Sqrt, "sqrt", scaleRule(0.5), math.Sqrt)
	unary(Reciprocal, "reciprocal", scaleRule(-1), func(x float64) float64 { return 1 / x })

	unary(Absolute, "absolute", copyRule, math.Abs)
	unary(Negative, "negative", copyRule, func(x float64) float64 { return -x })
	unary(Conjugate, "conjugate", copyRule, func(x float64) float64 { return x })
	unary(OnesLike, "ones_like", copyRule, func(float64) float64 { return 1 })
	unary(Rint, "rint", copyRule, math.RoundToEven)
	unary(Round, "round", copyRule, math.RoundToEven)
	unary(Floor, "floor", copyRule, math.Floor)
	unary(Ceil, "ceil", copyRule, math.Ceil)
	unary(Fix, "fix", copyRule, math.Trunc)
	unary(Copy, "copy", copyRule, func(x float64) float64 { return x })

	unary(Radians, "radians", dimensionlessRule("radians"), func(x float64) float64 { return x * math.Pi / 180 })
	unary(Degrees, "degrees", dimensionlessRule("degrees"), func(x float64) float64 { return x * 180 / math.Pi })
	for _, f := range []struct {
		op   Op
		name string
		fn   func(float64) float64
	}{
		{Sin, "sin", math.Sin}, {Cos, "cos", math.Cos}, {Tan, "tan", math.Tan},
		{Sinh, "sinh", math.Sinh}, {Cosh, "cosh", math.Cosh}, {Tanh, "tanh", math.Tanh},
		{Arcsin, "arcsin", math.Asin}, {Arccos, "arccos", math.Acos}, {Arctan, "arctan", math.Atan},
		{Arcsinh, "arcsinh", math.Asinh}, {Arccosh, "arccosh", math.Acosh}, {Arctanh, "arctanh", math.Atanh},
		{Log, "log", math.Log}, {Log10, "log10", math.Log10}, {Log2, "log2", math.Log2},
		{Log1p, "log1p", math.Log1p}, {Exp, "exp", math.Exp}, {Expm1, "expm1", math.Expm1},
	} {
		unary(f.op, f.name, dimensionlessRule(f.name), f.fn)
	}

	binary(Logaddexp, "logaddexp", dimensionlessRule("logaddexp"), logAddExp)
	binary(Logaddexp2, "logaddexp2", dimensionlessRule("logaddexp2"), logAddExp2)
}

// pyMod is the floored modulo: the result takes the sign of the divisor.
func pyMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

func logAddExp(x, y float64) float64 {
	hi, lo := math.Max(x, y), math.Min(x, y)
	return hi + math.Log1p(math.Exp(lo-hi))
}

func logAddExp2(x, y float64) float64 {
	hi, lo := math.Max(x, y), math.Min(x, y)
	return hi + math.Log1p(math.Exp2(lo-hi))/math.Ln2
}

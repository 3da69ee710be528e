package quantity

import (
	"fmt"

	"github.com/san-kum/ufloat/internal/ndarray"
	"github.com/san-kum/ufloat/internal/ufunc"
	"github.com/san-kum/ufloat/internal/units"
)

// Array is an ndarray with one unit shared by every element.
//
// Arrays returned by Index, Slice and Reshape are views: they share the
// buffer of the array they came from and remember its owner. A view may be
// written through, but never in a way that changes its unit, since the
// owner and its other views would disagree about what the numbers mean.
type Array struct {
	data  *ndarray.Array
	unit  units.Unit
	owner *Array
}

// NewArray wraps data with unit u. The buffer is not copied.
func NewArray(data *ndarray.Array, u units.Unit) *Array {
	return &Array{data: data, unit: units.Simplify(u)}
}

// FromValues copies vals into a one-dimensional array with unit u.
func FromValues(vals []float64, u units.Unit) *Array {
	return NewArray(ndarray.FromSlice(vals), u)
}

func (a *Array) Unit() units.Unit { return a.unit }

// Symbol returns the formatted unit.
func (a *Array) Symbol() string { return units.Format(a.unit) }

// Data returns the underlying array. It shares a's buffer.
func (a *Array) Data() *ndarray.Array { return a.data }

func (a *Array) Shape() []int { return a.data.Shape() }

func (a *Array) Ndim() int { return a.data.Ndim() }

func (a *Array) Size() int { return a.data.Size() }

// Values returns a copy of the elements in row-major order.
func (a *Array) Values() []float64 { return a.data.Values() }

// IsView reports whether a borrows its buffer from another Array.
func (a *Array) IsView() bool { return a.owner != nil }

// Owner returns the Array owning a's buffer, or nil if a owns it.
func (a *Array) Owner() *Array { return a.owner }

func (a *Array) root() *Array {
	if a.owner != nil {
		return a.owner
	}
	return a
}

func (a *Array) viewOf(data *ndarray.Array) *Array {
	if !data.SharesBuffer(a.data) {
		return &Array{data: data, unit: a.unit}
	}
	return &Array{data: data, unit: a.unit, owner: a.root()}
}

// Index selects position i along the first axis. On a one-dimensional
// array the element is returned as a Scalar, or a Number when a is
// dimensionless; otherwise the result is a view.
func (a *Array) Index(i int) (Value, error) {
	v, err := a.data.Index(i)
	if err != nil {
		return nil, err
	}
	if v.Ndim() == 0 {
		f, _ := v.Item()
		return degrade(f, a.unit), nil
	}
	return a.viewOf(v), nil
}

// Slice returns a view selecting ranges along the leading axes.
func (a *Array) Slice(ranges ...ndarray.Range) (*Array, error) {
	v, err := a.data.Slice(ranges...)
	if err != nil {
		return nil, err
	}
	return a.viewOf(v), nil
}

// Reshape returns a view when the layout allows it and a copy otherwise.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	v, err := a.data.Reshape(shape...)
	if err != nil {
		return nil, err
	}
	return a.viewOf(v), nil
}

// Take gathers flat indices into a new array with the same unit.
func (a *Array) Take(indices []int) (*Array, error) {
	v, err := a.data.Take(indices)
	if err != nil {
		return nil, err
	}
	return &Array{data: v, unit: a.unit}, nil
}

// Copy returns an owning copy.
func (a *Array) Copy() *Array {
	return &Array{data: a.data.Copy(), unit: a.unit}
}

// Set writes v into the selected ranges, or into the whole array when no
// range is given. v must carry a's unit.
func (a *Array) Set(v Value, ranges ...ndarray.Range) error {
	src := asArray(v)
	if err := units.CheckCompatible(a.unit, src.unit); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	dst := a.data
	if len(ranges) > 0 {
		var err error
		if dst, err = a.data.Slice(ranges...); err != nil {
			return err
		}
	}
	return ndarray.Assign(dst, src.data)
}

// SetAt writes the scalar v at idx. v must carry a's unit.
func (a *Array) SetAt(v Value, idx ...int) error {
	f, err := Rescale(v, a.unit)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return a.data.SetAt(f, idx...)
}

// At returns the element at idx with a's unit.
func (a *Array) At(idx ...int) (Value, error) {
	f, err := a.data.At(idx...)
	if err != nil {
		return nil, err
	}
	return degrade(f, a.unit), nil
}

// Fill sets every element to v. A v with a unit is adopted as the new
// unit, which a view may only do if the unit stays the same.
func (a *Array) Fill(v Value) error {
	f, u, err := scalarOf(v)
	if err != nil {
		return err
	}
	if _, plain := v.(Number); plain {
		a.data.Fill(f)
		return nil
	}
	if err := a.protect("fill", u); err != nil {
		return err
	}
	a.data.Fill(f)
	a.unit = u
	return nil
}

// Put writes values at flat indices, cycling values if they are fewer.
// values must be an Array with a's unit.
func (a *Array) Put(indices []int, values Value) error {
	src, ok := values.(*Array)
	if !ok {
		return fmt.Errorf("put: values must be an array, got %T", values)
	}
	if err := units.CheckCompatible(a.unit, src.unit); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return a.data.Put(indices, src.data.Values())
}

// ToList returns nested []any whose leaves are Scalars, or Numbers for a
// dimensionless array.
func (a *Array) ToList() any {
	return wrapLeaves(a.data.ToList(), a.unit)
}

func wrapLeaves(v any, u units.Unit) any {
	switch x := v.(type) {
	case float64:
		return degrade(x, u)
	case []any:
		for i := range x {
			x[i] = wrapLeaves(x[i], u)
		}
		return x
	}
	return v
}

// String renders "<values> [<unit>]".
func (a *Array) String() string {
	return a.data.String() + " [" + units.Format(a.unit) + "]"
}

func (a *Array) GoString() string {
	return fmt.Sprintf("quantity.FromValues(%v, units.MustParse(%q))", a.data.Values(), units.Format(a.unit))
}

func (a *Array) Add(o Value) (*Array, error) { return a.binary(ufunc.Add, o) }

func (a *Array) Sub(o Value) (*Array, error) { return a.binary(ufunc.Subtract, o) }

func (a *Array) Mod(o Value) (*Array, error) { return a.binary(ufunc.Mod, o) }

func (a *Array) Mul(o Value) (*Array, error) { return a.binary(ufunc.Multiply, o) }

func (a *Array) Div(o Value) (*Array, error) { return a.binary(ufunc.TrueDivide, o) }

// Pow raises a to o, which must be dimensionless and, if it is an array,
// hold one distinct value.
func (a *Array) Pow(o Value) (*Array, error) { return a.binary(ufunc.Power, o) }

func (a *Array) binary(op ufunc.Op, o Value) (*Array, error) {
	v, err := Binary(op, a, o)
	if err != nil {
		return nil, err
	}
	return v.(*Array), nil
}

func (a *Array) IAdd(o Value) error { return a.inplace(ufunc.Add, o) }

func (a *Array) ISub(o Value) error { return a.inplace(ufunc.Subtract, o) }

func (a *Array) IMod(o Value) error { return a.inplace(ufunc.Mod, o) }

// IMul multiplies in place. A view rejects any operand with a unit.
func (a *Array) IMul(o Value) error { return a.inplace(ufunc.Multiply, o) }

func (a *Array) IDiv(o Value) error { return a.inplace(ufunc.TrueDivide, o) }

// IPow raises a to o in place. A view only accepts the exponent 1.
func (a *Array) IPow(o Value) error { return a.inplace(ufunc.Power, o) }

func (a *Array) inplace(op ufunc.Op, o Value) error {
	e, err := lookup(op, 2)
	if err != nil {
		return err
	}
	src := asArray(o)
	u, err := e.Rule(ufunc.Arg{Unit: a.unit}, operandArg(op, src))
	if err != nil {
		return err
	}
	if err := a.protect(op.String(), u); err != nil {
		return err
	}
	if op == ufunc.Power && a.IsView() && !unitExponent(src) {
		return fmt.Errorf("%s by %v on a view: %w", op, src.data.Values(), units.ErrViewMutation)
	}
	if err := ndarray.ZipInto(a.data, src.data, e.Binary); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.unit = u
	return nil
}

// unitExponent reports whether every exponent in e is exactly 1.
func unitExponent(e *Array) bool {
	for _, v := range e.data.Values() {
		if v != 1 {
			return false
		}
	}
	return true
}

// protect rejects a unit change on a view.
func (a *Array) protect(op string, next units.Unit) error {
	if a.IsView() && !units.Equal(a.unit, next) {
		return fmt.Errorf("%s [%s] -> [%s]: %w", op, units.Format(a.unit), units.Format(next), units.ErrViewMutation)
	}
	return nil
}

func (a *Array) Lt(o Value) (*ndarray.Mask, error) { return Compare(Less, a, o) }

func (a *Array) Le(o Value) (*ndarray.Mask, error) { return Compare(LessEqual, a, o) }

func (a *Array) Gt(o Value) (*ndarray.Mask, error) { return Compare(Greater, a, o) }

func (a *Array) Ge(o Value) (*ndarray.Mask, error) { return Compare(GreaterEqual, a, o) }

// Eq compares element-wise. Different units give an all-false mask rather
// than an error; only a shape mismatch fails.
func (a *Array) Eq(o Value) (*ndarray.Mask, error) { return Compare(Equal, a, o) }

func (a *Array) Ne(o Value) (*ndarray.Mask, error) { return Compare(NotEqual, a, o) }

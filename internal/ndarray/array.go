package ndarray

import (
	"fmt"
	"strconv"
	"strings"
)

// Array is a strided view onto a float64 buffer.
type Array struct {
	data    []float64
	shape   []int
	strides []int
	offset  int
	base    *Array
}

// New copies data into a new array of the given shape. Without a shape the
// array is one-dimensional.
func New(data []float64, shape ...int) (*Array, error) {
	if len(shape) == 0 && data != nil {
		shape = []int{len(data)}
	}
	n, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShape, len(data), shape)
	}
	buf := make([]float64, n)
	copy(buf, data)
	return owned(buf, shape), nil
}

// MustNew is like New but panics on error.
func MustNew(data []float64, shape ...int) *Array {
	a, err := New(data, shape...)
	if err != nil {
		panic(err)
	}
	return a
}

// FromSlice wraps a copy of data as a one-dimensional array.
func FromSlice(data []float64) *Array {
	buf := make([]float64, len(data))
	copy(buf, data)
	return owned(buf, []int{len(data)})
}

// Scalar returns a zero-dimensional array holding v.
func Scalar(v float64) *Array {
	return owned([]float64{v}, nil)
}

// Zeros returns a new array of the given shape filled with zeros.
func Zeros(shape ...int) *Array {
	n, err := sizeOf(shape)
	if err != nil {
		panic(err)
	}
	return owned(make([]float64, n), shape)
}

// Full returns a new array of the given shape filled with v.
func Full(v float64, shape ...int) *Array {
	a := Zeros(shape...)
	for i := range a.data {
		a.data[i] = v
	}
	return a
}

// Arange returns [0, 1, ..., n-1].
func Arange(n int) *Array {
	a := Zeros(n)
	for i := range a.data {
		a.data[i] = float64(i)
	}
	return a
}

func owned(buf []float64, shape []int) *Array {
	shp := append([]int(nil), shape...)
	return &Array{data: buf, shape: shp, strides: contiguousStrides(shp)}
}

func sizeOf(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in %v", ErrShape, shape)
		}
		n *= d
	}
	return n, nil
}

func contiguousStrides(shape []int) []int {
	strides := make([]int, len(shape))
	s := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = s
		s *= shape[i]
	}
	return strides
}

// Shape returns a copy of the array's dimensions.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

func (a *Array) Ndim() int { return len(a.shape) }

func (a *Array) Size() int {
	n, _ := sizeOf(a.shape)
	return n
}

// IsView reports whether a borrows its buffer from another array.
func (a *Array) IsView() bool { return a.base != nil }

// Base returns the array owning a's buffer, or nil if a owns it.
func (a *Array) Base() *Array { return a.base }

// SharesBuffer reports whether a and b read from the same buffer.
func (a *Array) SharesBuffer(b *Array) bool {
	if len(a.data) == 0 || len(b.data) == 0 {
		return false
	}
	return &a.data[0] == &b.data[0]
}

func (a *Array) contiguous() bool {
	want := contiguousStrides(a.shape)
	for i, d := range a.shape {
		if d > 1 && a.strides[i] != want[i] {
			return false
		}
	}
	return true
}

// each calls fn with the logical index and buffer position of every element
// in row-major order.
func (a *Array) each(fn func(i, pos int)) {
	n := a.Size()
	idx := make([]int, len(a.shape))
	pos := a.offset
	for i := 0; i < n; i++ {
		fn(i, pos)
		for ax := len(a.shape) - 1; ax >= 0; ax-- {
			idx[ax]++
			pos += a.strides[ax]
			if idx[ax] < a.shape[ax] {
				break
			}
			pos -= a.strides[ax] * a.shape[ax]
			idx[ax] = 0
		}
	}
}

func (a *Array) positions() []int {
	p := make([]int, 0, a.Size())
	a.each(func(_, pos int) { p = append(p, pos) })
	return p
}

func (a *Array) position(idx []int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, fmt.Errorf("%w: %d indices for %d-d array", ErrIndex, len(idx), len(a.shape))
	}
	pos := a.offset
	for ax, i := range idx {
		j, err := normIndex(i, a.shape[ax])
		if err != nil {
			return 0, err
		}
		pos += j * a.strides[ax]
	}
	return pos, nil
}

func normIndex(i, n int) (int, error) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d with size %d", ErrIndex, i, n)
	}
	return i, nil
}

// At returns the element at idx. Negative indices count from the end.
func (a *Array) At(idx ...int) (float64, error) {
	pos, err := a.position(idx)
	if err != nil {
		return 0, err
	}
	return a.data[pos], nil
}

// SetAt stores v at idx.
func (a *Array) SetAt(v float64, idx ...int) error {
	pos, err := a.position(idx)
	if err != nil {
		return err
	}
	a.data[pos] = v
	return nil
}

// Item returns the only element of a size-1 array.
func (a *Array) Item() (float64, error) {
	if a.Size() != 1 {
		return 0, fmt.Errorf("%w: item of array with %d elements", ErrShape, a.Size())
	}
	return a.data[a.offset], nil
}

// Values returns the elements in row-major order as a new slice.
func (a *Array) Values() []float64 {
	n := a.Size()
	out := make([]float64, n)
	if a.contiguous() {
		copy(out, a.data[a.offset:a.offset+n])
		return out
	}
	a.each(func(i, pos int) { out[i] = a.data[pos] })
	return out
}

// Copy returns a contiguous array that owns its buffer.
func (a *Array) Copy() *Array {
	return owned(a.Values(), a.shape)
}

// Fill sets every element to v.
func (a *Array) Fill(v float64) {
	a.each(func(_, pos int) { a.data[pos] = v })
}

// ToList converts the array to nested []any of float64. A zero-dimensional
// array yields a bare float64.
func (a *Array) ToList() any {
	vals := a.Values()
	if len(a.shape) == 0 {
		return vals[0]
	}
	return nest(vals, a.shape)
}

func nest(vals []float64, shape []int) []any {
	out := make([]any, shape[0])
	if len(shape) == 1 {
		for i := range out {
			out[i] = vals[i]
		}
		return out
	}
	step := len(vals) / max(shape[0], 1)
	for i := range out {
		out[i] = nest(vals[i*step:(i+1)*step], shape[1:])
	}
	return out
}

func (a *Array) String() string {
	var b strings.Builder
	writeNested(&b, a.Values(), a.shape, func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	})
	return b.String()
}

func writeNested[T any](b *strings.Builder, vals []T, shape []int, format func(T) string) {
	if len(shape) == 0 {
		b.WriteString(format(vals[0]))
		return
	}
	b.WriteByte('[')
	step := 1
	if shape[0] > 0 {
		step = len(vals) / shape[0]
	}
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeNested(b, vals[i*step:(i+1)*step], shape[1:], format)
	}
	b.WriteByte(']')
}

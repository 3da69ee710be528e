package ndarray

import "fmt"

// Map applies f to every element and returns the results as a new array.
func (a *Array) Map(f func(float64) float64) *Array {
	out := a.Values()
	for i, v := range out {
		out[i] = f(v)
	}
	return owned(out, a.shape)
}

// Apply replaces every element of a with f of itself.
func (a *Array) Apply(f func(float64) float64) {
	a.each(func(_, pos int) { a.data[pos] = f(a.data[pos]) })
}

// Zip applies f element-wise to the broadcast of a and b.
func Zip(a, b *Array, f func(x, y float64) float64) (*Array, error) {
	av, bv, shape, err := broadcastPair(a, b)
	if err != nil {
		return nil, err
	}
	pa, pb := av.positions(), bv.positions()
	out := make([]float64, len(pa))
	for i := range out {
		out[i] = f(av.data[pa[i]], bv.data[pb[i]])
	}
	return owned(out, shape), nil
}

// ZipInto updates dst in place with f(dst, src). src must broadcast to
// dst's shape; dst itself is never stretched.
func ZipInto(dst, src *Array, f func(x, y float64) float64) error {
	sv, err := src.broadcastTo(dst.shape)
	if err != nil {
		return fmt.Errorf("%w: cannot write %v into %v", ErrBroadcast, src.shape, dst.shape)
	}
	// src may alias dst; read it completely before writing.
	vals := sv.Values()
	dst.each(func(i, pos int) { dst.data[pos] = f(dst.data[pos], vals[i]) })
	return nil
}

// Assign copies src into dst with broadcasting.
func Assign(dst, src *Array) error {
	return ZipInto(dst, src, func(_, y float64) float64 { return y })
}

// Compare applies the predicate f element-wise to the broadcast of a and b.
func Compare(a, b *Array, f func(x, y float64) bool) (*Mask, error) {
	av, bv, shape, err := broadcastPair(a, b)
	if err != nil {
		return nil, err
	}
	pa, pb := av.positions(), bv.positions()
	m := NewMask(false, shape...)
	for i := range m.data {
		m.data[i] = f(av.data[pa[i]], bv.data[pb[i]])
	}
	return m, nil
}

func broadcastPair(a, b *Array) (*Array, *Array, []int, error) {
	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, nil, nil, err
	}
	av, err := a.broadcastTo(shape)
	if err != nil {
		return nil, nil, nil, err
	}
	bv, err := b.broadcastTo(shape)
	if err != nil {
		return nil, nil, nil, err
	}
	return av, bv, shape, nil
}

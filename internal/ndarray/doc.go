// Package ndarray provides the strided N-dimensional float64 arrays that
// quantities are layered on.
//
// An [Array] is a handle onto a shared buffer described by a shape, strides
// and an offset. Slicing, integer indexing and contiguous reshapes return
// views that share the buffer with the array they were taken from:
//
//	a := ndarray.Arange(6)
//	v, _ := a.Slice(ndarray.Span(0, 2))
//	v.Fill(0) // a is now [0 0 2 3 4 5]
//
// Binary element-wise operations follow numpy broadcasting rules. Full
// reductions are delegated to gonum's floats and stat packages.
//
// Arrays are not safe for concurrent mutation.
package ndarray

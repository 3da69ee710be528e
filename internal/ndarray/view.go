package ndarray

import (
	"fmt"
	"math"
)

// End as a Range stop means "through the last element".
const End = math.MaxInt

// Range selects Start:Stop:Step along one axis. Negative Start and Stop
// count from the end; a zero Step means 1.
type Range struct {
	Start, Stop, Step int
}

// Span selects [start, stop).
func Span(start, stop int) Range { return Range{Start: start, Stop: stop, Step: 1} }

// Every selects every element along an axis.
func Every() Range { return Range{Start: 0, Stop: End, Step: 1} }

// Strided selects [start, stop) with the given step.
func Strided(start, stop, step int) Range { return Range{Start: start, Stop: stop, Step: step} }

// resolve clamps r against an axis of length n the way Python slices do and
// returns the start offset and element count.
func (r Range) resolve(n int) (start, count, step int, err error) {
	step = r.Step
	if step == 0 {
		step = 1
	}
	if step < 0 {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrStep, step)
	}
	start, stop := clampBound(r.Start, n), clampBound(r.Stop, n)
	if stop <= start {
		return start, 0, step, nil
	}
	return start, (stop - start + step - 1) / step, step, nil
}

func clampBound(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			i = 0
		}
	}
	if i > n {
		i = n
	}
	return i
}

func (a *Array) view(shape, strides []int, offset int) *Array {
	owner := a
	if a.base != nil {
		owner = a.base
	}
	return &Array{data: a.data, shape: shape, strides: strides, offset: offset, base: owner}
}

// Slice returns a view selecting ranges along the leading axes. Axes beyond
// len(ranges) are kept whole.
func (a *Array) Slice(ranges ...Range) (*Array, error) {
	if len(ranges) > len(a.shape) {
		return nil, fmt.Errorf("%w: %d ranges for %d-d array", ErrIndex, len(ranges), len(a.shape))
	}
	shape := a.Shape()
	strides := append([]int(nil), a.strides...)
	offset := a.offset
	for ax, r := range ranges {
		start, count, step, err := r.resolve(a.shape[ax])
		if err != nil {
			return nil, err
		}
		offset += start * a.strides[ax]
		shape[ax] = count
		strides[ax] = a.strides[ax] * step
	}
	return a.view(shape, strides, offset), nil
}

// Index returns the view at position i along axis 0, dropping that axis.
// Indexing a one-dimensional array yields a zero-dimensional view.
func (a *Array) Index(i int) (*Array, error) {
	if len(a.shape) == 0 {
		return nil, fmt.Errorf("%w: cannot index a 0-d array", ErrIndex)
	}
	j, err := normIndex(i, a.shape[0])
	if err != nil {
		return nil, err
	}
	return a.view(a.Shape()[1:], append([]int(nil), a.strides[1:]...), a.offset+j*a.strides[0]), nil
}

// Take gathers the elements at the given flat indices into a new array.
func (a *Array) Take(indices []int) (*Array, error) {
	vals := a.Values()
	out := make([]float64, len(indices))
	for k, i := range indices {
		j, err := normIndex(i, len(vals))
		if err != nil {
			return nil, err
		}
		out[k] = vals[j]
	}
	return owned(out, []int{len(out)}), nil
}

// Reshape returns an array with the same elements and a new shape. One
// dimension may be -1 and is inferred. Contiguous arrays are reshaped as
// views; others are copied.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	shp := append([]int(nil), shape...)
	infer := -1
	known := 1
	for i, d := range shp {
		switch {
		case d == -1 && infer < 0:
			infer = i
		case d < 0:
			return nil, fmt.Errorf("%w: %v", ErrShape, shape)
		default:
			known *= d
		}
	}
	n := a.Size()
	if infer >= 0 {
		if known == 0 || n%known != 0 {
			return nil, fmt.Errorf("%w: cannot reshape %d elements into %v", ErrShape, n, shape)
		}
		shp[infer] = n / known
		known = n
	}
	if known != n {
		return nil, fmt.Errorf("%w: cannot reshape %d elements into %v", ErrShape, n, shape)
	}
	if a.contiguous() {
		return a.view(shp, contiguousStrides(shp), a.offset), nil
	}
	return owned(a.Values(), shp), nil
}

// Flatten returns a one-dimensional copy.
func (a *Array) Flatten() *Array {
	return owned(a.Values(), []int{a.Size()})
}

// BroadcastShapes returns the shape two operands broadcast to.
func BroadcastShapes(a, b []int) ([]int, error) {
	n := max(len(a), len(b))
	out := make([]int, n)
	for i := 0; i < n; i++ {
		da, db := dimFromEnd(a, n-1-i), dimFromEnd(b, n-1-i)
		switch {
		case da == db, db == 1:
			out[i] = da
		case da == 1:
			out[i] = db
		default:
			return nil, fmt.Errorf("%w: %v and %v", ErrBroadcast, a, b)
		}
	}
	return out, nil
}

func dimFromEnd(shape []int, k int) int {
	if k >= len(shape) {
		return 1
	}
	return shape[len(shape)-1-k]
}

// broadcastTo returns a read-only view of a stretched to shape.
func (a *Array) broadcastTo(shape []int) (*Array, error) {
	if len(shape) < len(a.shape) {
		return nil, fmt.Errorf("%w: %v to %v", ErrBroadcast, a.shape, shape)
	}
	lead := len(shape) - len(a.shape)
	strides := make([]int, len(shape))
	for i := range shape {
		if i < lead {
			continue
		}
		d := a.shape[i-lead]
		switch {
		case d == shape[i]:
			strides[i] = a.strides[i-lead]
		case d == 1:
			strides[i] = 0
		default:
			return nil, fmt.Errorf("%w: %v to %v", ErrBroadcast, a.shape, shape)
		}
	}
	return &Array{data: a.data, shape: append([]int(nil), shape...), strides: strides, offset: a.offset, base: a}, nil
}

// moveAxisLast returns a view with axis moved to the end.
func (a *Array) moveAxisLast(axis int) *Array {
	shape := make([]int, 0, len(a.shape))
	strides := make([]int, 0, len(a.shape))
	for i := range a.shape {
		if i != axis {
			shape = append(shape, a.shape[i])
			strides = append(strides, a.strides[i])
		}
	}
	shape = append(shape, a.shape[axis])
	strides = append(strides, a.strides[axis])
	return &Array{data: a.data, shape: shape, strides: strides, offset: a.offset, base: a}
}

func normAxis(axis, ndim int) (int, error) {
	if axis < 0 {
		axis += ndim
	}
	if axis < 0 || axis >= ndim {
		return 0, fmt.Errorf("%w: %d for %d-d array", ErrAxis, axis, ndim)
	}
	return axis, nil
}

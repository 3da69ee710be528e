package ndarray

import (
	"strconv"
	"strings"
)

// Mask is a dense boolean array produced by comparisons.
type Mask struct {
	data  []bool
	shape []int
}

// NewMask returns a mask of the given shape with every element set to v.
func NewMask(v bool, shape ...int) *Mask {
	n, err := sizeOf(shape)
	if err != nil {
		panic(err)
	}
	m := &Mask{data: make([]bool, n), shape: append([]int(nil), shape...)}
	if v {
		for i := range m.data {
			m.data[i] = true
		}
	}
	return m
}

func (m *Mask) Shape() []int { return append([]int(nil), m.shape...) }

func (m *Mask) Size() int { return len(m.data) }

// At returns the element at idx in row-major coordinates.
func (m *Mask) At(idx ...int) (bool, error) {
	if len(idx) != len(m.shape) {
		return false, ErrIndex
	}
	strides := contiguousStrides(m.shape)
	pos := 0
	for ax, i := range idx {
		j, err := normIndex(i, m.shape[ax])
		if err != nil {
			return false, err
		}
		pos += j * strides[ax]
	}
	return m.data[pos], nil
}

// All reports whether every element is true. An empty mask is all true.
func (m *Mask) All() bool {
	for _, v := range m.data {
		if !v {
			return false
		}
	}
	return true
}

// Any reports whether at least one element is true.
func (m *Mask) Any() bool {
	for _, v := range m.data {
		if v {
			return true
		}
	}
	return false
}

// Values returns the elements in row-major order.
func (m *Mask) Values() []bool { return append([]bool(nil), m.data...) }

func (m *Mask) String() string {
	var b strings.Builder
	writeNested(&b, m.data, m.shape, strconv.FormatBool)
	return b.String()
}

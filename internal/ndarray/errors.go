package ndarray

import "errors"

var (
	// ErrShape indicates a data length or shape that does not fit.
	ErrShape = errors.New("ndarray: invalid shape")

	// ErrBroadcast indicates operands whose shapes cannot be broadcast together.
	ErrBroadcast = errors.New("ndarray: shapes cannot be broadcast together")

	// ErrIndex indicates an index outside the array bounds.
	ErrIndex = errors.New("ndarray: index out of range")

	// ErrAxis indicates an axis outside [-ndim, ndim).
	ErrAxis = errors.New("ndarray: axis out of range")

	// ErrEmpty indicates a reduction without an identity applied to an empty array.
	ErrEmpty = errors.New("ndarray: empty array")

	// ErrStep indicates a slice step that is not positive.
	ErrStep = errors.New("ndarray: slice step must be positive")
)

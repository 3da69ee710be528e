package units

import (
	"errors"
	"fmt"
)

// Error kinds shared by every package that does unit arithmetic.
var (
	// ErrIncompatibleUnits indicates two units that must be equal are not.
	ErrIncompatibleUnits = errors.New("units: incompatible units")

	// ErrViewMutation indicates an in-place operation would change the unit of a view.
	ErrViewMutation = errors.New("units: cannot modify units of a view")

	// ErrNonUniformPower indicates an array-valued exponent with more than one distinct value.
	ErrNonUniformPower = errors.New("units: quantities must be raised to a uniform power")

	// ErrNotDimensionless indicates an operation that is only defined for dimensionless operands.
	ErrNotDimensionless = errors.New("units: quantity must be dimensionless")

	// ErrParse indicates a malformed unit string.
	ErrParse = errors.New("units: cannot parse unit")

	// ErrUnsupportedOp indicates an elementwise operation without a unit rule.
	ErrUnsupportedOp = errors.New("units: operation not supported")
)

// IncompatibleUnitError carries both formatted units of a failed equality check.
type IncompatibleUnitError struct {
	Op    string
	Left  string
	Right string
}

func (e *IncompatibleUnitError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("the two units [%s] and [%s] are not the same", e.Left, e.Right)
	}
	return fmt.Sprintf("%s: the two units [%s] and [%s] are not the same", e.Op, e.Left, e.Right)
}

func (e *IncompatibleUnitError) Unwrap() error {
	return ErrIncompatibleUnits
}

// DimensionError reports a non-dimensionless operand.
type DimensionError struct {
	Op   string
	Unit string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: expected a dimensionless quantity, got [%s]", e.Op, e.Unit)
}

func (e *DimensionError) Unwrap() error {
	return ErrNotDimensionless
}

// ParseError reports a unit string that does not follow the
// "<numerator> / <denominator>" grammar.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("units: cannot parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// UnsupportedOperationError names an operation that has no unit rule.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %s not supported by units", e.Op)
}

func (e *UnsupportedOperationError) Unwrap() error {
	return ErrUnsupportedOp
}

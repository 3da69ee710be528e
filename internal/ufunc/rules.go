package ufunc

import (
	"fmt"

	"github.com/san-kum/ufloat/internal/units"
)

func multiplyRule(args ...Arg) (units.Unit, error) {
	return units.Multiply(args[0].Unit, args[1].Unit), nil
}

func divideRule(args ...Arg) (units.Unit, error) {
	return units.Divide(args[0].Unit, args[1].Unit), nil
}

// sameUnitRule requires both operands to carry the same unit and passes it
// through unchanged.
func sameUnitRule(name string) Rule {
	return func(args ...Arg) (units.Unit, error) {
		if !units.Equal(args[0].Unit, args[1].Unit) {
			return units.Unit{}, &units.IncompatibleUnitError{
				Op:    name,
				Left:  units.Format(args[0].Unit),
				Right: units.Format(args[1].Unit),
			}
		}
		return args[0].Unit, nil
	}
}

// powerRule raises the base unit to the exponent operand, which must be
// dimensionless and hold a single distinct value.
func powerRule(args ...Arg) (units.Unit, error) {
	base, exp := args[0], args[1]
	if !exp.Unit.IsDimensionless() {
		return units.Unit{}, &units.DimensionError{Op: "power exponent", Unit: units.Format(exp.Unit)}
	}
	if base.Unit.IsDimensionless() {
		return units.Unit{}, nil
	}
	p, err := units.Uniform(exp.Values)
	if err != nil {
		return units.Unit{}, fmt.Errorf("power: %w", err)
	}
	return units.Power(base.Unit, p), nil
}

func scaleRule(p float64) Rule {
	return func(args ...Arg) (units.Unit, error) {
		return units.Power(args[0].Unit, p), nil
	}
}

func copyRule(args ...Arg) (units.Unit, error) {
	return args[0].Unit, nil
}

// dimensionlessRule requires every operand to be dimensionless.
func dimensionlessRule(name string) Rule {
	return func(args ...Arg) (units.Unit, error) {
		for _, a := range args {
			if !a.Unit.IsDimensionless() {
				return units.Unit{}, &units.DimensionError{Op: name, Unit: units.Format(a.Unit)}
			}
		}
		return units.Unit{}, nil
	}
}

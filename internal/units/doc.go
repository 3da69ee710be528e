// Package units implements the exponent bookkeeping behind physical units.
//
// A [Unit] maps unit symbols ("m", "s", "V") to exponents:
//
//   - [Multiply] and [Divide] add or subtract exponents
//   - [Power] scales every exponent
//   - [Equal] compares simplified units independent of term order
//   - [Format] and [Parse] convert to and from strings such as "m / s**2"
//
// There is no conversion between related units. Scale factors between
// e.g. "ms" and "s" live in the catalog as plain quantity values.
//
// # Example
//
//	accel := units.Divide(units.Of("m"), units.Power(units.Of("s"), 2))
//	fmt.Println(accel) // m / s**2
//
// All functions are pure; a Unit is never mutated after construction.
package units

package catalog

import (
	"fmt"

	"gonum.org/v1/gonum/unit"

	"github.com/san-kum/ufloat/internal/quantity"
	"github.com/san-kum/ufloat/internal/units"
)

var siDimensions = []unit.Dimension{
	unit.CurrentDim,
	unit.LengthDim,
	unit.LuminousIntensityDim,
	unit.MassDim,
	unit.MoleDim,
	unit.TemperatureDim,
	unit.TimeDim,
	unit.AngleDim,
}

// FromGonum converts a gonum unit value, e.g. unit.Length(3) or a derived
// *unit.Unit, into a quantity using gonum's SI symbols.
func FromGonum(u unit.Uniter) quantity.Value {
	gu := u.Unit()
	exps := make(map[string]float64)
	for dim, p := range gu.Dimensions() {
		exps[dim.String()] = float64(p)
	}
	return quantity.MustMake(gu.Value(), units.FromMap(exps))
}

// ToGonum converts a scalar quantity back into a gonum unit. Every symbol
// must be an SI base symbol with an integer exponent.
func ToGonum(v quantity.Value) (*unit.Unit, error) {
	f, ok := quantity.Float(v)
	if !ok {
		return nil, fmt.Errorf("catalog: %v is not a scalar", v)
	}
	bySymbol := make(map[string]unit.Dimension, len(siDimensions))
	for _, d := range siDimensions {
		bySymbol[d.String()] = d
	}
	dims := unit.Dimensions{}
	for _, t := range v.Unit().Terms() {
		d, ok := bySymbol[t.Symbol]
		if !ok {
			return nil, fmt.Errorf("catalog: %q is not an SI base symbol", t.Symbol)
		}
		p := int(t.Exp)
		if float64(p) != t.Exp {
			return nil, fmt.Errorf("catalog: gonum units need integer exponents, got %s**%g", t.Symbol, t.Exp)
		}
		dims[d] = p
	}
	return unit.New(f, dims), nil
}

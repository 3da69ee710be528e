package units

import (
	"math"
	"sort"
)

// Term is one symbol of a unit together with its exponent.
type Term struct {
	Symbol string
	Exp    float64
}

// Unit is an ordered set of terms. The zero value is dimensionless.
//
// Terms keep insertion order so that formatting follows the order in which
// symbols entered the unit. Zero exponents are never stored.
type Unit struct {
	terms []Term
}

// Dimensionless is the empty unit.
var Dimensionless = Unit{}

// New builds a unit from terms. Repeated symbols accumulate and zero
// exponents are dropped.
func New(terms ...Term) Unit {
	var u Unit
	for _, t := range terms {
		u = u.add(t.Symbol, t.Exp)
	}
	return u
}

// Of returns the unit consisting of a single symbol with exponent 1.
func Of(symbol string) Unit {
	return New(Term{Symbol: symbol, Exp: 1})
}

// FromMap builds a unit from a symbol->exponent map. Map iteration order is
// random, so symbols are added in sorted order.
func FromMap(m map[string]float64) Unit {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	terms := make([]Term, 0, len(keys))
	for _, k := range keys {
		terms = append(terms, Term{Symbol: k, Exp: m[k]})
	}
	return New(terms...)
}

// Map returns a copy of the unit as a symbol->exponent map.
func (u Unit) Map() map[string]float64 {
	m := make(map[string]float64, len(u.terms))
	for _, t := range u.terms {
		m[t.Symbol] = t.Exp
	}
	return m
}

// Terms returns a copy of the unit's terms in insertion order.
func (u Unit) Terms() []Term {
	out := make([]Term, len(u.terms))
	copy(out, u.terms)
	return out
}

// Exp returns the exponent of symbol, 0 if absent.
func (u Unit) Exp(symbol string) float64 {
	if i := u.index(symbol); i >= 0 {
		return u.terms[i].Exp
	}
	return 0
}

func (u Unit) Len() int { return len(u.terms) }

func (u Unit) IsDimensionless() bool { return len(u.terms) == 0 }

func (u Unit) String() string { return Format(u) }

func (u Unit) index(symbol string) int {
	for i, t := range u.terms {
		if t.Symbol == symbol {
			return i
		}
	}
	return -1
}

// add returns u with exp added to symbol. The receiver is left untouched.
func (u Unit) add(symbol string, exp float64) Unit {
	out := make([]Term, len(u.terms), len(u.terms)+1)
	copy(out, u.terms)

	i := u.index(symbol)
	switch {
	case i < 0 && exp != 0:
		out = append(out, Term{Symbol: symbol, Exp: exp})
	case i >= 0:
		out[i].Exp += exp
		if out[i].Exp == 0 {
			out = append(out[:i], out[i+1:]...)
		}
	}
	if len(out) == 0 {
		return Unit{}
	}
	return Unit{terms: out}
}

// Multiply combines two units by adding exponents of shared symbols.
func Multiply(u1, u2 Unit) Unit {
	out := u1
	for _, t := range u2.terms {
		out = out.add(t.Symbol, t.Exp)
	}
	return out
}

// Divide combines two units by subtracting u2's exponents from u1's.
func Divide(u1, u2 Unit) Unit {
	out := u1
	for _, t := range u2.terms {
		out = out.add(t.Symbol, -t.Exp)
	}
	return out
}

// Power multiplies every exponent by p. Power(u, 0) is dimensionless.
func Power(u Unit, p float64) Unit {
	if p == 0 || u.IsDimensionless() {
		return Unit{}
	}
	out := make([]Term, len(u.terms))
	for i, t := range u.terms {
		out[i] = Term{Symbol: t.Symbol, Exp: t.Exp * p}
	}
	return Unit{terms: out}
}

// PowerUniform raises u to an array-valued exponent whose elements must all
// be equal.
func PowerUniform(u Unit, ps []float64) (Unit, error) {
	p, err := Uniform(ps)
	if err != nil {
		return Unit{}, err
	}
	return Power(u, p), nil
}

// Uniform returns the single value held by ps, failing with
// ErrNonUniformPower when min != max or ps is empty.
func Uniform(ps []float64) (float64, error) {
	if len(ps) == 0 {
		return 0, ErrNonUniformPower
	}
	lo, hi := ps[0], ps[0]
	for _, p := range ps[1:] {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	if lo != hi {
		return 0, ErrNonUniformPower
	}
	return lo, nil
}

// Simplify drops zero-exponent terms. Units built through this package are
// already simple; Simplify exists for units assembled from raw terms.
func Simplify(u Unit) Unit {
	var out []Term
	for _, t := range u.terms {
		if t.Exp != 0 {
			out = append(out, t)
		}
	}
	return Unit{terms: out}
}

// Equal reports whether u1 and u2 hold the same symbols with the same
// exponents, regardless of order.
func Equal(u1, u2 Unit) bool {
	a, b := Simplify(u1), Simplify(u2)
	if len(a.terms) != len(b.terms) {
		return false
	}
	for _, t := range a.terms {
		i := b.index(t.Symbol)
		if i < 0 || b.terms[i].Exp != t.Exp {
			return false
		}
	}
	return true
}

// CheckCompatible fails with *IncompatibleUnitError when u1 and u2 differ.
func CheckCompatible(u1, u2 Unit) error {
	if Equal(u1, u2) {
		return nil
	}
	return &IncompatibleUnitError{Left: Format(u1), Right: Format(u2)}
}

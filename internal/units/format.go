package units

import (
	"math"
	"strconv"
	"strings"
)

// Format renders u as "<numerator> / <denominator>".
//
// Positive exponents form the numerator, negative ones the denominator by
// absolute value. Exponent 1 is rendered bare, anything else as sym**exp.
// An empty numerator under a non-empty denominator renders as "1" and the
// dimensionless unit renders as "".
func Format(u Unit) string {
	var num, den []string
	for _, t := range u.terms {
		switch {
		case t.Exp > 0:
			num = append(num, formatTerm(t.Symbol, t.Exp))
		case t.Exp < 0:
			den = append(den, formatTerm(t.Symbol, -t.Exp))
		}
	}

	if len(den) == 0 {
		return strings.Join(num, " ")
	}
	if len(num) == 0 {
		num = []string{"1"}
	}
	return strings.Join(num, " ") + " / " + strings.Join(den, " ")
}

func formatTerm(symbol string, exp float64) string {
	if exp == 1 {
		return symbol
	}
	return symbol + "**" + formatExp(exp)
}

func formatExp(exp float64) string {
	if exp == math.Trunc(exp) && math.Abs(exp) < 1e15 {
		return strconv.FormatInt(int64(exp), 10)
	}
	return strconv.FormatFloat(exp, 'g', -1, 64)
}

// Parse is the inverse of Format. Parse(Format(u)) is Equal to u, although
// re-formatting the result may order terms differently.
func Parse(s string) (Unit, error) {
	sides := strings.Split(s, "/")
	if len(sides) > 2 {
		return Unit{}, &ParseError{Input: s, Reason: "more than one '/'"}
	}

	var u Unit
	for side, text := range sides {
		sign := 1.0
		if side == 1 {
			sign = -1
		}
		for _, tok := range strings.Fields(text) {
			if tok == "1" {
				continue
			}
			sym, exp, err := parseTerm(tok)
			if err != nil {
				return Unit{}, &ParseError{Input: s, Reason: err.Error()}
			}
			u = u.add(sym, sign*exp)
		}
	}
	return u, nil
}

type termError string

func (e termError) Error() string { return string(e) }

func parseTerm(tok string) (string, float64, error) {
	sym, expText, hasExp := strings.Cut(tok, "**")
	if sym == "" {
		return "", 0, termError("missing symbol in " + strconv.Quote(tok))
	}
	if strings.ContainsAny(sym, "*()") {
		return "", 0, termError("invalid symbol " + strconv.Quote(sym))
	}
	if !hasExp {
		return sym, 1, nil
	}
	exp, err := strconv.ParseFloat(expText, 64)
	if err != nil || math.IsInf(exp, 0) || math.IsNaN(exp) {
		return "", 0, termError("invalid exponent " + strconv.Quote(expText))
	}
	return sym, exp, nil
}

// MustParse is like Parse but panics on error. It is meant for package-level
// unit literals.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

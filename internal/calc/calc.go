// Package calc evaluates arithmetic expressions over quantities.
//
//	9.81 * m / s**2
//	sqrt(2 * 9.81*m/s**2 * 10*m)
//	[1, 2, 3] * mV < 2.5 * mV
//
// Identifiers are resolved through an Env, usually a unit catalog. The
// identifier _ refers to the previous result of an Evaluator.
package calc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/ufloat/internal/ndarray"
	"github.com/san-kum/ufloat/internal/quantity"
)

// ErrUndefined is returned for identifiers the Env does not know.
var ErrUndefined = errors.New("calc: undefined name")

// SyntaxError reports malformed input at a byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("calc: %s at position %d", e.Msg, e.Pos)
}

// Env resolves identifiers to values.
type Env interface {
	Lookup(name string) (quantity.Value, bool)
}

// MapEnv is an Env backed by a map.
type MapEnv map[string]quantity.Value

func (m MapEnv) Lookup(name string) (quantity.Value, bool) {
	v, ok := m[name]
	return v, ok
}

// Result is the outcome of one evaluation: a value, or a mask for a
// comparison.
type Result struct {
	Value quantity.Value
	Mask  *ndarray.Mask
}

// IsComparison reports whether the result came from a comparison.
func (r Result) IsComparison() bool { return r.Mask != nil }

// Bool returns the truth value of a scalar comparison.
func (r Result) Bool() (bool, bool) {
	if r.Mask == nil || r.Mask.Size() != 1 {
		return false, false
	}
	return r.Mask.All(), true
}

func (r Result) String() string {
	switch {
	case r.Mask != nil && len(r.Mask.Shape()) == 0:
		b, _ := r.Bool()
		return fmt.Sprint(b)
	case r.Mask != nil:
		return r.Mask.String()
	case r.Value != nil:
		return r.Value.String()
	}
	return ""
}

// Evaluator evaluates expressions one after another and remembers the last
// value for _.
type Evaluator struct {
	env  Env
	last quantity.Value
}

func New(env Env) *Evaluator {
	if env == nil {
		env = MapEnv{}
	}
	return &Evaluator{env: env}
}

// Last returns the most recent value result, or nil.
func (e *Evaluator) Last() quantity.Value { return e.last }

// Eval evaluates src. A successful value result becomes the new _.
func (e *Evaluator) Eval(src string) (Result, error) {
	if strings.TrimSpace(src) == "" {
		return Result{}, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	toks, err := tokenize(src)
	if err != nil {
		return Result{}, err
	}
	p := &parser{toks: toks, env: e.env, last: e.last}
	r, err := p.parseComparison()
	if err != nil {
		return Result{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return Result{}, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
	if r.Value != nil {
		e.last = r.Value
	}
	return r, nil
}

// Eval evaluates src against env and requires a value result.
func Eval(src string, env Env) (quantity.Value, error) {
	r, err := New(env).Eval(src)
	if err != nil {
		return nil, err
	}
	if r.Value == nil {
		return nil, fmt.Errorf("calc: %q is a comparison, not a value", src)
	}
	return r.Value, nil
}

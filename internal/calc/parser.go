package calc

import (
	"fmt"

	"github.com/san-kum/ufloat/internal/quantity"
	"github.com/san-kum/ufloat/internal/ufunc"
	"github.com/san-kum/ufloat/internal/units"
)

// parser evaluates while it descends:
//
//	comparison = sum [cmpop sum]
//	sum        = term {("+" | "-") term}
//	term       = unary {("*" | "/" | "%") unary}
//	unary      = ("-" | "+") unary | power
//	power      = primary ["**" unary]
//	primary    = number | name | name "(" args ")" | "(" sum ")" | "[" args "]"
type parser struct {
	toks []token
	i    int
	env  Env
	last quantity.Value
}

var comparisons = map[string]quantity.Cmp{
	"<":  quantity.Less,
	"<=": quantity.LessEqual,
	">":  quantity.Greater,
	">=": quantity.GreaterEqual,
	"==": quantity.Equal,
	"!=": quantity.NotEqual,
}

var binaryOps = map[string]func(a, b quantity.Value) (quantity.Value, error){
	"+": quantity.Add,
	"-": quantity.Sub,
	"*": quantity.Mul,
	"/": quantity.Div,
	"%": quantity.Mod,
}

// reductions are callable by name on arrays, on top of the dispatch table.
var reductions = map[string]func(a *quantity.Array) (quantity.Value, error){
	"sum":  func(a *quantity.Array) (quantity.Value, error) { return a.Sum(), nil },
	"mean": func(a *quantity.Array) (quantity.Value, error) { return a.Mean(), nil },
	"std":  func(a *quantity.Array) (quantity.Value, error) { return a.Std(), nil },
	"var":  func(a *quantity.Array) (quantity.Value, error) { return a.Var(), nil },
	"prod": func(a *quantity.Array) (quantity.Value, error) { return a.Prod(), nil },
	"min":  (*quantity.Array).Min,
	"max":  (*quantity.Array).Max,
	"ptp":  (*quantity.Array).Ptp,
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) isOp(text ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, s := range text {
		if t.text == s {
			return true
		}
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) error {
	if t := p.next(); t.kind != kind {
		return &SyntaxError{Pos: t.pos, Msg: "expected " + what}
	}
	return nil
}

func (p *parser) parseComparison() (Result, error) {
	l, err := p.parseSum()
	if err != nil {
		return Result{}, err
	}
	c, ok := comparisons[p.peek().text]
	if !ok || p.peek().kind != tokOp {
		return Result{Value: l}, nil
	}
	p.next()
	r, err := p.parseSum()
	if err != nil {
		return Result{}, err
	}
	m, err := quantity.Compare(c, l, r)
	if err != nil {
		return Result{}, err
	}
	return Result{Mask: m}, nil
}

func (p *parser) parseSum() (quantity.Value, error) {
	return p.parseLeftAssoc(p.parseTerm, "+", "-")
}

func (p *parser) parseTerm() (quantity.Value, error) {
	return p.parseLeftAssoc(p.parseUnary, "*", "/", "%")
}

func (p *parser) parseLeftAssoc(operand func() (quantity.Value, error), ops ...string) (quantity.Value, error) {
	l, err := operand()
	if err != nil {
		return nil, err
	}
	for p.isOp(ops...) {
		op := p.next().text
		r, err := operand()
		if err != nil {
			return nil, err
		}
		if l, err = binaryOps[op](l, r); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (p *parser) parseUnary() (quantity.Value, error) {
	if p.isOp("-", "+") {
		neg := p.next().text == "-"
		v, err := p.parseUnary()
		if err != nil || !neg {
			return v, err
		}
		return quantity.Unary(ufunc.Negative, v)
	}
	return p.parsePower()
}

func (p *parser) parsePower() (quantity.Value, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("**") {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return quantity.Pow(base, exp)
}

func (p *parser) parsePrimary() (quantity.Value, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return quantity.Number(t.num), nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			p.next()
			args, err := p.parseArgs(tokRParen, ")")
			if err != nil {
				return nil, err
			}
			return p.call(t, args)
		}
		return p.resolve(t)
	case tokLParen:
		v, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return v, nil
	case tokLBrack:
		args, err := p.parseArgs(tokRBrack, "]")
		if err != nil {
			return nil, err
		}
		return arrayOf(t.pos, args)
	case tokEOF:
		return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected end of input"}
	}
	return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
}

func (p *parser) parseArgs(closing tokenKind, closeText string) ([]quantity.Value, error) {
	var args []quantity.Value
	if p.peek().kind == closing {
		p.next()
		return args, nil
	}
	for {
		v, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		t := p.next()
		switch t.kind {
		case tokComma:
			continue
		case closing:
			return args, nil
		}
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("expected ',' or '%s'", closeText)}
	}
}

func (p *parser) resolve(t token) (quantity.Value, error) {
	if t.text == "_" {
		if p.last == nil {
			return nil, &SyntaxError{Pos: t.pos, Msg: "no previous result for _"}
		}
		return p.last, nil
	}
	v, ok := p.env.Lookup(t.text)
	if !ok {
		return nil, fmt.Errorf("%w %q at position %d", ErrUndefined, t.text, t.pos)
	}
	return v, nil
}

func (p *parser) call(fn token, args []quantity.Value) (quantity.Value, error) {
	if reduce, ok := reductions[fn.text]; ok {
		if len(args) != 1 {
			return nil, &SyntaxError{Pos: fn.pos, Msg: fn.text + " takes one argument"}
		}
		a, ok := args[0].(*quantity.Array)
		if !ok {
			f, _ := quantity.Float(args[0])
			a = quantity.FromValues([]float64{f}, args[0].Unit())
		}
		return reduce(a)
	}

	op, err := ufunc.ByName(fn.text)
	if err != nil {
		return nil, err
	}
	e, _ := ufunc.Lookup(op)
	if len(args) != e.Arity {
		return nil, &SyntaxError{Pos: fn.pos, Msg: fmt.Sprintf("%s takes %d argument(s), got %d", fn.text, e.Arity, len(args))}
	}
	if e.Arity == 1 {
		return quantity.Unary(op, args[0])
	}
	return quantity.Binary(op, args[0], args[1])
}

// arrayOf builds an array literal. Every element must be a scalar with the
// unit of the first.
func arrayOf(pos int, elems []quantity.Value) (quantity.Value, error) {
	if len(elems) == 0 {
		return quantity.FromValues(nil, units.Dimensionless), nil
	}
	u := elems[0].Unit()
	vals := make([]float64, len(elems))
	for i, el := range elems {
		f, err := quantity.Rescale(el, u)
		if err != nil {
			return nil, fmt.Errorf("array literal at position %d: %w", pos, err)
		}
		vals[i] = f
	}
	return quantity.Make(vals, u, quantity.Undegraded())
}

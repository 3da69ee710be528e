package calc

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokLBrack
	tokRBrack
	tokComma
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// two-character operators must be matched before their prefixes
var operators = []string{"**", "<=", ">=", "==", "!=", "+", "-", "*", "/", "%", "<", ">"}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(' || c == ')' || c == '[' || c == ']' || c == ',':
			toks = append(toks, token{kind: punct[c], text: string(c), pos: i})
			i++
		case unicode.IsDigit(c) || c == '.':
			n, end, err := scanNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:end], num: n, pos: i})
			i = end
		case c == '_' || c < unicode.MaxASCII && unicode.IsLetter(c):
			end := i + 1
			for end < len(src) && isIdentByte(src[end]) {
				end++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:end], pos: i})
			i = end
		default:
			op := matchOperator(src[i:])
			if op == "" {
				return nil, &SyntaxError{Pos: i, Msg: "unexpected character " + strconv.QuoteRune(c)}
			}
			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

var punct = map[rune]tokenKind{
	'(': tokLParen,
	')': tokRParen,
	'[': tokLBrack,
	']': tokRBrack,
	',': tokComma,
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func matchOperator(s string) string {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

// scanNumber reads a decimal literal with an optional exponent, such as
// 9.81, .5 or 1e-3.
func scanNumber(src string, start int) (float64, int, error) {
	end := start
	digits := func() {
		for end < len(src) && src[end] >= '0' && src[end] <= '9' {
			end++
		}
	}
	digits()
	if end < len(src) && src[end] == '.' {
		end++
		digits()
	}
	if end < len(src) && (src[end] == 'e' || src[end] == 'E') {
		mark := end
		end++
		if end < len(src) && (src[end] == '+' || src[end] == '-') {
			end++
		}
		if end < len(src) && src[end] >= '0' && src[end] <= '9' {
			digits()
		} else {
			// not an exponent; leave "e" for the next token
			end = mark
		}
	}
	n, err := strconv.ParseFloat(src[start:end], 64)
	if err != nil {
		return 0, 0, &SyntaxError{Pos: start, Msg: "invalid number " + strconv.Quote(src[start:end])}
	}
	return n, end, nil
}

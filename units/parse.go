package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseError reports a unit string that does not follow the FITS grammar.
type ParseError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("units: parsing %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}

// Parse parses a FITS unit string. The empty string is Dimensionless.
func Parse(s string) (Unit, error) {
	p := &parser{src: s}
	p.skipSpaces()
	if p.eof() {
		return Dimensionless, nil
	}

	u, err := p.parseExpr()
	if err != nil {
		return Unit{}, err
	}
	p.skipSpaces()
	if !p.eof() {
		return Unit{}, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return u, nil
}

// MustParse is like Parse but panics on error. It is intended for
// package-level unit constants.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) skipSpaces() bool {
	start := p.pos
	for !p.eof() && p.src[p.pos] == ' ' {
		p.pos++
	}
	return p.pos > start
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Input: p.src, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// parseExpr parses an optional leading scale factor followed by a product.
func (p *parser) parseExpr() (Unit, error) {
	scale := 1.0
	scaled := false
	if isDigit(p.peek()) {
		f, err := p.parseScale()
		if err != nil {
			return Unit{}, err
		}
		scale, scaled = f, true
		p.skipSpaces()
	}

	if p.eof() {
		return Unit{scale: scale}, nil
	}

	var u Unit
	if scaled && p.peek() == '/' {
		u = Dimensionless
	} else {
		f, err := p.parseFactor()
		if err != nil {
			return Unit{}, err
		}
		u = f
	}

	u, err := p.parseProductTail(u)
	if err != nil {
		return Unit{}, err
	}
	return Unit{scale: scale}.Mul(u), nil
}

// parseScale parses "10**k", "10^k", "10+k", "10-k" or a plain number.
func (p *parser) parseScale() (float64, error) {
	if p.hasPrefix("10") {
		save := p.pos
		p.pos += 2
		switch {
		case p.hasPrefix("**"):
			p.pos += 2
		case p.hasPrefix("^"):
			p.pos++
		case p.peek() == '+' || p.peek() == '-':
		default:
			p.pos = save
			return p.parseNumber()
		}
		e, err := p.parseExponent()
		if err != nil {
			return 0, err
		}
		return math.Pow(10, e), nil
	}
	return p.parseNumber()
}

// parseProductTail consumes further factors joined by '.', '*', ' ' or '/'.
func (p *parser) parseProductTail(u Unit) (Unit, error) {
	for {
		spaced := p.skipSpaces()
		if p.eof() || p.peek() == ')' {
			return u, nil
		}

		switch c := p.peek(); {
		case c == '/':
			p.pos++
			p.skipSpaces()
			f, err := p.parseFactor()
			if err != nil {
				return Unit{}, err
			}
			u = u.Div(f)
		case c == '.' || (c == '*' && !p.hasPrefix("**")):
			p.pos++
			p.skipSpaces()
			f, err := p.parseFactor()
			if err != nil {
				return Unit{}, err
			}
			u = u.Mul(f)
		case spaced && (isLetter(c) || c == '('):
			f, err := p.parseFactor()
			if err != nil {
				return Unit{}, err
			}
			u = u.Mul(f)
		default:
			return Unit{}, p.errorf("unexpected %q", string(c))
		}
	}
}

// parseFactor parses a unit name or parenthesized product with an optional power.
func (p *parser) parseFactor() (Unit, error) {
	var u Unit
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		p.skipSpaces()
		inner, err := p.parseExpr()
		if err != nil {
			return Unit{}, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return Unit{}, p.errorf("missing closing parenthesis")
		}
		p.pos++
		u = inner
	case isLetter(c):
		start := p.pos
		for !p.eof() && isLetter(p.peek()) {
			p.pos++
		}
		name := p.src[start:p.pos]
		found, ok := lookup(name)
		if !ok {
			p.pos = start
			return Unit{}, p.errorf("unknown unit %q", name)
		}
		u = found
	case c == 0:
		return Unit{}, p.errorf("unexpected end of input")
	default:
		return Unit{}, p.errorf("unexpected %q", string(c))
	}

	switch {
	case p.hasPrefix("**"):
		p.pos += 2
	case p.hasPrefix("^"):
		p.pos++
	case isDigit(p.peek()):
	case (p.peek() == '+' || p.peek() == '-') && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]):
	default:
		return u, nil
	}

	e, err := p.parseExponent()
	if err != nil {
		return Unit{}, err
	}
	return u.Pow(e), nil
}

// parseExponent parses a signed number or a parenthesized number or fraction.
func (p *parser) parseExponent() (float64, error) {
	if p.peek() != '(' {
		return p.parseNumber()
	}
	p.pos++
	num, err := p.parseNumber()
	if err != nil {
		return 0, err
	}
	if p.peek() == '/' {
		p.pos++
		den, err := p.parseNumber()
		if err != nil {
			return 0, err
		}
		if den == 0 {
			return 0, p.errorf("zero denominator in exponent")
		}
		num /= den
	}
	if p.peek() != ')' {
		return 0, p.errorf("missing closing parenthesis in exponent")
	}
	p.pos++
	return num, nil
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	if p.peek() == '+' || p.peek() == '-' {
		p.pos++
	}
	digits := 0
	for !p.eof() && (isDigit(p.peek()) || p.peek() == '.') {
		if p.peek() == '.' && (p.pos+1 >= len(p.src) || !isDigit(p.src[p.pos+1])) {
			break
		}
		p.pos++
		digits++
	}
	if digits == 0 {
		p.pos = start
		return 0, p.errorf("expected number")
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		p.pos = start
		return 0, p.errorf("invalid number %q", p.src[start:p.pos])
	}
	return v, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

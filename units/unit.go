// Package units parses FITS physical unit strings into comparable values.
//
// The accepted grammar follows the FITS standard (section 4.3): unit symbols
// from the standard tables with optional SI prefixes, products written with
// '.', '*' or whitespace, a '/' for division, and powers written as
// "m**2", "m^2", "m2", "s-1" or "m**(1/2)". A leading factor such as
// "10**-3" scales the unit. Symbols are case sensitive ("Jy", not "JY").
//
// A Unit is a scale factor times a product of base symbols raised to
// powers. Prefixes fold into the scale, so "mJy" equals "10**-3 Jy".
package units

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Term is one symbol raised to a power within a Unit.
type Term struct {
	Symbol string
	Power  float64
}

// Unit is a physical unit. The zero value is an unset unit; use
// Dimensionless for the unit of pure numbers.
type Unit struct {
	scale float64
	terms []Term
}

var (
	// Dimensionless is the unit of pure numbers.
	Dimensionless = Unit{scale: 1}

	// JanskyPerBeam is flux density per beam, the default for radio cubes.
	JanskyPerBeam = MustParse("Jy/beam")
)

// New returns scale times the product of terms.
func New(scale float64, terms ...Term) Unit {
	u := Unit{scale: scale}
	for _, t := range terms {
		u = u.Mul(Unit{scale: 1, terms: []Term{t}})
	}
	return u
}

// IsZero reports whether u is the unset zero value.
func (u Unit) IsZero() bool {
	return u.scale == 0 && len(u.terms) == 0
}

// Scale returns the numeric factor of u.
func (u Unit) Scale() float64 {
	return u.scale
}

// Terms returns the symbols of u sorted by name.
func (u Unit) Terms() []Term {
	return slices.Clone(u.terms)
}

// Mul returns u times v.
func (u Unit) Mul(v Unit) Unit {
	out := Unit{scale: u.normScale() * v.normScale()}
	powers := make(map[string]float64, len(u.terms)+len(v.terms))
	for _, t := range u.terms {
		powers[t.Symbol] += t.Power
	}
	for _, t := range v.terms {
		powers[t.Symbol] += t.Power
	}
	for sym, p := range powers {
		if p != 0 {
			out.terms = append(out.terms, Term{Symbol: sym, Power: p})
		}
	}
	slices.SortFunc(out.terms, func(a, b Term) int {
		return strings.Compare(a.Symbol, b.Symbol)
	})
	return out
}

// Div returns u divided by v.
func (u Unit) Div(v Unit) Unit {
	return u.Mul(v.Pow(-1))
}

// Pow returns u raised to p.
func (u Unit) Pow(p float64) Unit {
	out := Unit{scale: math.Pow(u.normScale(), p)}
	for _, t := range u.terms {
		out.terms = append(out.terms, Term{Symbol: t.Symbol, Power: t.Power * p})
	}
	return out
}

// Equal reports whether u and v denote the same unit. Scales are compared
// with a relative tolerance to absorb rounding in prefix arithmetic.
func (u Unit) Equal(v Unit) bool {
	if u.IsZero() || v.IsZero() {
		return u.IsZero() && v.IsZero()
	}
	if !slices.Equal(u.terms, v.terms) {
		return false
	}
	a, b := u.scale, v.scale
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}

// String formats u in FITS syntax, e.g. "Jy/beam" or "10**-3 erg/(cm**2 s)".
// The output is accepted by Parse.
func (u Unit) String() string {
	if u.IsZero() {
		return ""
	}

	var num, den []string
	for _, t := range u.terms {
		if t.Power > 0 {
			num = append(num, formatTerm(t.Symbol, t.Power))
		} else {
			den = append(den, formatTerm(t.Symbol, -t.Power))
		}
	}

	var b strings.Builder
	if u.scale != 1 {
		b.WriteString(formatScale(u.scale))
		if len(num) > 0 || len(den) > 0 {
			b.WriteByte(' ')
		}
	}
	switch {
	case len(num) > 0:
		b.WriteString(strings.Join(num, " "))
	case len(den) > 0:
		b.WriteString("1")
	}
	if len(den) == 1 {
		b.WriteString("/" + den[0])
	} else if len(den) > 1 {
		b.WriteString("/(" + strings.Join(den, " ") + ")")
	}
	if b.Len() == 0 {
		return "1"
	}
	return b.String()
}

func (u Unit) normScale() float64 {
	if u.scale == 0 {
		return 1
	}
	return u.scale
}

func formatTerm(sym string, p float64) string {
	if p == 1 {
		return sym
	}
	if p == math.Trunc(p) {
		return sym + "**" + strconv.FormatFloat(p, 'f', -1, 64)
	}
	return sym + "**(" + strconv.FormatFloat(p, 'g', -1, 64) + ")"
}

func formatScale(s float64) string {
	if s > 0 {
		e := math.Round(math.Log10(s))
		if math.Abs(math.Pow(10, e)-s) <= 1e-12*s {
			return "10**" + strconv.FormatFloat(e, 'f', -1, 64)
		}
	}
	return strconv.FormatFloat(s, 'g', -1, 64)
}

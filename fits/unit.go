package fits

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-acalib/nddata"
	"github.com/robert-malhotra/go-acalib/units"
)

// DefaultUnit is assumed for data without a BUNIT keyword.
var DefaultUnit = units.JanskyPerBeam

// Source tells whether a resolved value came from the header or a default.
type Source int

const (
	SourceDefault Source = iota
	SourceParsed
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceParsed:
		return "parsed"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// UnitResolution is the outcome of ResolveUnit.
type UnitResolution struct {
	Unit   units.Unit
	Source Source
}

// ResolveUnit determines the physical unit of an image from its BUNIT
// keyword.
//
// The value is lower-cased and "jy" is restored to "Jy" before parsing,
// which repairs the upper-cased units some writers emit ("JY/BEAM"). An absent
// keyword resolves to DefaultUnit. A present value that does not parse after
// this normalization is an error of type *UnitParseError.
func ResolveUnit(m *nddata.Metadata) (UnitResolution, error) {
	return resolveUnit(m, DefaultUnit)
}

func resolveUnit(m *nddata.Metadata, def units.Unit) (UnitResolution, error) {
	v, ok := m.Get("BUNIT")
	if !ok {
		return UnitResolution{Unit: def, Source: SourceDefault}, nil
	}
	s, isString := v.(string)
	if !isString {
		return UnitResolution{}, &UnitParseError{
			Value: fmt.Sprint(v),
			Err:   fmt.Errorf("expected a string, got %T", v),
		}
	}

	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "jy", "Jy")
	u, err := units.Parse(norm)
	if err != nil {
		return UnitResolution{}, &UnitParseError{Value: s, Err: err}
	}
	return UnitResolution{Unit: u, Source: SourceParsed}, nil
}

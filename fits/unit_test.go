package fits

import (
	"errors"
	"testing"

	"github.com/robert-malhotra/go-acalib/nddata"
	"github.com/robert-malhotra/go-acalib/units"
)

func TestResolveUnit(t *testing.T) {
	tests := []struct {
		name   string
		bunit  any
		want   units.Unit
		source Source
	}{
		{"absent", nil, units.JanskyPerBeam, SourceDefault},
		{"canonical", "Jy/beam", units.JanskyPerBeam, SourceParsed},
		{"upper case", "JY/BEAM", units.JanskyPerBeam, SourceParsed},
		{"mixed case", "jY/Beam", units.JanskyPerBeam, SourceParsed},
		{"flux density", "JY", units.MustParse("Jy"), SourceParsed},
		{"velocity", "m/s", units.MustParse("m/s"), SourceParsed},
		{"empty", "", units.Dimensionless, SourceParsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := nddata.NewMetadata()
			if tt.bunit != nil {
				m.Set("BUNIT", tt.bunit)
			}
			res, err := ResolveUnit(m)
			if err != nil {
				t.Fatalf("ResolveUnit failed: %v", err)
			}
			if !res.Unit.Equal(tt.want) {
				t.Errorf("unit = %s, want %s", res.Unit, tt.want)
			}
			if res.Source != tt.source {
				t.Errorf("source = %s, want %s", res.Source, tt.source)
			}
		})
	}
}

func TestResolveUnitErrors(t *testing.T) {
	tests := []struct {
		name  string
		bunit any
	}{
		{"unknown symbol", "furlong/fortnight"},
		{"dangling operator", "Jy/"},
		// Lower-casing turns kelvin into the unknown symbol "k".
		{"kelvin", "K"},
		{"not a string", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := nddata.NewMetadata()
			m.Set("BUNIT", tt.bunit)
			_, err := ResolveUnit(m)
			var upe *UnitParseError
			if !errors.As(err, &upe) {
				t.Fatalf("expected *UnitParseError, got %v", err)
			}
		})
	}
}

func TestResolveUnitCustomDefault(t *testing.T) {
	kelvin := units.MustParse("K")
	res, err := resolveUnit(nddata.NewMetadata(), kelvin)
	if err != nil {
		t.Fatalf("resolveUnit failed: %v", err)
	}
	if !res.Unit.Equal(kelvin) || res.Source != SourceDefault {
		t.Errorf("got %s (%s), want K (default)", res.Unit, res.Source)
	}
}

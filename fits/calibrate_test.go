package fits

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/robert-malhotra/go-acalib/nddata"
)

func TestResolveCalibration(t *testing.T) {
	tests := []struct {
		name  string
		cards map[string]any
		want  Calibration
	}{
		{"neither", nil, Calibration{Scale: 1}},
		{"scale only", map[string]any{"BSCALE": 2.5}, Calibration{Scale: 2.5, ScaleSource: SourceParsed}},
		{"offset only", map[string]any{"BZERO": 32768}, Calibration{Scale: 1, Offset: 32768, OffsetSource: SourceParsed}},
		{"both", map[string]any{"BSCALE": 0.5, "BZERO": -1.0},
			Calibration{Scale: 0.5, Offset: -1, ScaleSource: SourceParsed, OffsetSource: SourceParsed}},
	}

	raw := []float64{0, 1, -3, 1000, math.NaN()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := nddata.NewMetadata()
			for k, v := range tt.cards {
				m.Set(k, v)
			}
			cal, err := ResolveCalibration(m)
			if err != nil {
				t.Fatalf("ResolveCalibration failed: %v", err)
			}
			if cal != tt.want {
				t.Fatalf("calibration = %+v, want %+v", cal, tt.want)
			}

			got := cal.Apply(raw)
			want := make([]float64, len(raw))
			for i, v := range raw {
				want[i] = v*tt.want.Scale + tt.want.Offset
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateNaNs()); diff != "" {
				t.Errorf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveCalibrationInvalid(t *testing.T) {
	m := nddata.NewMetadata()
	m.Set("BSCALE", "two")
	if _, err := ResolveCalibration(m); !errors.Is(err, ErrInvalidCalibration) {
		t.Errorf("expected ErrInvalidCalibration, got %v", err)
	}

	m = nddata.NewMetadata()
	m.Set("BZERO", true)
	if _, err := ResolveCalibration(m); !errors.Is(err, ErrInvalidCalibration) {
		t.Errorf("expected ErrInvalidCalibration, got %v", err)
	}
}

func TestCalibrationInvert(t *testing.T) {
	cal := Calibration{Scale: 4, Offset: 2}
	values := []float64{2, 6, -2}
	raw, err := cal.Invert(values)
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	if diff := cmp.Diff([]float64{0, 1, -1}, raw); diff != "" {
		t.Errorf("Invert mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(values, cal.Apply(raw)); diff != "" {
		t.Errorf("Apply(Invert) mismatch (-want +got):\n%s", diff)
	}

	if _, err := (Calibration{}).Invert(values); !errors.Is(err, ErrInvalidCalibration) {
		t.Errorf("expected ErrInvalidCalibration for zero scale, got %v", err)
	}
}

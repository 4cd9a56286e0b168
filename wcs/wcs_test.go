package wcs

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// testHeader is an ordered keyword list implementing Header.
type testHeader []Keyword

func (h testHeader) Get(key string) (any, bool) {
	for _, k := range h {
		if k.Name == key {
			return k.Value, true
		}
	}
	return nil, false
}

func (h testHeader) Keys() []string {
	keys := make([]string, len(h))
	for i, k := range h {
		keys[i] = k.Name
	}
	return keys
}

// cubeHeader is a typical 4-axis radio cube header (RA, DEC, FREQ, STOKES).
func cubeHeader() testHeader {
	return testHeader{
		{Name: "CTYPE1", Value: "RA---SIN"},
		{Name: "CRVAL1", Value: 83.8},
		{Name: "CDELT1", Value: -1e-4},
		{Name: "CRPIX1", Value: 50.0},
		{Name: "CUNIT1", Value: "deg"},
		{Name: "CTYPE2", Value: "DEC--SIN"},
		{Name: "CRVAL2", Value: -5.4},
		{Name: "CDELT2", Value: 1e-4},
		{Name: "CRPIX2", Value: 50.0},
		{Name: "CUNIT2", Value: "deg"},
		{Name: "CTYPE3", Value: "FREQ"},
		{Name: "CRVAL3", Value: 2.3e11},
		{Name: "CDELT3", Value: 5e5},
		{Name: "CRPIX3", Value: 1},
		{Name: "CUNIT3", Value: "Hz"},
		{Name: "CTYPE4", Value: "STOKES"},
		{Name: "CRVAL4", Value: 1},
		{Name: "CDELT4", Value: 1},
		{Name: "CRPIX4", Value: 1},
		{Name: "RESTFRQ", Value: 2.3e11},
		{Name: "SPECSYS", Value: "LSRK"},
	}
}

func TestFromHeader(t *testing.T) {
	w, err := FromHeader(cubeHeader(), 4)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}

	if w.Naxis() != 4 {
		t.Fatalf("expected 4 axes, got %d", w.Naxis())
	}
	want := []Axis{
		{Type: "RA---SIN", Unit: "deg", RefValue: 83.8, RefPixel: 50, Delta: -1e-4},
		{Type: "DEC--SIN", Unit: "deg", RefValue: -5.4, RefPixel: 50, Delta: 1e-4},
		{Type: "FREQ", Unit: "Hz", RefValue: 2.3e11, RefPixel: 1, Delta: 5e5},
		{Type: "STOKES", RefValue: 1, RefPixel: 1, Delta: 1},
	}
	if diff := cmp.Diff(want, w.Axes); diff != "" {
		t.Errorf("axes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(identity(4), w.PC); diff != "" {
		t.Errorf("PC should be identity (-want +got):\n%s", diff)
	}

	wantAux := []Keyword{{Name: "RESTFRQ", Value: 2.3e11}, {Name: "SPECSYS", Value: "LSRK"}}
	if diff := cmp.Diff(wantAux, w.Aux); diff != "" {
		t.Errorf("aux mismatch (-want +got):\n%s", diff)
	}
}

func TestFromHeaderDefaults(t *testing.T) {
	w, err := FromHeader(testHeader{}, 2)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}
	for i, a := range w.Axes {
		if a.Delta != 1 || a.RefValue != 0 || a.RefPixel != 0 || a.Type != "" {
			t.Errorf("axis %d: unexpected defaults %+v", i, a)
		}
	}
}

func TestFromHeaderWCSAXES(t *testing.T) {
	h := testHeader{{Name: "WCSAXES", Value: 3}}
	w, err := FromHeader(h, 2)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}
	if w.Naxis() != 3 {
		t.Errorf("expected WCSAXES to raise axis count to 3, got %d", w.Naxis())
	}
}

func TestFromHeaderLegacyPC(t *testing.T) {
	h := append(cubeHeader(), Keyword{Name: "PC001001", Value: 1.0})
	_, err := FromHeader(h, 4)
	if !errors.Is(err, ErrLegacyKeyword) {
		t.Fatalf("expected ErrLegacyKeyword, got %v", err)
	}
}

func TestFromHeaderBadType(t *testing.T) {
	h := testHeader{{Name: "CRVAL1", Value: "north"}}
	if _, err := FromHeader(h, 1); err == nil {
		t.Fatal("expected error for non-numeric CRVAL1")
	}

	h = testHeader{{Name: "CTYPE1", Value: 3}}
	if _, err := FromHeader(h, 1); err == nil {
		t.Fatal("expected error for non-string CTYPE1")
	}
}

func TestFromHeaderPCAndCD(t *testing.T) {
	h := testHeader{
		{Name: "CDELT1", Value: 2.0},
		{Name: "PC1_2", Value: 0.5},
		{Name: "PC2_1", Value: -0.5},
	}
	w, err := FromHeader(h, 2)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}
	if diff := cmp.Diff([]float64{1, 0.5, -0.5, 1}, w.PC); diff != "" {
		t.Errorf("PC mismatch (-want +got):\n%s", diff)
	}
	if w.Axes[0].Delta != 2 {
		t.Errorf("CDELT1 should be kept with PC, got %v", w.Axes[0].Delta)
	}

	h = testHeader{
		{Name: "CDELT1", Value: 2.0},
		{Name: "CD1_1", Value: -3.0},
		{Name: "CD2_2", Value: 4.0},
	}
	w, err = FromHeader(h, 2)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}
	if diff := cmp.Diff([]float64{-3, 0, 0, 4}, w.PC); diff != "" {
		t.Errorf("CD mismatch (-want +got):\n%s", diff)
	}
	if w.Axes[0].Delta != 1 {
		t.Errorf("CDELT1 should be ignored with CD, got %v", w.Axes[0].Delta)
	}
}

func TestFromHeaderCROTA(t *testing.T) {
	h := testHeader{
		{Name: "CTYPE1", Value: "RA---TAN"},
		{Name: "CTYPE2", Value: "DEC--TAN"},
		{Name: "CDELT1", Value: 1.0},
		{Name: "CDELT2", Value: 1.0},
		{Name: "CROTA2", Value: 90.0},
	}
	w, err := FromHeader(h, 2)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}
	want := []float64{0, -1, 1, 0}
	if diff := cmp.Diff(want, w.PC, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("rotation mismatch (-want +got):\n%s", diff)
	}
}

func TestDropAxis(t *testing.T) {
	w, err := FromHeader(cubeHeader(), 4)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}
	w.PC[0*4+2] = 0.25 // couple RA to FREQ
	w.PC[3*4+0] = 0.75 // STOKES row, dropped with the axis

	dropped, err := w.DropAxis(3)
	if err != nil {
		t.Fatalf("DropAxis failed: %v", err)
	}
	if dropped.Naxis() != 3 {
		t.Fatalf("expected 3 axes, got %d", dropped.Naxis())
	}
	if dropped.Axes[2].Type != "FREQ" {
		t.Errorf("expected FREQ as last axis, got %s", dropped.Axes[2].Type)
	}
	want := []float64{
		1, 0, 0.25,
		0, 1, 0,
		0, 0, 1,
	}
	if diff := cmp.Diff(want, dropped.PC); diff != "" {
		t.Errorf("PC mismatch (-want +got):\n%s", diff)
	}
	if w.Naxis() != 4 {
		t.Error("DropAxis must not modify the receiver")
	}

	if _, err := w.DropAxis(4); !errors.Is(err, ErrAxisRange) {
		t.Errorf("expected ErrAxisRange, got %v", err)
	}
}

func TestPixelToWorld(t *testing.T) {
	w, err := FromHeader(cubeHeader(), 4)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}

	// 0-based pixel 49 is the 1-based reference pixel 50.
	world, err := w.PixelToWorld(49, 49, 2, 0)
	if err != nil {
		t.Fatalf("PixelToWorld failed: %v", err)
	}
	want := []float64{83.8, -5.4, 2.3e11 + 2*5e5, 1}
	if diff := cmp.Diff(want, world, cmpopts.EquateApprox(1e-12, 0)); diff != "" {
		t.Errorf("world mismatch (-want +got):\n%s", diff)
	}

	if _, err := w.PixelToWorld(1, 2); err == nil {
		t.Error("expected error for wrong coordinate count")
	}
}

func TestKeywordsRoundTrip(t *testing.T) {
	w, err := FromHeader(cubeHeader(), 4)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}
	w.PC[1] = 0.5

	again, err := FromHeader(testHeader(w.Keywords()), 0)
	if err != nil {
		t.Fatalf("FromHeader on serialized keywords failed: %v", err)
	}
	if diff := cmp.Diff(w, again, cmpopts.IgnoreFields(Keyword{}, "Comment")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCelestialAxes(t *testing.T) {
	w, err := FromHeader(cubeHeader(), 4)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}
	lon, lat := w.CelestialAxes()
	if lon != 0 || lat != 1 {
		t.Errorf("CelestialAxes() = %d, %d; want 0, 1", lon, lat)
	}

	lon, lat = New(2).CelestialAxes()
	if lon != -1 || lat != -1 {
		t.Errorf("CelestialAxes() on bare WCS = %d, %d; want -1, -1", lon, lat)
	}
}

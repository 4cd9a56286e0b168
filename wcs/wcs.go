// Package wcs models the linear part of a FITS world coordinate system.
//
// A WCS maps 1-based FITS pixel coordinates p to intermediate world
// coordinates
//
//	x_i = CDELT_i * sum_j PC_ij * (p_j - CRPIX_j)
//
// and reports world coordinates as CRVAL_i + x_i. Celestial projections
// (the "-SIN", "-TAN" suffixes of CTYPE) are carried through verbatim but not
// evaluated; this is sufficient for slicing cubes and for writing headers
// back that other tools interpret fully.
//
// Axes are indexed in FITS order: axis 0 is NAXIS1, the fastest varying
// array dimension.
package wcs

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var (
	// ErrLegacyKeyword is returned for headers carrying the obsolete
	// PC00i00j rotation keywords, which cannot be mapped onto PCi_j.
	ErrLegacyKeyword = errors.New("legacy PC00i00j keyword")

	// ErrAxisRange is returned for an axis index outside the WCS.
	ErrAxisRange = errors.New("axis index out of range")
)

// Header is the read-only view of header keywords the parser needs.
type Header interface {
	Get(key string) (any, bool)
	Keys() []string
}

// Keyword is a serialized header entry.
type Keyword struct {
	Name    string
	Value   any
	Comment string
}

// Axis holds the per-axis keywords.
type Axis struct {
	Type     string  // CTYPEi
	Unit     string  // CUNITi
	RefValue float64 // CRVALi
	RefPixel float64 // CRPIXi, 1-based
	Delta    float64 // CDELTi
}

// WCS is a linear world coordinate system.
type WCS struct {
	Axes []Axis
	// PC is the linear transformation matrix, row-major, len(Axes)^2 entries.
	PC []float64
	// Aux holds auxiliary keywords (RESTFRQ, SPECSYS, RADESYS, ...) verbatim.
	Aux []Keyword
}

// auxKeys are carried through unchanged. Aliases map to their canonical name.
var auxKeys = []struct {
	name    string
	aliases []string
}{
	{"RADESYS", []string{"RADECSYS"}},
	{"EQUINOX", []string{"EPOCH"}},
	{"LONPOLE", nil},
	{"LATPOLE", nil},
	{"RESTFRQ", []string{"RESTFREQ"}},
	{"SPECSYS", nil},
	{"MJD-OBS", nil},
	{"DATE-OBS", nil},
}

// New returns an identity WCS with n axes.
func New(n int) *WCS {
	w := &WCS{
		Axes: make([]Axis, n),
		PC:   identity(n),
	}
	for i := range w.Axes {
		w.Axes[i].Delta = 1
	}
	return w
}

// Naxis returns the number of axes.
func (w *WCS) Naxis() int {
	return len(w.Axes)
}

// Clone returns a deep copy of w.
func (w *WCS) Clone() *WCS {
	return &WCS{
		Axes: slices.Clone(w.Axes),
		PC:   slices.Clone(w.PC),
		Aux:  slices.Clone(w.Aux),
	}
}

// PCAt returns PC_ij for 0-based i, j.
func (w *WCS) PCAt(i, j int) float64 {
	return w.PC[i*len(w.Axes)+j]
}

// DropAxis returns a copy of w without axis i. The PC row and column of the
// axis are removed, so the remaining axes keep their own transformation.
func (w *WCS) DropAxis(i int) (*WCS, error) {
	n := len(w.Axes)
	if i < 0 || i >= n {
		return nil, fmt.Errorf("dropping axis %d of %d: %w", i, n, ErrAxisRange)
	}

	out := &WCS{
		Axes: slices.Delete(slices.Clone(w.Axes), i, i+1),
		PC:   make([]float64, 0, (n-1)*(n-1)),
		Aux:  slices.Clone(w.Aux),
	}
	for r := 0; r < n; r++ {
		if r == i {
			continue
		}
		for c := 0; c < n; c++ {
			if c == i {
				continue
			}
			out.PC = append(out.PC, w.PCAt(r, c))
		}
	}
	return out, nil
}

// PixelToWorld converts 0-based pixel coordinates, one per axis in FITS
// order, to world coordinates.
func (w *WCS) PixelToWorld(pixel ...float64) ([]float64, error) {
	n := len(w.Axes)
	if len(pixel) != n {
		return nil, fmt.Errorf("got %d pixel coordinates for %d axes", len(pixel), n)
	}

	world := make([]float64, n)
	for i := 0; i < n; i++ {
		var x float64
		for j := 0; j < n; j++ {
			x += w.PCAt(i, j) * (pixel[j] + 1 - w.Axes[j].RefPixel)
		}
		world[i] = w.Axes[i].RefValue + w.Axes[i].Delta*x
	}
	return world, nil
}

// CelestialAxes returns the indices of the longitude and latitude axes, or
// -1 when absent.
func (w *WCS) CelestialAxes() (lon, lat int) {
	lon, lat = -1, -1
	for i, a := range w.Axes {
		t := strings.ToUpper(a.Type)
		switch {
		case strings.HasPrefix(t, "RA"), strings.HasPrefix(t, "GLON"), strings.HasPrefix(t, "ELON"):
			if lon < 0 {
				lon = i
			}
		case strings.HasPrefix(t, "DEC"), strings.HasPrefix(t, "GLAT"), strings.HasPrefix(t, "ELAT"):
			if lat < 0 {
				lat = i
			}
		}
	}
	return lon, lat
}

func identity(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = 1
	}
	return m
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return math.NaN(), false
	}
}

package wcs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	legacyPC = regexp.MustCompile(`^PC00[0-9]`)
	pcKey    = regexp.MustCompile(`^PC([0-9]+)_([0-9]+)$`)
	cdKey    = regexp.MustCompile(`^CD([0-9]+)_([0-9]+)$`)
)

// FromHeader builds a WCS with naxis axes from header keywords. The axis
// count grows to WCSAXES when the header declares more.
func FromHeader(h Header, naxis int) (*WCS, error) {
	keys := h.Keys()
	for _, k := range keys {
		if legacyPC.MatchString(k) {
			return nil, fmt.Errorf("%w: %s", ErrLegacyKeyword, k)
		}
	}

	if v, ok := h.Get("WCSAXES"); ok {
		n, ok := toFloat(v)
		if !ok || n < 0 || n != math.Trunc(n) {
			return nil, fmt.Errorf("invalid WCSAXES %v", v)
		}
		if int(n) > naxis {
			naxis = int(n)
		}
	}

	w := New(naxis)
	for i := range w.Axes {
		a := &w.Axes[i]
		var err error
		n := strconv.Itoa(i + 1)
		if a.Type, err = stringKey(h, "CTYPE"+n); err != nil {
			return nil, err
		}
		if a.Unit, err = stringKey(h, "CUNIT"+n); err != nil {
			return nil, err
		}
		if a.RefValue, err = floatKey(h, "CRVAL"+n, 0); err != nil {
			return nil, err
		}
		if a.RefPixel, err = floatKey(h, "CRPIX"+n, 0); err != nil {
			return nil, err
		}
		if a.Delta, err = floatKey(h, "CDELT"+n, 1); err != nil {
			return nil, err
		}
	}

	hasPC, hasCD := false, false
	for _, k := range keys {
		if m := pcKey.FindStringSubmatch(k); m != nil {
			if err := w.setMatrix(h, k, m); err != nil {
				return nil, err
			}
			hasPC = true
		}
	}
	if !hasPC {
		for _, k := range keys {
			if m := cdKey.FindStringSubmatch(k); m != nil {
				if err := w.setMatrix(h, k, m); err != nil {
					return nil, err
				}
				hasCD = true
			}
		}
	}
	if hasCD {
		// CDi_j already include the scale.
		for i := range w.Axes {
			w.Axes[i].Delta = 1
		}
	}
	if !hasPC && !hasCD {
		if err := w.applyRotation(h); err != nil {
			return nil, err
		}
	}

	for _, aux := range auxKeys {
		for _, name := range append([]string{aux.name}, aux.aliases...) {
			if v, ok := h.Get(name); ok {
				w.Aux = append(w.Aux, Keyword{Name: aux.name, Value: v})
				break
			}
		}
	}

	return w, nil
}

// setMatrix stores the PCi_j or CDi_j entry named by key.
func (w *WCS) setMatrix(h Header, key string, m []string) error {
	i, _ := strconv.Atoi(m[1])
	j, _ := strconv.Atoi(m[2])
	n := len(w.Axes)
	if i < 1 || j < 1 || i > n || j > n {
		// Entries for axes beyond the WCS do not affect it.
		return nil
	}
	v, err := floatKey(h, key, 0)
	if err != nil {
		return err
	}
	w.PC[(i-1)*n+(j-1)] = v
	return nil
}

// applyRotation converts the legacy CROTAi angle of the latitude axis into
// a PC matrix.
func (w *WCS) applyRotation(h Header) error {
	lon, lat := w.CelestialAxes()
	if lon < 0 || lat < 0 {
		return nil
	}
	rot, err := floatKey(h, "CROTA"+strconv.Itoa(lat+1), 0)
	if err != nil {
		return err
	}
	if rot == 0 {
		return nil
	}

	rho := rot * math.Pi / 180
	cos, sin := math.Cos(rho), math.Sin(rho)
	dlon, dlat := w.Axes[lon].Delta, w.Axes[lat].Delta
	n := len(w.Axes)
	w.PC[lon*n+lon] = cos
	w.PC[lon*n+lat] = -sin * dlat / dlon
	w.PC[lat*n+lon] = sin * dlon / dlat
	w.PC[lat*n+lat] = cos
	return nil
}

// Keywords serializes w as header keywords. Only PC entries that differ
// from the identity are written.
func (w *WCS) Keywords() []Keyword {
	n := len(w.Axes)
	out := []Keyword{{Name: "WCSAXES", Value: n, Comment: "Number of coordinate axes"}}

	for i, a := range w.Axes {
		s := strconv.Itoa(i + 1)
		out = append(out, Keyword{Name: "CRPIX" + s, Value: a.RefPixel, Comment: "Pixel coordinate of reference point"})
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := w.PCAt(i, j)
			want := 0.0
			if i == j {
				want = 1
			}
			if v != want {
				out = append(out, Keyword{
					Name:    fmt.Sprintf("PC%d_%d", i+1, j+1),
					Value:   v,
					Comment: "Coordinate transformation matrix element",
				})
			}
		}
	}
	for i, a := range w.Axes {
		s := strconv.Itoa(i + 1)
		out = append(out, Keyword{Name: "CDELT" + s, Value: a.Delta, Comment: "Coordinate increment at reference point"})
	}
	for i, a := range w.Axes {
		if a.Unit != "" {
			out = append(out, Keyword{Name: "CUNIT" + strconv.Itoa(i+1), Value: a.Unit, Comment: "Units of coordinate increment and value"})
		}
	}
	for i, a := range w.Axes {
		if a.Type != "" {
			out = append(out, Keyword{Name: "CTYPE" + strconv.Itoa(i+1), Value: a.Type})
		}
	}
	for i, a := range w.Axes {
		out = append(out, Keyword{Name: "CRVAL" + strconv.Itoa(i+1), Value: a.RefValue, Comment: "Coordinate value at reference point"})
	}
	out = append(out, w.Aux...)
	return out
}

func stringKey(h Header, key string) (string, error) {
	v, ok := h.Get(key)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("keyword %s: expected string, got %T", key, v)
	}
	return strings.TrimSpace(s), nil
}

func floatKey(h Header, key string, def float64) (float64, error) {
	v, ok := h.Get(key)
	if !ok {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("keyword %s: expected number, got %T", key, v)
	}
	return f, nil
}

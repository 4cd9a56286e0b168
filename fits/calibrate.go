package fits

import (
	"fmt"

	"github.com/robert-malhotra/go-acalib/nddata"
)

// Calibration is the linear transform from stored to physical values,
// physical = raw*Scale + Offset, taken from BSCALE and BZERO.
type Calibration struct {
	Scale        float64
	Offset       float64
	ScaleSource  Source
	OffsetSource Source
}

// Identity is the calibration of data without BSCALE and BZERO.
var Identity = Calibration{Scale: 1}

// ResolveCalibration reads BSCALE (default 1) and BZERO (default 0). Each
// keyword defaults independently; a present non-numeric value is an error
// wrapping ErrInvalidCalibration.
func ResolveCalibration(m *nddata.Metadata) (Calibration, error) {
	c := Identity

	scale, ok, err := m.Float("BSCALE")
	if err != nil {
		return Calibration{}, fmt.Errorf("%w: %w", ErrInvalidCalibration, err)
	}
	if ok {
		c.Scale, c.ScaleSource = scale, SourceParsed
	}

	offset, ok, err := m.Float("BZERO")
	if err != nil {
		return Calibration{}, fmt.Errorf("%w: %w", ErrInvalidCalibration, err)
	}
	if ok {
		c.Offset, c.OffsetSource = offset, SourceParsed
	}
	return c, nil
}

// IsIdentity reports whether c leaves values unchanged.
func (c Calibration) IsIdentity() bool {
	return c.Scale == 1 && c.Offset == 0
}

// Apply returns raw*Scale + Offset for every sample. NaN stays NaN.
func (c Calibration) Apply(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = v*c.Scale + c.Offset
	}
	return out
}

// Invert returns (v - Offset) / Scale for every sample, the values to store
// so that Apply recovers the input.
func (c Calibration) Invert(values []float64) ([]float64, error) {
	if c.Scale == 0 {
		return nil, fmt.Errorf("%w: BSCALE is zero", ErrInvalidCalibration)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - c.Offset) / c.Scale
	}
	return out, nil
}

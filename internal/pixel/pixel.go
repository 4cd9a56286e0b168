package pixel

import (
	"bytes"
	"fmt"
	"math"

	"github.com/robert-malhotra/go-acalib/internal/binary"
)

// Supported BITPIX values.
const (
	Uint8   = 8
	Int16   = 16
	Int32   = 32
	Int64   = 64
	Float32 = -32
	Float64 = -64
)

// Size returns the size in bytes of one sample for the given BITPIX.
func Size(bitpix int) (int, error) {
	switch bitpix {
	case Uint8, Int16, Int32, Int64:
		return bitpix / 8, nil
	case Float32, Float64:
		return -bitpix / 8, nil
	default:
		return 0, fmt.Errorf("invalid BITPIX %d", bitpix)
	}
}

// IsFloat reports whether BITPIX denotes a floating point sample.
func IsFloat(bitpix int) bool {
	return bitpix == Float32 || bitpix == Float64
}

// Decode converts n big-endian samples from raw into float64 values.
// For integer BITPIX, samples equal to *blank decode to NaN; blank is
// ignored for floating point data.
func Decode(raw []byte, bitpix int, n int, blank *int64) ([]float64, error) {
	size, err := Size(bitpix)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative sample count %d", n)
	}
	if len(raw) < n*size {
		return nil, fmt.Errorf("payload holds %d bytes, need %d for %d samples of BITPIX %d",
			len(raw), n*size, n, bitpix)
	}

	r := binary.NewReader(bytes.NewReader(raw), binary.DefaultConfig())
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		var iv int64
		switch bitpix {
		case Uint8:
			v, err := r.ReadUint8()
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			iv = int64(v)
		case Int16:
			v, err := r.ReadInt16()
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			iv = int64(v)
		case Int32:
			v, err := r.ReadInt32()
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			iv = int64(v)
		case Int64:
			v, err := r.ReadInt64()
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			iv = v
		case Float32:
			v, err := r.ReadFloat32()
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			out[i] = float64(v)
			continue
		case Float64:
			v, err := r.ReadFloat64()
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			out[i] = v
			continue
		}

		if blank != nil && iv == *blank {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(iv)
	}

	return out, nil
}

// NaNMask returns a mask that is true exactly where values holds NaN.
func NaNMask(values []float64) []bool {
	mask := make([]bool, len(values))
	for i, v := range values {
		mask[i] = math.IsNaN(v)
	}
	return mask
}

// Package fits converts between FITS files and the nddata model.
//
// Image HDUs become calibrated Datasets, binary table HDUs become Tables and
// a whole file becomes a Container. The write path is the mirror image:
// Datasets are serialized with their world coordinate system and metadata,
// and the calibration recorded in the metadata is inverted so that reading
// the file back applies it exactly once.
package fits

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrUnsupportedRank    = errors.New("unsupported data rank")
	ErrUnsupportedPrimary = errors.New("tables cannot be stored as the primary HDU")
	ErrTableNotSupported  = errors.New("table conversion not supported")
	ErrInvalidHDU         = errors.New("invalid HDU")
	ErrInvalidCalibration = errors.New("invalid calibration keyword")
)

// UnsupportedRankError reports image data whose rank is not 2, 3 or 4.
// It matches ErrUnsupportedRank with errors.Is.
type UnsupportedRankError struct {
	Rank int
}

func (e *UnsupportedRankError) Error() string {
	return fmt.Sprintf("unsupported data rank %d: only 2D, 3D and 4D (with polarization) data are handled", e.Rank)
}

// Is reports whether target is ErrUnsupportedRank.
func (e *UnsupportedRankError) Is(target error) bool {
	return target == ErrUnsupportedRank
}

// UnitParseError is returned when BUNIT is present but cannot be parsed.
type UnitParseError struct {
	Value string
	Err   error
}

func (e *UnitParseError) Error() string {
	return fmt.Sprintf("parsing BUNIT %q: %v", e.Value, e.Err)
}

func (e *UnitParseError) Unwrap() error {
	return e.Err
}

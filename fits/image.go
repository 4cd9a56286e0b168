package fits

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/astrogo/fitsio"

	"github.com/robert-malhotra/go-acalib/internal/pixel"
	"github.com/robert-malhotra/go-acalib/nddata"
	"github.com/robert-malhotra/go-acalib/wcs"
)

// ImageToDataset converts an image HDU into a calibrated Dataset.
//
// The HDU is checked for a valid BITPIX and a payload matching its axes.
// The mask marks samples that are NaN in the raw data (integer samples equal
// to BLANK decode as NaN). Legacy keywords are removed from the metadata
// before the unit and WCS are resolved, and the data is then normalized.
// Data of rank other than 2, 3 or 4 returns *UnsupportedRankError.
func ImageToDataset(img fitsio.Image, opts ...Option) (*nddata.Dataset, error) {
	return imageToDataset(img, newOptions(opts))
}

func imageToDataset(img fitsio.Image, o *options) (*nddata.Dataset, error) {
	hdr := img.Header()
	bitpix := hdr.Bitpix()
	shape, err := imageShape(hdr.Axes())
	if err != nil {
		return nil, err
	}
	rank := len(shape)
	if _, err := AxisKinds(rank); err != nil {
		return nil, err
	}

	blank, err := blankValue(hdr, bitpix)
	if err != nil {
		return nil, err
	}
	n := nddata.NumElements(shape)
	data, err := pixel.Decode(img.Raw(), bitpix, n, blank)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHDU, err)
	}

	meta := headerMetadata(hdr)
	if removed := Sanitize(meta); len(removed) > 0 {
		o.logger.Debug("removed legacy keywords", "keys", removed)
	}

	unit, err := resolveUnit(meta, o.defaultUnit)
	if err != nil {
		return nil, err
	}
	w, err := wcs.FromHeader(meta, rank)
	if err != nil {
		return nil, fmt.Errorf("building WCS: %w", err)
	}
	cal, err := ResolveCalibration(meta)
	if err != nil {
		return nil, err
	}

	raw := &nddata.Dataset{
		Data:  data,
		Shape: shape,
		Mask:  pixel.NaNMask(data),
		WCS:   w,
		Unit:  unit.Unit,
		Meta:  meta,
	}
	return normalize(raw, cal, o)
}

// imageShape converts NAXISn values (fastest first) to a Shape (slowest
// first).
func imageShape(axes []int) ([]int, error) {
	shape := make([]int, len(axes))
	for i, n := range axes {
		if n < 0 {
			return nil, fmt.Errorf("%w: NAXIS%d is %d", ErrInvalidHDU, i+1, n)
		}
		shape[len(axes)-1-i] = n
	}
	return shape, nil
}

func blankValue(hdr *fitsio.Header, bitpix int) (*int64, error) {
	if _, err := pixel.Size(bitpix); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHDU, err)
	}
	card := hdr.Get("BLANK")
	if card == nil || pixel.IsFloat(bitpix) {
		return nil, nil
	}
	var v int64
	switch b := card.Value.(type) {
	case int:
		v = int64(b)
	case int64:
		v = b
	case int32:
		v = int64(b)
	case float64:
		if b != math.Trunc(b) {
			return nil, fmt.Errorf("%w: non-integer BLANK %v", ErrInvalidHDU, b)
		}
		v = int64(b)
	default:
		return nil, fmt.Errorf("%w: BLANK has type %T", ErrInvalidHDU, card.Value)
	}
	return &v, nil
}

// DatasetToImage converts a Dataset into an image HDU.
//
// The header is built from the WCS first and the metadata is then copied on
// top of it, so metadata keys replace colliding WCS keys. Structural keys
// are regenerated rather than copied. The payload is written as 64-bit
// floats with the inverse of the BSCALE/BZERO calibration found in the
// metadata, so reading the HDU back yields the Dataset values; masked samples
// are stored as NaN. A primary HDU does not carry EXTNAME or EXTVER.
func DatasetToImage(ds *nddata.Dataset, primary bool) (fitsio.Image, error) {
	return datasetToImage(ds, primary, nil)
}

func datasetToImage(ds *nddata.Dataset, primary bool, ext *extension) (fitsio.Image, error) {
	if ds == nil {
		return nil, errors.New("nil dataset")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	cal, err := ResolveCalibration(ds.Meta)
	if err != nil {
		return nil, err
	}
	raw, err := cal.Invert(ds.Data)
	if err != nil {
		return nil, err
	}
	for i, masked := range ds.Mask {
		if masked {
			raw[i] = math.NaN()
		}
	}

	cards := newCardList()
	cards.addWCS(ds.WCS)
	if !ds.Unit.IsZero() {
		cards.set("BUNIT", ds.Unit.String(), "physical unit")
	}
	var reserved []string
	if primary {
		reserved = []string{"EXTNAME", "EXTVER"}
	}
	if err := cards.overlay(ds.Meta, reserved...); err != nil {
		return nil, err
	}
	if !primary {
		ext.apply(cards)
	}

	axes := slices.Clone(ds.Shape)
	slices.Reverse(axes)
	img := fitsio.NewImage(pixel.Float64, axes)
	if err := cards.appendTo(img.Header()); err != nil {
		img.Close()
		return nil, err
	}
	if err := img.Write(&raw); err != nil {
		img.Close()
		return nil, fmt.Errorf("writing image data: %w", err)
	}
	return img, nil
}

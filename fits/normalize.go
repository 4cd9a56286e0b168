package fits

import (
	"fmt"
	"math"
	"slices"

	"github.com/robert-malhotra/go-acalib/nddata"
	"github.com/robert-malhotra/go-acalib/wcs"
)

// AxisKinds returns the axis meaning assumed for raw image data of the given
// rank, slowest axis first. Only the rank is consulted: 2D data is RA-DEC,
// 3D data RA-DEC-FREQ and 4D data RA-DEC-FREQ-STOKES in FITS order.
func AxisKinds(rank int) ([]nddata.AxisKind, error) {
	switch rank {
	case 2:
		return []nddata.AxisKind{nddata.AxisSky, nddata.AxisSky}, nil
	case 3:
		return []nddata.AxisKind{nddata.AxisFrequency, nddata.AxisSky, nddata.AxisSky}, nil
	case 4:
		return []nddata.AxisKind{nddata.AxisPolarization, nddata.AxisFrequency, nddata.AxisSky, nddata.AxisSky}, nil
	default:
		return nil, &UnsupportedRankError{Rank: rank}
	}
}

// Normalize turns raw decoded image data into its canonical form.
//
// raw holds uncalibrated samples, the mask of missing raw samples and a WCS
// with one axis per dimension. Rank 2 and 3 data are calibrated as they are.
// For rank 4 data the polarization axis is collapsed with the configured
// policy (sum by default), its WCS axis is dropped and the result is then
// calibrated, so a summed cube holds sum(raw)*scale + offset. Any other rank
// returns *UnsupportedRankError. raw is not modified.
func Normalize(raw *nddata.Dataset, cal Calibration, opts ...Option) (*nddata.Dataset, error) {
	return normalize(raw, cal, newOptions(opts))
}

func normalize(raw *nddata.Dataset, cal Calibration, o *options) (*nddata.Dataset, error) {
	rank := raw.Rank()
	kinds, err := AxisKinds(rank)
	if err != nil {
		o.logger.Error("only 2D, 3D and 4D (with polarization) data are handled", "rank", rank)
		return nil, err
	}
	if len(raw.Data) != nddata.NumElements(raw.Shape) {
		return nil, fmt.Errorf("%w: %d samples for shape %v", nddata.ErrShape, len(raw.Data), raw.Shape)
	}

	mask := raw.Mask
	if mask == nil {
		mask = make([]bool, len(raw.Data))
	}
	w := raw.WCS
	if w == nil {
		w = wcs.New(rank)
	}

	out := &nddata.Dataset{
		Unit: raw.Unit,
		Meta: raw.Meta,
	}
	data := raw.Data

	switch rank {
	case 2:
		o.logger.Info("2D data detected: assuming RA-DEC")
		out.Shape = slices.Clone(raw.Shape)
		out.Axes = kinds
		out.Mask = slices.Clone(mask)
	case 3:
		o.logger.Info("3D data detected: assuming RA-DEC-FREQ")
		out.Shape = slices.Clone(raw.Shape)
		out.Axes = kinds
		out.Mask = slices.Clone(mask)
	case 4:
		o.logger.Info("4D data detected: assuming RA-DEC-FREQ-STOKES, collapsing STOKES",
			"policy", o.collapse)
		axis := slices.Index(kinds, nddata.AxisPolarization)
		data, out.Mask, out.Shape = collapse(raw.Data, mask, raw.Shape, axis, o.collapse)
		out.Axes = slices.Delete(slices.Clone(kinds), axis, axis+1)

		// WCS axes run in FITS order, the reverse of Shape.
		if w, err = w.DropAxis(rank - 1 - axis); err != nil {
			return nil, fmt.Errorf("dropping polarization axis: %w", err)
		}
	}

	if out.WCS, err = fitWCS(w, len(out.Shape)); err != nil {
		return nil, err
	}
	out.Data = cal.Apply(data)
	return out, nil
}

// collapse reduces shape along axis. A result sample is missing when any
// input sample along the axis is.
func collapse(data []float64, mask []bool, shape []int, axis int, policy CollapsePolicy) ([]float64, []bool, []int) {
	outer := nddata.NumElements(shape[:axis])
	if axis == 0 {
		outer = 1
	}
	n := shape[axis]
	inner := 1
	for _, d := range shape[axis+1:] {
		inner *= d
	}

	out := make([]float64, outer*inner)
	outMask := make([]bool, outer*inner)
	for o := 0; o < outer; o++ {
		for k := 0; k < n; k++ {
			base := (o*n + k) * inner
			for i := 0; i < inner; i++ {
				out[o*inner+i] += data[base+i]
				if mask[base+i] {
					outMask[o*inner+i] = true
				}
			}
		}
	}
	if policy == CollapseMean && n > 0 {
		for i := range out {
			out[i] /= float64(n)
		}
	}
	if n == 0 {
		for i := range out {
			out[i] = math.NaN()
			outMask[i] = true
		}
	}

	newShape := slices.Delete(slices.Clone(shape), axis, axis+1)
	return out, outMask, newShape
}

// fitWCS trims trailing axes a header may declare beyond the data rank
// (WCSAXES larger than NAXIS).
func fitWCS(w *wcs.WCS, rank int) (*wcs.WCS, error) {
	if w.Naxis() < rank {
		return nil, fmt.Errorf("%w: WCS has %d axes for rank %d data", nddata.ErrShape, w.Naxis(), rank)
	}
	for w.Naxis() > rank {
		var err error
		if w, err = w.DropAxis(w.Naxis() - 1); err != nil {
			return nil, err
		}
	}
	return w, nil
}

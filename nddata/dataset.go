// Package nddata is the in-memory model of calibrated astronomical data:
// N-dimensional datasets with coordinate systems, units, masks and
// metadata, tables, and the containers that aggregate both.
package nddata

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-acalib/units"
	"github.com/robert-malhotra/go-acalib/wcs"
)

// ErrShape is returned when array lengths disagree with a declared shape.
var ErrShape = errors.New("shape mismatch")

// AxisKind is the physical meaning of an array axis.
type AxisKind int

const (
	AxisSky AxisKind = iota
	AxisFrequency
	AxisPolarization
)

func (k AxisKind) String() string {
	switch k {
	case AxisSky:
		return "sky"
	case AxisFrequency:
		return "frequency"
	case AxisPolarization:
		return "polarization"
	default:
		return fmt.Sprintf("AxisKind(%d)", int(k))
	}
}

// Element is implemented by the members a Container can hold: *Dataset and *Table.
type Element interface {
	Metadata() *Metadata
	element()
}

// Dataset is an N-dimensional array of physical values.
//
// Data is stored row-major with Shape listing the slowest varying axis
// first, so a (F, D, R) cube has R samples per row. The WCS indexes axes in
// FITS order, the reverse of Shape: WCS axis i describes Shape[Rank()-1-i].
// Datasets referenced from a Container may be shared; treat them as
// immutable once assembled.
type Dataset struct {
	Data  []float64
	Shape []int
	// Axes gives the meaning of each entry of Shape.
	Axes []AxisKind
	// Mask is true where the source sample was missing (NaN).
	Mask []bool
	WCS  *wcs.WCS
	Unit units.Unit
	Meta *Metadata
}

// Metadata returns the dataset metadata.
func (d *Dataset) Metadata() *Metadata {
	return d.Meta
}

func (*Dataset) element() {}

// Rank returns the number of dimensions.
func (d *Dataset) Rank() int {
	return len(d.Shape)
}

// Len returns the number of elements implied by Shape.
func (d *Dataset) Len() int {
	return NumElements(d.Shape)
}

// Index returns the flat offset of the element at idx, given slowest axis first.
func (d *Dataset) Index(idx ...int) (int, error) {
	if len(idx) != len(d.Shape) {
		return 0, fmt.Errorf("got %d indices for rank %d: %w", len(idx), len(d.Shape), ErrShape)
	}
	off := 0
	for i, n := range d.Shape {
		if idx[i] < 0 || idx[i] >= n {
			return 0, fmt.Errorf("index %d out of range [0,%d) on axis %d", idx[i], n, i)
		}
		off = off*n + idx[i]
	}
	return off, nil
}

// At returns the element at idx, given slowest axis first.
func (d *Dataset) At(idx ...int) (float64, error) {
	off, err := d.Index(idx...)
	if err != nil {
		return 0, err
	}
	return d.Data[off], nil
}

// Validate checks that data, mask, axis kinds and WCS agree with Shape.
func (d *Dataset) Validate() error {
	n := d.Len()
	if len(d.Data) != n {
		return fmt.Errorf("data holds %d values, shape %v needs %d: %w", len(d.Data), d.Shape, n, ErrShape)
	}
	if d.Mask != nil && len(d.Mask) != n {
		return fmt.Errorf("mask holds %d values, shape %v needs %d: %w", len(d.Mask), d.Shape, n, ErrShape)
	}
	if d.Axes != nil && len(d.Axes) != len(d.Shape) {
		return fmt.Errorf("%d axis kinds for rank %d: %w", len(d.Axes), len(d.Shape), ErrShape)
	}
	if d.WCS != nil && d.WCS.Naxis() != len(d.Shape) {
		return fmt.Errorf("WCS has %d axes for rank %d: %w", d.WCS.Naxis(), len(d.Shape), ErrShape)
	}
	return nil
}

// NumElements returns the product of shape, or 0 for an empty shape.
func NumElements(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

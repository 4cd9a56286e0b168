package nddata

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when a primary element is required but the
	// container holds neither images nor tables.
	ErrEmpty = errors.New("container has no images or tables")

	// ErrRefRange is returned for a Ref that does not name a member.
	ErrRefRange = errors.New("reference out of range")
)

// RefKind selects the collection a Ref points into.
type RefKind int

const (
	RefNone RefKind = iota
	RefImage
	RefTable
)

func (k RefKind) String() string {
	switch k {
	case RefNone:
		return "none"
	case RefImage:
		return "image"
	case RefTable:
		return "table"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// Ref is a handle to a member of a Container.
type Ref struct {
	Kind  RefKind
	Index int
}

// Container aggregates the images and tables of one file and designates
// one of them as primary.
//
// The primary element is a handle into Images or Tables, never a separate
// copy: Primary() returns the same *Dataset or *Table stored in the slice.
type Container struct {
	Images []*Dataset
	Tables []*Table

	primary Ref
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{}
}

// AddImage appends d to Images and returns its handle.
func (c *Container) AddImage(d *Dataset) Ref {
	c.Images = append(c.Images, d)
	return Ref{Kind: RefImage, Index: len(c.Images) - 1}
}

// AddTable appends t to Tables and returns its handle.
func (c *Container) AddTable(t *Table) Ref {
	c.Tables = append(c.Tables, t)
	return Ref{Kind: RefTable, Index: len(c.Tables) - 1}
}

// SetPrimary designates the member r as primary.
func (c *Container) SetPrimary(r Ref) error {
	switch r.Kind {
	case RefNone:
	case RefImage:
		if r.Index < 0 || r.Index >= len(c.Images) {
			return fmt.Errorf("image %d of %d: %w", r.Index, len(c.Images), ErrRefRange)
		}
	case RefTable:
		if r.Index < 0 || r.Index >= len(c.Tables) {
			return fmt.Errorf("table %d of %d: %w", r.Index, len(c.Tables), ErrRefRange)
		}
	default:
		return fmt.Errorf("kind %v: %w", r.Kind, ErrRefRange)
	}
	c.primary = r
	return nil
}

// ClearPrimary unsets the primary element.
func (c *Container) ClearPrimary() {
	c.primary = Ref{}
}

// PrimaryRef returns the handle of the primary element.
func (c *Container) PrimaryRef() Ref {
	return c.primary
}

// HasPrimary reports whether a primary element is set.
func (c *Container) HasPrimary() bool {
	return c.primary.Kind != RefNone
}

// Primary returns the primary element, or nil when unset.
func (c *Container) Primary() Element {
	switch c.primary.Kind {
	case RefImage:
		return c.Images[c.primary.Index]
	case RefTable:
		return c.Tables[c.primary.Index]
	default:
		return nil
	}
}

// PrimaryDataset returns the primary element when it is a dataset.
func (c *Container) PrimaryDataset() (*Dataset, bool) {
	if c.primary.Kind != RefImage {
		return nil, false
	}
	return c.Images[c.primary.Index], true
}

// SelectPrimary applies the primary fallback when no primary is set: the
// first table if there are no images, otherwise the first image.
func (c *Container) SelectPrimary() error {
	if c.HasPrimary() {
		return nil
	}
	switch {
	case len(c.Images) > 0:
		c.primary = Ref{Kind: RefImage, Index: 0}
	case len(c.Tables) > 0:
		c.primary = Ref{Kind: RefTable, Index: 0}
	default:
		return ErrEmpty
	}
	return nil
}

package nddata

import (
	"errors"
	"fmt"
)

// ErrColumnType is returned for column values of an unsupported Go type.
var ErrColumnType = errors.New("unsupported column type")

// Column is a named, typed column of a Table.
//
// Values holds one of []float64, []float32, []int64, []int32, []int16,
// []uint8, []bool or []string.
type Column struct {
	Name   string
	Unit   string
	Values any
}

// Len returns the number of rows held by the column.
func (c Column) Len() (int, error) {
	switch v := c.Values.(type) {
	case []float64:
		return len(v), nil
	case []float32:
		return len(v), nil
	case []int64:
		return len(v), nil
	case []int32:
		return len(v), nil
	case []int16:
		return len(v), nil
	case []uint8:
		return len(v), nil
	case []bool:
		return len(v), nil
	case []string:
		return len(v), nil
	default:
		return 0, fmt.Errorf("column %q: %w %T", c.Name, ErrColumnType, c.Values)
	}
}

// Table is a set of equally long columns with attached metadata.
type Table struct {
	Columns []Column
	Meta    *Metadata
}

// Metadata returns the table metadata.
func (t *Table) Metadata() *Metadata {
	return t.Meta
}

func (*Table) element() {}

// NumRows returns the length of the first column, or 0 for a table without columns.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	n, _ := t.Columns[0].Len()
	return n
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Validate checks column names, types and lengths.
func (t *Table) Validate() error {
	rows := -1
	seen := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("column %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true

		n, err := c.Len()
		if err != nil {
			return err
		}
		if rows >= 0 && n != rows {
			return fmt.Errorf("column %q holds %d rows, expected %d: %w", c.Name, n, rows, ErrShape)
		}
		rows = n
	}
	return nil
}

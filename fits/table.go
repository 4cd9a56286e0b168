package fits

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/robert-malhotra/go-acalib/nddata"
)

// TableToHDU converts a Table into a binary table HDU. Columns map to the
// TFORM codes D, E, K, J, I, B, L and rA (r is the longest string). The
// metadata is copied on top of the generated header the same way as for
// images.
func TableToHDU(t *nddata.Table) (*fitsio.Table, error) {
	return tableToHDU(t, nil)
}

func tableToHDU(t *nddata.Table, ext *extension) (*fitsio.Table, error) {
	if t == nil {
		return nil, errors.New("nil table")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	cols := make([]fitsio.Column, len(t.Columns))
	for i, c := range t.Columns {
		format, err := columnFormat(c)
		if err != nil {
			return nil, err
		}
		cols[i] = fitsio.Column{Name: c.Name, Format: format, Unit: c.Unit}
	}

	name := "TAB"
	if ext != nil {
		name = ext.name
	} else if s, ok, _ := t.Meta.Text("EXTNAME"); ok && s != "" {
		name = s
	}
	tbl, err := fitsio.NewTable(name, cols, fitsio.BINARY_TBL)
	if err != nil {
		return nil, fmt.Errorf("creating table: %w", err)
	}

	cards := newCardList()
	if err := cards.overlay(t.Meta, "EXTNAME"); err != nil {
		tbl.Close()
		return nil, err
	}
	cards.set("EXTNAME", name, "extension name")
	if ext != nil {
		cards.set("EXTVER", ext.version, "extension version")
	}
	if err := cards.appendTo(tbl.Header()); err != nil {
		tbl.Close()
		return nil, err
	}

	row := make([]any, len(t.Columns))
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range t.Columns {
			row[j] = cellPointer(c.Values, i)
		}
		if err := tbl.Write(row...); err != nil {
			tbl.Close()
			return nil, fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return tbl, nil
}

func columnFormat(c nddata.Column) (string, error) {
	switch v := c.Values.(type) {
	case []float64:
		return "D", nil
	case []float32:
		return "E", nil
	case []int64:
		return "K", nil
	case []int32:
		return "J", nil
	case []int16:
		return "I", nil
	case []uint8:
		return "B", nil
	case []bool:
		return "L", nil
	case []string:
		width := 1
		for _, s := range v {
			width = max(width, len(s))
		}
		return strconv.Itoa(width) + "A", nil
	default:
		return "", fmt.Errorf("column %s: %w: %T", c.Name, nddata.ErrColumnType, c.Values)
	}
}

func cellPointer(values any, i int) any {
	switch v := values.(type) {
	case []float64:
		return &v[i]
	case []float32:
		return &v[i]
	case []int64:
		return &v[i]
	case []int32:
		return &v[i]
	case []int16:
		return &v[i]
	case []uint8:
		return &v[i]
	case []bool:
		return &v[i]
	case []string:
		return &v[i]
	}
	return nil
}

// HDUToTable converts a binary table HDU into a Table.
//
// Only binary tables whose columns are scalars of type L, B, I, J, K, E or
// D, or fixed width strings (rA), are converted. ASCII tables, vector,
// complex, bit and variable length columns, and columns scaled with
// TSCALn/TZEROn return an error wrapping ErrTableNotSupported; callers
// assembling a container skip such HDUs.
func HDUToTable(hdu fitsio.HDU) (*nddata.Table, error) {
	switch hdu.Type() {
	case fitsio.BINARY_TBL:
	case fitsio.ASCII_TBL:
		return nil, fmt.Errorf("%w: ASCII table", ErrTableNotSupported)
	default:
		return nil, fmt.Errorf("%w: HDU is not a table", ErrInvalidHDU)
	}
	tbl, ok := hdu.(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected table type %T", ErrInvalidHDU, hdu)
	}
	hdr := tbl.Header()

	cols := tbl.Cols()
	nrows := tbl.NumRows()
	out := &nddata.Table{
		Columns: make([]nddata.Column, len(cols)),
		Meta:    headerMetadata(hdr),
	}
	cells := make([]any, len(cols))
	for i, c := range cols {
		n := strconv.Itoa(i + 1)
		if hdr.Get("TSCAL"+n) != nil || hdr.Get("TZERO"+n) != nil {
			return nil, fmt.Errorf("%w: column %s is scaled", ErrTableNotSupported, c.Name)
		}
		code, err := scalarCode(c.Format)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		out.Columns[i] = nddata.Column{Name: c.Name, Unit: c.Unit}
		cells[i] = newCell(code)
	}

	rows, err := tbl.Read(0, nrows)
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer rows.Close()

	values := make([]columnBuilder, len(cols))
	for i := range values {
		values[i] = newColumnBuilder(cells[i], int(nrows))
	}
	for rows.Next() {
		if err := rows.Scan(cells...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		for i := range values {
			values[i].add(cells[i])
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	for i := range values {
		out.Columns[i].Values = values[i].values()
	}
	return out, nil
}

// scalarCode returns the TFORM type code of a supported column format.
func scalarCode(format string) (byte, error) {
	format = strings.TrimSpace(format)
	i := 0
	for i < len(format) && format[i] >= '0' && format[i] <= '9' {
		i++
	}
	if i == len(format) {
		return 0, fmt.Errorf("%w: invalid TFORM %q", ErrInvalidHDU, format)
	}
	repeat := 1
	if i > 0 {
		var err error
		if repeat, err = strconv.Atoi(format[:i]); err != nil {
			return 0, fmt.Errorf("%w: invalid TFORM %q", ErrInvalidHDU, format)
		}
	}
	code := format[i]
	switch code {
	case 'A':
		return code, nil
	case 'L', 'B', 'I', 'J', 'K', 'E', 'D':
		if repeat != 1 || i+1 != len(format) {
			return 0, fmt.Errorf("%w: vector column %q", ErrTableNotSupported, format)
		}
		return code, nil
	default:
		return 0, fmt.Errorf("%w: column format %q", ErrTableNotSupported, format)
	}
}

func newCell(code byte) any {
	switch code {
	case 'L':
		return new(bool)
	case 'B':
		return new(uint8)
	case 'I':
		return new(int16)
	case 'J':
		return new(int32)
	case 'K':
		return new(int64)
	case 'E':
		return new(float32)
	case 'D':
		return new(float64)
	default:
		return new(string)
	}
}

// columnBuilder accumulates scanned cells into a typed slice.
type columnBuilder struct {
	add    func(cell any)
	values func() any
}

func newColumnBuilder(cell any, capacity int) columnBuilder {
	switch cell.(type) {
	case *bool:
		return builderFor[bool](capacity)
	case *uint8:
		return builderFor[uint8](capacity)
	case *int16:
		return builderFor[int16](capacity)
	case *int32:
		return builderFor[int32](capacity)
	case *int64:
		return builderFor[int64](capacity)
	case *float32:
		return builderFor[float32](capacity)
	case *float64:
		return builderFor[float64](capacity)
	default:
		b := builderFor[string](capacity)
		add := b.add
		b.add = func(cell any) {
			s := cell.(*string)
			*s = strings.TrimRight(*s, " \x00")
			add(s)
		}
		return b
	}
}

func builderFor[T any](capacity int) columnBuilder {
	vals := make([]T, 0, capacity)
	return columnBuilder{
		add:    func(cell any) { vals = append(vals, *cell.(*T)) },
		values: func() any { return vals },
	}
}

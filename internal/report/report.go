// Package report summarizes a loaded container for the acalib command.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-acalib/nddata"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json", "yaml", "toml"}

// Report describes one file.
type Report struct {
	File    string  `json:"file" yaml:"file" toml:"file"`
	Primary string  `json:"primary" yaml:"primary" toml:"primary"`
	Images  []Image `json:"images,omitempty" yaml:"images,omitempty" toml:"images,omitempty"`
	Tables  []Table `json:"tables,omitempty" yaml:"tables,omitempty" toml:"tables,omitempty"`
}

// Image describes one dataset.
type Image struct {
	Index  int      `json:"index" yaml:"index" toml:"index"`
	Name   string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Shape  []int    `json:"shape" yaml:"shape,flow" toml:"shape"`
	Axes   []string `json:"axes" yaml:"axes,flow" toml:"axes"`
	WCS    []string `json:"wcs,omitempty" yaml:"wcs,flow,omitempty" toml:"wcs,omitempty"`
	Unit   string   `json:"unit" yaml:"unit" toml:"unit"`
	Masked int      `json:"masked" yaml:"masked" toml:"masked"`
	Min    *float64 `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max    *float64 `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
}

// Table describes one table.
type Table struct {
	Index   int      `json:"index" yaml:"index" toml:"index"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Rows    int      `json:"rows" yaml:"rows" toml:"rows"`
	Columns []Column `json:"columns" yaml:"columns" toml:"columns"`
}

// Column describes one table column.
type Column struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type"`
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty" toml:"unit,omitempty"`
}

// New summarizes c, loaded from file.
func New(file string, c *nddata.Container) Report {
	r := Report{File: file, Primary: describeRef(c.PrimaryRef())}
	for i, ds := range c.Images {
		r.Images = append(r.Images, summarizeImage(i, ds))
	}
	for i, t := range c.Tables {
		r.Tables = append(r.Tables, summarizeTable(i, t))
	}
	return r
}

func describeRef(ref nddata.Ref) string {
	if ref.Kind == nddata.RefNone {
		return "none"
	}
	return fmt.Sprintf("%s %d", ref.Kind, ref.Index)
}

func extname(m *nddata.Metadata) string {
	s, _, _ := m.Text("EXTNAME")
	return s
}

func summarizeImage(i int, ds *nddata.Dataset) Image {
	img := Image{
		Index: i,
		Name:  extname(ds.Meta),
		Shape: ds.Shape,
		Unit:  ds.Unit.String(),
	}
	for _, k := range ds.Axes {
		img.Axes = append(img.Axes, k.String())
	}
	if ds.WCS != nil {
		for _, a := range ds.WCS.Axes {
			img.WCS = append(img.WCS, a.Type)
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for j, v := range ds.Data {
		if (j < len(ds.Mask) && ds.Mask[j]) || math.IsNaN(v) {
			img.Masked++
			continue
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo <= hi {
		img.Min, img.Max = &lo, &hi
	}
	return img
}

func summarizeTable(i int, t *nddata.Table) Table {
	tab := Table{Index: i, Name: extname(t.Meta), Rows: t.NumRows()}
	for _, c := range t.Columns {
		tab.Columns = append(tab.Columns, Column{
			Name: c.Name,
			Type: strings.TrimPrefix(fmt.Sprintf("%T", c.Values), "[]"),
			Unit: c.Unit,
		})
	}
	return tab
}

// Write renders reports in the given format.
func Write(w io.Writer, format string, reports ...Report) error {
	switch format {
	case "", "text":
		for _, r := range reports {
			writeText(w, r)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		// TOML documents need a table at the top level.
		return toml.NewEncoder(w).Encode(struct {
			Files []Report `toml:"files"`
		}{reports})
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func writeText(w io.Writer, r Report) {
	fmt.Fprintf(w, "=== %s ===\n", r.File)
	fmt.Fprintf(w, "Primary: %s\n", r.Primary)
	for _, img := range r.Images {
		fmt.Fprintf(w, "Image %d %q:\n", img.Index, img.Name)
		fmt.Fprintf(w, "  Shape: %v\n", img.Shape)
		fmt.Fprintf(w, "  Axes: %s\n", strings.Join(img.Axes, ", "))
		if len(img.WCS) > 0 {
			fmt.Fprintf(w, "  WCS: %s\n", strings.Join(img.WCS, ", "))
		}
		fmt.Fprintf(w, "  Unit: %s\n", img.Unit)
		fmt.Fprintf(w, "  Masked: %d\n", img.Masked)
		if img.Min != nil {
			fmt.Fprintf(w, "  Range: [%g, %g]\n", *img.Min, *img.Max)
		}
	}
	for _, t := range r.Tables {
		fmt.Fprintf(w, "Table %d %q: %d rows\n", t.Index, t.Name, t.Rows)
		for _, c := range t.Columns {
			if c.Unit != "" {
				fmt.Fprintf(w, "  %s (%s, %s)\n", c.Name, c.Type, c.Unit)
			} else {
				fmt.Fprintf(w, "  %s (%s)\n", c.Name, c.Type)
			}
		}
	}
	fmt.Fprintln(w)
}

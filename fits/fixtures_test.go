package fits

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newImage builds an image HDU. axes are in FITS order (NAXIS1 first) and
// data is a pointer to a slice matching bitpix, or nil.
func newImage(t *testing.T, bitpix int, axes []int, data any, cards ...fitsio.Card) fitsio.Image {
	t.Helper()
	img := fitsio.NewImage(bitpix, axes)
	if len(cards) > 0 {
		if err := img.Header().Append(cards...); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if data != nil {
		if err := img.Write(data); err != nil {
			t.Fatalf("image Write failed: %v", err)
		}
	}
	return img
}

func emptyPrimary(t *testing.T) fitsio.Image {
	t.Helper()
	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		t.Fatalf("NewPrimaryHDU failed: %v", err)
	}
	return phdu
}

func newCatalog(t *testing.T, ids []int32, flux []float64) *fitsio.Table {
	t.Helper()
	cols := []fitsio.Column{
		{Name: "ID", Format: "J"},
		{Name: "FLUX", Format: "D", Unit: "Jy"},
	}
	tbl, err := fitsio.NewTable("CAT", cols, fitsio.BINARY_TBL)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	for i := range ids {
		if err := tbl.Write(&ids[i], &flux[i]); err != nil {
			t.Fatalf("table Write failed: %v", err)
		}
	}
	return tbl
}

// encodeHDUs serializes hdus into a FITS stream.
func encodeHDUs(t *testing.T, hdus ...fitsio.HDU) []byte {
	t.Helper()
	var buf bytes.Buffer
	f, err := fitsio.Create(&buf)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, hdu := range hdus {
		if err := f.Write(hdu); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		hdu.Close()
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return buf.Bytes()
}

func writeTempFITS(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

// readHDUs opens a FITS stream with fitsio directly.
func readHDUs(t *testing.T, data []byte) *fitsio.File {
	t.Helper()
	f, err := fitsio.Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("fitsio.Open failed: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func card(name string, value any) fitsio.Card {
	return fitsio.Card{Name: name, Value: value}
}

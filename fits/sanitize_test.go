package fits

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robert-malhotra/go-acalib/nddata"
	"github.com/robert-malhotra/go-acalib/wcs"
)

func TestSanitize(t *testing.T) {
	m := nddata.NewMetadata()
	m.Set("CTYPE1", "RA---SIN")
	m.Set("PC001001", 1.0)
	m.Set("PC001002", 0.0)
	m.Set("PC1_1", 1.0)
	m.Set("PC00", "no digits")

	if _, err := wcs.FromHeader(m, 2); err == nil {
		t.Fatal("expected legacy keywords to break WCS parsing")
	}

	removed := Sanitize(m)
	if diff := cmp.Diff([]string{"PC001001", "PC001002"}, removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"CTYPE1", "PC1_1", "PC00"}, m.Keys()); diff != "" {
		t.Errorf("remaining keys mismatch (-want +got):\n%s", diff)
	}
	if _, err := wcs.FromHeader(m, 2); err != nil {
		t.Errorf("FromHeader after Sanitize failed: %v", err)
	}
}

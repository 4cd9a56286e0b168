package filter

import (
	"bytes"
	"io"
	"testing"
)

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"cube.fits", "none"},
		{"cube.fits.gz", "gzip"},
		{"CUBE.FITS.GZ", "gzip"},
		{"cube.fz", "none"},
	}

	for _, tt := range tests {
		if got := ForPath(tt.path).Name(); got != tt.want {
			t.Errorf("ForPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestGzipRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("SIMPLE  =                    T"), 100)

	var buf bytes.Buffer
	w, err := NewGzip().NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, r, err := Detect(&buf)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if f.Name() != "gzip" {
		t.Fatalf("expected gzip filter, got %s", f.Name())
	}

	rc, err := f.NewReader(r)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("decoded payload does not match input")
	}
}

func TestDetectIdentity(t *testing.T) {
	payload := []byte("SIMPLE  =                    T")

	f, r, err := Detect(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if f.Name() != "none" {
		t.Fatalf("expected identity filter, got %s", f.Name())
	}

	rc, err := f.NewReader(r)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("identity filter altered the stream")
	}
}

func TestDetectEmpty(t *testing.T) {
	f, _, err := Detect(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if f.Name() != "none" {
		t.Errorf("expected identity filter for empty stream, got %s", f.Name())
	}
}

package filter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Filter wraps a byte stream with an encoding layer.
type Filter interface {
	// Name returns a short identifier for logging.
	Name() string
	// NewReader returns a reader producing decoded bytes from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
	// NewWriter returns a writer encoding bytes into w. Closing it flushes
	// the encoding but does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

var gzipMagic = []byte{0x1f, 0x8b}

// Identity passes bytes through unchanged.
type Identity struct{}

func (Identity) Name() string {
	return "none"
}

func (Identity) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func (Identity) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// Gzip implements gzip compression.
type Gzip struct {
	Level int
}

// NewGzip creates a gzip filter with the default compression level.
func NewGzip() *Gzip {
	return &Gzip{Level: gzip.DefaultCompression}
}

func (f *Gzip) Name() string {
	return "gzip"
}

func (f *Gzip) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	return zr, nil
}

func (f *Gzip) NewWriter(w io.Writer) (io.WriteCloser, error) {
	zw, err := gzip.NewWriterLevel(w, f.Level)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	return zw, nil
}

// ForPath selects the filter for writing to path.
func ForPath(path string) Filter {
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		return NewGzip()
	}
	return Identity{}
}

// Detect inspects the start of r and returns the matching filter together
// with a reader that still yields every byte of r.
func Detect(r io.Reader) (Filter, io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("peeking stream header: %w", err)
	}
	if bytes.Equal(head, gzipMagic) {
		return NewGzip(), br, nil
	}
	return Identity{}, br, nil
}

package binary

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// bytesReaderAt wraps a byte slice to implement io.ReaderAt.
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, nil
	}
	n := copy(p, b[off:])
	return n, nil
}

func TestReaderReadUint8(t *testing.T) {
	data := bytesReaderAt{0x42, 0xFF, 0x00}
	r := NewReader(data, DefaultConfig())

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0xFF {
		t.Errorf("expected 0xFF, got 0x%02x", v)
	}
}

func TestReaderReadInt16(t *testing.T) {
	// Big-endian: -2 stored as [0xFF, 0xFE]
	data := bytesReaderAt{0xFF, 0xFE, 0x01, 0x02}
	r := NewReader(data, DefaultConfig())

	v, err := r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if v != -2 {
		t.Errorf("expected -2, got %d", v)
	}

	v, err = r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if v != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v)
	}
}

func TestReaderReadInt32(t *testing.T) {
	data := bytesReaderAt{0x01, 0x02, 0x03, 0x04}
	r := NewReader(data, DefaultConfig())

	v, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if v != 0x01020304 {
		t.Errorf("expected 0x01020304, got 0x%08x", v)
	}
}

func TestReaderReadInt64(t *testing.T) {
	data := make(bytesReaderAt, 8)
	binary.BigEndian.PutUint64(data, uint64(math.MaxInt64))
	r := NewReader(data, DefaultConfig())

	v, err := r.ReadInt64()
	if err != nil {
		t.Fatalf("ReadInt64 failed: %v", err)
	}
	if v != math.MaxInt64 {
		t.Errorf("expected MaxInt64, got %d", v)
	}
}

func TestReaderReadFloats(t *testing.T) {
	data := make(bytesReaderAt, 12)
	binary.BigEndian.PutUint32(data[0:4], math.Float32bits(1.5))
	binary.BigEndian.PutUint64(data[4:12], math.Float64bits(math.NaN()))
	r := NewReader(data, DefaultConfig())

	f32, err := r.ReadFloat32()
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	if f32 != 1.5 {
		t.Errorf("expected 1.5, got %v", f32)
	}

	f64, err := r.ReadFloat64()
	if err != nil {
		t.Fatalf("ReadFloat64 failed: %v", err)
	}
	if !math.IsNaN(f64) {
		t.Errorf("expected NaN, got %v", f64)
	}
}

func TestReaderLittleEndian(t *testing.T) {
	data := bytesReaderAt{0x02, 0x01}
	r := NewReader(data, Config{ByteOrder: binary.LittleEndian})

	v, err := r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if v != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v)
	}
}

func TestReaderShortRead(t *testing.T) {
	data := bytesReaderAt{0x01, 0x02, 0x03}
	r := NewReader(data, DefaultConfig())

	if _, err := r.ReadInt32(); !errors.Is(err, ErrShortRead) {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
	// A short read leaves the position where it was.
	v, err := r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if v != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v)
	}
}

// Package binary provides low-level reads of fixed-width samples from FITS
// data payloads.
package binary

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrShortRead is returned when fewer bytes than requested remain in the payload.
var ErrShortRead = errors.New("short read: payload truncated")

// Reader reads fixed-width samples sequentially from a payload.
type Reader struct {
	r     io.ReaderAt
	order binary.ByteOrder
	pos   int64
}

// Config holds reader configuration.
type Config struct {
	ByteOrder binary.ByteOrder
}

// DefaultConfig returns the configuration for FITS payloads, which are
// always stored big-endian.
func DefaultConfig() Config {
	return Config{
		ByteOrder: binary.BigEndian,
	}
}

// NewReader creates a sample reader with the given configuration.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	order := cfg.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}
	return &Reader{
		r:     r,
		order: order,
	}
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := r.r.ReadAt(buf, r.pos)
	if got < n {
		if err == nil || errors.Is(err, io.EOF) {
			err = ErrShortRead
		}
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return int16(r.order.Uint16(buf)), nil
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(r.order.Uint32(buf)), nil
}

// ReadInt64 reads a signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(r.order.Uint64(buf)), nil
}

// ReadFloat32 reads an IEEE 754 single precision value.
func (r *Reader) ReadFloat32() (float32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(r.order.Uint32(buf)), nil
}

// ReadFloat64 reads an IEEE 754 double precision value.
func (r *Reader) ReadFloat64() (float64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(r.order.Uint64(buf)), nil
}

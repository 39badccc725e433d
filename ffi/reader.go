package ffi

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wippyai/ffi-bindgen/errors"
)

// Reader consumes a big-endian encoding produced by Writer. Every read
// advances the cursor by exactly the bytes the matching write produced.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the cursor offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Done fails when bytes remain unread.
func (r *Reader) Done() error {
	if n := r.Remaining(); n != 0 {
		return errors.TrailingBytes(n)
	}
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, errors.ShortBuffer(nil, n, r.Remaining())
	}
	p := r.data[r.pos : r.pos+n]
	r.pos += n
	return p, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	p, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadU16() (uint16, error) {
	p, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	p, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadU64() (uint64, error) {
	p, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

// ReadBool accepts only 0 and 1.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.InvalidData(errors.PhaseRead, nil, fmt.Sprintf("invalid bool byte %d", v))
}

// ReadLength reads an i32 count or length and rejects negative values.
func (r *Reader) ReadLength() (int, error) {
	n, err := r.ReadI32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.InvalidData(errors.PhaseRead, nil, fmt.Sprintf("negative length %d", n))
	}
	return int(n), nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadLength()
	if err != nil {
		return "", err
	}
	p, err := r.take(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", errors.InvalidUTF8(errors.PhaseRead, nil, p)
	}
	return string(p), nil
}

// ReadDiscriminant reads a 1-based i32 variant index of a type with count
// variants.
func (r *Reader) ReadDiscriminant(typ string, count int) (int32, error) {
	d, err := r.ReadI32()
	if err != nil {
		return 0, err
	}
	if d < 1 || int(d) > count {
		return 0, errors.InvalidDiscriminant(nil, typ, d, count)
	}
	return d, nil
}

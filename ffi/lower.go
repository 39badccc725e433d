package ffi

import (
	"fmt"
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-bindgen/errors"
)

// LowerInto serializes v into a newly allocated buffer owned by the caller.
// Nothing is allocated when encoding fails. Objects inside v are only held
// while encoding; arguments holding objects go through Lower, which keeps
// them alive for the call.
func LowerInto[T any](n Native, c Codec[T], v T) (Buffer, error) {
	b, held, err := lowerHeld(n, c, v)
	for _, h := range held {
		h.Release()
	}
	return b, err
}

// lowerHeld is LowerInto returning the references to the objects written.
// On error no buffer is allocated and no reference is returned.
func lowerHeld[T any](n Native, c Codec[T], v T) (Buffer, []*ObjectHandle, error) {
	w := NewWriter()
	defer w.Release()

	if err := c.Write(w, v); err != nil {
		return Buffer{}, nil, err
	}
	b, err := BufferFromBytes(n, w.Bytes())
	if err != nil {
		return Buffer{}, nil, err
	}
	return b, w.takeHeld(), nil
}

// LiftFrom decodes an owned buffer and releases it exactly once, also when
// decoding fails. Bytes left after the value are an error.
func LiftFrom[T any](n Native, c Codec[T], b Buffer) (T, error) {
	var zero T
	data, err := b.Bytes(n)
	if ferr := FreeBuffer(n, b); ferr != nil {
		return zero, ferr
	}
	if err != nil {
		return zero, err
	}

	r := NewReader(data)
	v, err := c.Read(r)
	if err != nil {
		return zero, err
	}
	if err := r.Done(); err != nil {
		return zero, err
	}
	return v, nil
}

// LowerString passes a string as its raw UTF-8 bytes; the buffer length
// carries the size.
func LowerString(n Native, s string) (Buffer, error) {
	return BufferFromBytes(n, []byte(s))
}

// LiftString is the inverse of LowerString and releases the buffer.
func LiftString(n Native, b Buffer) (string, error) {
	data, err := b.Bytes(n)
	if ferr := FreeBuffer(n, b); ferr != nil {
		return "", ferr
	}
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(errors.PhaseLift, nil, data)
	}
	return string(data), nil
}

// releaseQuietly frees b when an error path has already been chosen.
func releaseQuietly(n Native, b Buffer) {
	if err := FreeBuffer(n, b); err != nil {
		Logger().Warn("release buffer", zap.Uint32("ptr", b.Data), zap.Error(err))
	}
}

// Scalar slot conversions. Integers narrower than 32 bits travel in an i32
// slot, unsigned integers share the slot of the signed type of the same
// width.

func LowerInt8(v int8) uint64     { return api.EncodeI32(int32(v)) }
func LowerUInt8(v uint8) uint64   { return api.EncodeI32(int32(int8(v))) }
func LowerInt16(v int16) uint64   { return api.EncodeI32(int32(v)) }
func LowerUInt16(v uint16) uint64 { return api.EncodeI32(int32(int16(v))) }
func LowerInt32(v int32) uint64   { return api.EncodeI32(v) }
func LowerUInt32(v uint32) uint64 { return api.EncodeU32(v) }
func LowerInt64(v int64) uint64   { return api.EncodeI64(v) }
func LowerUInt64(v uint64) uint64 { return v }

func LowerFloat32(v float32) uint64 { return api.EncodeF32(v) }
func LowerFloat64(v float64) uint64 { return api.EncodeF64(v) }

func LowerBool(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func LiftInt8(s uint64) int8     { return int8(api.DecodeI32(s)) }
func LiftUInt8(s uint64) uint8   { return uint8(api.DecodeI32(s)) }
func LiftInt16(s uint64) int16   { return int16(api.DecodeI32(s)) }
func LiftUInt16(s uint64) uint16 { return uint16(api.DecodeI32(s)) }
func LiftInt32(s uint64) int32   { return api.DecodeI32(s) }
func LiftUInt32(s uint64) uint32 { return api.DecodeU32(s) }
func LiftInt64(s uint64) int64   { return int64(s) }
func LiftUInt64(s uint64) uint64 { return s }

func LiftFloat32(s uint64) float32 { return api.DecodeF32(s) }
func LiftFloat64(s uint64) float64 { return api.DecodeF64(s) }

// LiftBool accepts only 0 and 1 in the low byte.
func LiftBool(s uint64) (bool, error) {
	switch int8(s) {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.InvalidData(errors.PhaseLift, nil, fmt.Sprintf("invalid bool %d", int8(s)))
}

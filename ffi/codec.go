package ffi

import (
	"fmt"
	"math"
	"time"

	"github.com/wippyai/ffi-bindgen/errors"
)

// Codec serializes one Go type in the buffer wire format. Read must consume
// exactly the bytes Write produced.
type Codec[T any] interface {
	Write(w *Writer, v T) error
	Read(r *Reader) (T, error)
}

// CodecFuncs builds a Codec from a pair of functions.
type CodecFuncs[T any] struct {
	WriteFunc func(w *Writer, v T) error
	ReadFunc  func(r *Reader) (T, error)
}

func (c CodecFuncs[T]) Write(w *Writer, v T) error { return c.WriteFunc(w, v) }
func (c CodecFuncs[T]) Read(r *Reader) (T, error)  { return c.ReadFunc(r) }

type (
	int8Codec      struct{}
	uint8Codec     struct{}
	int16Codec     struct{}
	uint16Codec    struct{}
	int32Codec     struct{}
	uint32Codec    struct{}
	int64Codec     struct{}
	uint64Codec    struct{}
	float32Codec   struct{}
	float64Codec   struct{}
	boolCodec      struct{}
	stringCodec    struct{}
	timestampCodec struct{}
	durationCodec  struct{}
)

// Primitive codecs.
var (
	Int8      Codec[int8]          = int8Codec{}
	UInt8     Codec[uint8]         = uint8Codec{}
	Int16     Codec[int16]         = int16Codec{}
	UInt16    Codec[uint16]        = uint16Codec{}
	Int32     Codec[int32]         = int32Codec{}
	UInt32    Codec[uint32]        = uint32Codec{}
	Int64     Codec[int64]         = int64Codec{}
	UInt64    Codec[uint64]        = uint64Codec{}
	Float32   Codec[float32]       = float32Codec{}
	Float64   Codec[float64]       = float64Codec{}
	Bool      Codec[bool]          = boolCodec{}
	String    Codec[string]        = stringCodec{}
	Timestamp Codec[time.Time]     = timestampCodec{}
	Duration  Codec[time.Duration] = durationCodec{}
)

func (int8Codec) Write(w *Writer, v int8) error     { w.WriteI8(v); return nil }
func (int8Codec) Read(r *Reader) (int8, error)      { return r.ReadI8() }
func (uint8Codec) Write(w *Writer, v uint8) error   { w.WriteU8(v); return nil }
func (uint8Codec) Read(r *Reader) (uint8, error)    { return r.ReadU8() }
func (int16Codec) Write(w *Writer, v int16) error   { w.WriteI16(v); return nil }
func (int16Codec) Read(r *Reader) (int16, error)    { return r.ReadI16() }
func (uint16Codec) Write(w *Writer, v uint16) error { w.WriteU16(v); return nil }
func (uint16Codec) Read(r *Reader) (uint16, error)  { return r.ReadU16() }
func (int32Codec) Write(w *Writer, v int32) error   { w.WriteI32(v); return nil }
func (int32Codec) Read(r *Reader) (int32, error)    { return r.ReadI32() }
func (uint32Codec) Write(w *Writer, v uint32) error { w.WriteU32(v); return nil }
func (uint32Codec) Read(r *Reader) (uint32, error)  { return r.ReadU32() }
func (int64Codec) Write(w *Writer, v int64) error   { w.WriteI64(v); return nil }
func (int64Codec) Read(r *Reader) (int64, error)    { return r.ReadI64() }
func (uint64Codec) Write(w *Writer, v uint64) error { w.WriteU64(v); return nil }
func (uint64Codec) Read(r *Reader) (uint64, error)  { return r.ReadU64() }

func (float32Codec) Write(w *Writer, v float32) error { w.WriteF32(v); return nil }
func (float32Codec) Read(r *Reader) (float32, error)  { return r.ReadF32() }
func (float64Codec) Write(w *Writer, v float64) error { w.WriteF64(v); return nil }
func (float64Codec) Read(r *Reader) (float64, error)  { return r.ReadF64() }
func (boolCodec) Write(w *Writer, v bool) error       { w.WriteBool(v); return nil }
func (boolCodec) Read(r *Reader) (bool, error)        { return r.ReadBool() }

func (stringCodec) Write(w *Writer, v string) error { return w.WriteString(v) }
func (stringCodec) Read(r *Reader) (string, error)  { return r.ReadString() }

const nanosPerSecond = int64(time.Second)

// Timestamps are i64 seconds since the epoch and u32 nanoseconds; times
// before the epoch have negative seconds and non-negative nanoseconds.
func (timestampCodec) Write(w *Writer, v time.Time) error {
	w.WriteI64(v.Unix())
	w.WriteU32(uint32(v.Nanosecond()))
	return nil
}

func (timestampCodec) Read(r *Reader) (time.Time, error) {
	secs, err := r.ReadI64()
	if err != nil {
		return time.Time{}, err
	}
	nanos, err := r.ReadU32()
	if err != nil {
		return time.Time{}, err
	}
	if int64(nanos) >= nanosPerSecond {
		return time.Time{}, errors.InvalidData(errors.PhaseRead, nil,
			fmt.Sprintf("timestamp nanoseconds %d out of range", nanos))
	}
	return time.Unix(secs, int64(nanos)).UTC(), nil
}

// Durations are u64 seconds and u32 nanoseconds. Negative durations have no
// encoding.
func (durationCodec) Write(w *Writer, v time.Duration) error {
	if v < 0 {
		return errors.InvalidData(errors.PhaseWrite, nil, fmt.Sprintf("negative duration %s", v))
	}
	w.WriteU64(uint64(v / time.Second))
	w.WriteU32(uint32(v % time.Second))
	return nil
}

func (durationCodec) Read(r *Reader) (time.Duration, error) {
	secs, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	nanos, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if int64(nanos) >= nanosPerSecond {
		return 0, errors.InvalidData(errors.PhaseRead, nil,
			fmt.Sprintf("duration nanoseconds %d out of range", nanos))
	}
	if secs > uint64(math.MaxInt64/nanosPerSecond) {
		return 0, errors.Overflow(errors.PhaseRead, nil, secs, "time.Duration")
	}
	d := time.Duration(secs)*time.Second + time.Duration(nanos)
	if d < 0 {
		return 0, errors.Overflow(errors.PhaseRead, nil, secs, "time.Duration")
	}
	return d, nil
}

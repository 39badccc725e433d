package ffi

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ffi-bindgen/errors"
)

func roundTrip[T any](t *testing.T, c Codec[T], v T) T {
	t.Helper()
	w := NewWriter()
	defer w.Release()
	require.NoError(t, c.Write(w, v))

	r := NewReader(append([]byte(nil), w.Bytes()...))
	got, err := c.Read(r)
	require.NoError(t, err)
	require.NoError(t, r.Done())
	return got
}

func TestPrimitiveRoundTrip(t *testing.T) {
	assert.Equal(t, int8(math.MinInt8), roundTrip(t, Int8, math.MinInt8))
	assert.Equal(t, uint8(math.MaxUint8), roundTrip(t, UInt8, math.MaxUint8))
	assert.Equal(t, int16(math.MinInt16), roundTrip(t, Int16, math.MinInt16))
	assert.Equal(t, uint16(math.MaxUint16), roundTrip(t, UInt16, math.MaxUint16))
	assert.Equal(t, int32(math.MinInt32), roundTrip(t, Int32, math.MinInt32))
	assert.Equal(t, uint32(math.MaxUint32), roundTrip(t, UInt32, math.MaxUint32))
	assert.Equal(t, int64(math.MinInt64), roundTrip(t, Int64, math.MinInt64))
	assert.Equal(t, uint64(math.MaxUint64), roundTrip(t, UInt64, math.MaxUint64))
	assert.Equal(t, float32(-1.5), roundTrip(t, Float32, -1.5))
	assert.Equal(t, math.Pi, roundTrip(t, Float64, math.Pi))
	assert.True(t, roundTrip(t, Bool, true))
	assert.False(t, roundTrip(t, Bool, false))
	assert.Equal(t, "", roundTrip(t, String, ""))
	assert.Equal(t, "héllo, 世界", roundTrip(t, String, "héllo, 世界"))

	ts := time.Date(2021, 3, 4, 5, 6, 7, 890, time.UTC)
	assert.True(t, ts.Equal(roundTrip(t, Timestamp, ts)))
	before := time.Date(1960, 1, 1, 0, 0, 0, 500, time.UTC)
	assert.True(t, before.Equal(roundTrip(t, Timestamp, before)))

	assert.Equal(t, 90*time.Minute+3, roundTrip(t, Duration, 90*time.Minute+3))
	assert.Equal(t, time.Duration(0), roundTrip(t, Duration, 0))
}

func TestFloatSpecialValues(t *testing.T) {
	assert.True(t, math.IsNaN(roundTrip(t, Float64, math.NaN())))
	assert.True(t, math.IsInf(roundTrip(t, Float64, math.Inf(-1)), -1))
	assert.True(t, math.IsNaN(float64(roundTrip(t, Float32, float32(math.NaN())))))
}

func TestWireLayout(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer) error
		want  []byte
	}{
		{"i32", func(w *Writer) error { return Int32.Write(w, 1) }, []byte{0, 0, 0, 1}},
		{"u16", func(w *Writer) error { return UInt16.Write(w, 0x0102) }, []byte{1, 2}},
		{"bool", func(w *Writer) error { return Bool.Write(w, true) }, []byte{1}},
		{"string", func(w *Writer) error { return String.Write(w, "ab") }, []byte{0, 0, 0, 2, 'a', 'b'}},
		{"none", func(w *Writer) error { return Optional(Int8).Write(w, nil) }, []byte{0}},
		{"some", func(w *Writer) error {
			v := int8(-1)
			return Optional(Int8).Write(w, &v)
		}, []byte{1, 0xff}},
		{"sequence", func(w *Writer) error { return Sequence(UInt8).Write(w, []uint8{7, 8}) }, []byte{0, 0, 0, 2, 7, 8}},
		{"map sorted", func(w *Writer) error {
			return Map(UInt8).Write(w, map[string]uint8{"b": 2, "a": 1})
		}, []byte{0, 0, 0, 2, 0, 0, 0, 1, 'a', 1, 0, 0, 0, 1, 'b', 2}},
		{"duration", func(w *Writer) error { return Duration.Write(w, time.Second+2) }, []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			defer w.Release()
			require.NoError(t, tt.write(w))
			assert.Equal(t, tt.want, w.Bytes())
		})
	}
}

func TestNestedCompounds(t *testing.T) {
	c := Optional(Sequence(Map(String)))

	v := []map[string]string{
		{"a": "x", "b": ""},
		{},
		{"z": "日本"},
	}
	got := roundTrip(t, c, &v)
	require.NotNil(t, got)
	assert.Equal(t, v, *got)

	assert.Nil(t, roundTrip(t, c, nil))
}

type shape struct {
	name   string
	radius *float64
	tags   []string
}

var shapeCodec = CodecFuncs[shape]{
	WriteFunc: func(w *Writer, v shape) error {
		if err := String.Write(w, v.name); err != nil {
			return err
		}
		if err := Optional(Float64).Write(w, v.radius); err != nil {
			return err
		}
		return Sequence(String).Write(w, v.tags)
	},
	ReadFunc: func(r *Reader) (shape, error) {
		var v shape
		var err error
		if v.name, err = String.Read(r); err != nil {
			return v, err
		}
		if v.radius, err = Optional(Float64).Read(r); err != nil {
			return v, err
		}
		v.tags, err = Sequence(String).Read(r)
		return v, err
	},
}

type direction int32

const (
	north direction = iota + 1
	south
)

var directionCodec = CodecFuncs[direction]{
	WriteFunc: func(w *Writer, v direction) error {
		w.WriteI32(int32(v))
		return nil
	},
	ReadFunc: func(r *Reader) (direction, error) {
		d, err := r.ReadDiscriminant("Direction", 2)
		return direction(d), err
	},
}

func TestRecordAndEnumCodecs(t *testing.T) {
	r := 2.5
	in := shape{name: "disc", radius: &r, tags: []string{"round", "flat"}}
	assert.Equal(t, in, roundTrip(t, shapeCodec, in))

	assert.Equal(t, []direction{south, north}, roundTrip[[]direction](t, Sequence[direction](directionCodec), []direction{south, north}))
}

func TestReaderErrors(t *testing.T) {
	t.Run("short buffer", func(t *testing.T) {
		r := NewReader([]byte{0, 0, 1})
		_, err := r.ReadI32()
		assert.ErrorIs(t, err, errors.ShortBuffer(nil, 0, 0))
		assert.Equal(t, 0, r.Pos())
	})

	t.Run("short string", func(t *testing.T) {
		_, err := NewReader([]byte{0, 0, 0, 5, 'a'}).ReadString()
		assert.ErrorIs(t, err, errors.ShortBuffer(nil, 0, 0))
	})

	t.Run("negative length", func(t *testing.T) {
		_, err := Sequence(Int8).Read(NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
		require.Error(t, err)
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.KindInvalidData, e.Kind)
	})

	t.Run("invalid utf8", func(t *testing.T) {
		_, err := NewReader([]byte{0, 0, 0, 1, 0xff}).ReadString()
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.KindInvalidUTF8, e.Kind)
	})

	t.Run("invalid bool", func(t *testing.T) {
		_, err := Bool.Read(NewReader([]byte{2}))
		require.Error(t, err)
	})

	t.Run("discriminant zero", func(t *testing.T) {
		_, err := directionCodec.Read(NewReader([]byte{0, 0, 0, 0}))
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.KindInvalidDiscriminant, e.Kind)
	})

	t.Run("discriminant past end", func(t *testing.T) {
		_, err := directionCodec.Read(NewReader([]byte{0, 0, 0, 3}))
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.KindInvalidDiscriminant, e.Kind)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		r := NewReader([]byte{1, 2})
		_, err := r.ReadU8()
		require.NoError(t, err)
		assert.Equal(t, 1, r.Remaining())
		assert.ErrorIs(t, r.Done(), errors.TrailingBytes(0))
	})

	t.Run("timestamp nanos", func(t *testing.T) {
		_, err := Timestamp.Read(NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0x3b, 0x9a, 0xca, 0x00}))
		require.Error(t, err)
	})

	t.Run("duration overflow", func(t *testing.T) {
		_, err := Duration.Read(NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}))
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.KindOverflow, e.Kind)
	})
}

func TestNegativeDuration(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	require.Error(t, Duration.Write(w, -time.Second))
}

func TestWriterReuse(t *testing.T) {
	w := NewWriter()
	w.WriteString("abc")
	assert.Equal(t, 7, w.Len())
	w.Reset()
	assert.Equal(t, 0, w.Len())
	w.Release()

	w2 := NewWriter()
	defer w2.Release()
	assert.Equal(t, 0, w2.Len())
}

func TestLengthOverflow(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	err := w.WriteLength(math.MaxInt32+1, "string")
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindOverflow, e.Kind)
	assert.Equal(t, errors.PhaseWrite, e.Phase)
	assert.Equal(t, 0, w.Len())

	require.NoError(t, w.WriteLength(math.MaxInt32, "string"))
	assert.Equal(t, []byte{0x7f, 0xff, 0xff, 0xff}, w.Bytes())

	// Zero-size elements make a slice longer than an i32 count cheap.
	unit := CodecFuncs[struct{}]{
		WriteFunc: func(*Writer, struct{}) error { return nil },
		ReadFunc:  func(*Reader) (struct{}, error) { return struct{}{}, nil },
	}
	w.Reset()
	err = Sequence[struct{}](unit).Write(w, make([]struct{}, math.MaxInt32+1))
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindOverflow, e.Kind)
	assert.Equal(t, 0, w.Len())
}

func TestMapDuplicateKey(t *testing.T) {
	w := NewWriter()
	defer w.Release()
	w.WriteI32(2)
	require.NoError(t, w.WriteString("k"))
	w.WriteI32(1)
	require.NoError(t, w.WriteString("k"))
	w.WriteI32(2)

	_, err := Map(Int32).Read(NewReader(w.Bytes()))
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindInvalidData, e.Kind)
	assert.Equal(t, errors.PhaseRead, e.Phase)
	assert.Contains(t, err.Error(), `"k"`)
}

func TestEmptyCompoundsReadNonNil(t *testing.T) {
	seq := roundTrip(t, Sequence(String), nil)
	assert.NotNil(t, seq)
	assert.Empty(t, seq)

	m := roundTrip(t, Map(String), nil)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

package ffi

import (
	"fmt"
	"sort"

	"github.com/wippyai/ffi-bindgen/errors"
)

type optionalCodec[T any] struct{ inner Codec[T] }

// Optional encodes a u8 presence tag followed by the value when present.
func Optional[T any](inner Codec[T]) Codec[*T] {
	return optionalCodec[T]{inner: inner}
}

func (c optionalCodec[T]) Write(w *Writer, v *T) error {
	if v == nil {
		w.WriteU8(0)
		return nil
	}
	w.WriteU8(1)
	return c.inner.Write(w, *v)
}

func (c optionalCodec[T]) Read(r *Reader) (*T, error) {
	present, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := c.inner.Read(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type sequenceCodec[T any] struct{ inner Codec[T] }

// Sequence encodes an i32 element count followed by the elements in order.
// Nil and empty slices both encode as count 0 and read back as an empty,
// non-nil slice.
func Sequence[T any](inner Codec[T]) Codec[[]T] {
	return sequenceCodec[T]{inner: inner}
}

func (c sequenceCodec[T]) Write(w *Writer, v []T) error {
	if err := w.WriteLength(len(v), "sequence"); err != nil {
		return err
	}
	for _, item := range v {
		if err := c.inner.Write(w, item); err != nil {
			return err
		}
	}
	return nil
}

func (c sequenceCodec[T]) Read(r *Reader) ([]T, error) {
	n, err := r.ReadLength()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, min(n, r.Remaining()))
	for i := 0; i < n; i++ {
		item, err := c.inner.Read(r)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

type mapCodec[T any] struct{ inner Codec[T] }

// Map encodes an i32 entry count followed by string key and value pairs.
// Keys are written in sorted order so equal maps encode identically. A key
// read twice is invalid data. Nil maps read back as empty, non-nil maps.
func Map[T any](inner Codec[T]) Codec[map[string]T] {
	return mapCodec[T]{inner: inner}
}

func (c mapCodec[T]) Write(w *Writer, v map[string]T) error {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := w.WriteLength(len(keys), "map"); err != nil {
		return err
	}
	for _, k := range keys {
		if err := w.WriteString(k); err != nil {
			return err
		}
		if err := c.inner.Write(w, v[k]); err != nil {
			return err
		}
	}
	return nil
}

func (c mapCodec[T]) Read(r *Reader) (map[string]T, error) {
	n, err := r.ReadLength()
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, min(n, r.Remaining()))
	for i := 0; i < n; i++ {
		k, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		if _, dup := out[k]; dup {
			return nil, errors.InvalidData(errors.PhaseRead, nil, fmt.Sprintf("duplicate map key %q", k))
		}
		v, err := c.inner.Read(r)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

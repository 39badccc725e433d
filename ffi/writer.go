package ffi

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/wippyai/ffi-bindgen/errors"
)

// Writer is a growable big-endian byte builder. Objects written to it stay
// referenced until the writer is reset or their references are taken over.
type Writer struct {
	buf  []byte
	held []*ObjectHandle
}

var writerPool = sync.Pool{
	New: func() any {
		return &Writer{buf: make([]byte, 0, 64)}
	},
}

const maxPooledWriterCapacity = 64 * 1024

// NewWriter returns an empty writer from the pool.
func NewWriter() *Writer {
	return writerPool.Get().(*Writer)
}

// Release returns the writer to the pool. The writer and any slice obtained
// from Bytes are invalid afterwards.
func (w *Writer) Release() {
	w.Reset()
	// Only pool small buffers to prevent memory bloat
	if cap(w.buf) > maxPooledWriterCapacity {
		return
	}
	writerPool.Put(w)
}

// Reset discards everything written and drops the object references.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	for _, h := range w.held {
		h.Release()
	}
	w.held = w.held[:0]
}

// WriteObject writes the pointer guarded by h as a u64 and holds a
// reference to the object.
func (w *Writer) WriteObject(h *ObjectHandle) error {
	ptr, err := h.Acquire()
	if err != nil {
		return err
	}
	w.held = append(w.held, h)
	w.WriteU64(ptr)
	return nil
}

// takeHeld hands the object references to the caller.
func (w *Writer) takeHeld() []*ObjectHandle {
	if len(w.held) == 0 {
		return nil
	}
	held := append([]*ObjectHandle(nil), w.held...)
	w.held = w.held[:0]
	return held
}

// Bytes returns the encoded bytes. The slice aliases the writer.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) WriteU8(v uint8)   { w.buf = append(w.buf, v) }
func (w *Writer) WriteI8(v int8)    { w.buf = append(w.buf, uint8(v)) }
func (w *Writer) WriteU16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *Writer) WriteI16(v int16)  { w.WriteU16(uint16(v)) }
func (w *Writer) WriteU32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }
func (w *Writer) WriteI32(v int32)  { w.WriteU32(uint32(v)) }
func (w *Writer) WriteU64(v uint64) { w.buf = binary.BigEndian.AppendUint64(w.buf, v) }
func (w *Writer) WriteI64(v int64)  { w.WriteU64(uint64(v)) }

func (w *Writer) WriteF32(v float32) { w.WriteU32(math.Float32bits(v)) }
func (w *Writer) WriteF64(v float64) { w.WriteU64(math.Float64bits(v)) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
		return
	}
	w.WriteU8(0)
}

// WriteLength writes a byte length or element count as an i32. what names
// the counted value in the overflow error.
func (w *Writer) WriteLength(n int, what string) error {
	if n < 0 || n > math.MaxInt32 {
		return errors.Overflow(errors.PhaseWrite, nil, n, what+" length")
	}
	w.WriteI32(int32(n))
	return nil
}

// WriteString writes an i32 byte length followed by the UTF-8 bytes.
func (w *Writer) WriteString(v string) error {
	if err := w.WriteLength(len(v), "string"); err != nil {
		return err
	}
	w.buf = append(w.buf, v...)
	return nil
}

// WriteRaw appends bytes without a length prefix.
func (w *Writer) WriteRaw(p []byte) { w.buf = append(w.buf, p...) }

package ffi

import (
	"encoding/binary"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/ffi-bindgen/errors"
)

// BufferSize is the size of a Buffer descriptor in native memory.
const BufferSize = 12

// Buffer describes bytes owned by the native side. A Buffer passed by value
// transfers ownership: the receiver must release it exactly once.
type Buffer struct {
	Capacity uint32
	Len      uint32
	Data     uint32
}

// IsNull reports whether the buffer owns no memory.
func (b Buffer) IsNull() bool { return b.Data == 0 }

// Slots flattens the descriptor into three argument slots.
func (b Buffer) Slots() []uint64 {
	return []uint64{api.EncodeU32(b.Capacity), api.EncodeU32(b.Len), api.EncodeU32(b.Data)}
}

// BufferFromSlots rebuilds a descriptor from three result slots.
func BufferFromSlots(s []uint64) (Buffer, error) {
	if len(s) < 3 {
		return Buffer{}, errors.InvalidData(errors.PhaseLift, nil,
			fmt.Sprintf("buffer needs 3 slots, got %d", len(s)))
	}
	return Buffer{Capacity: api.DecodeU32(s[0]), Len: api.DecodeU32(s[1]), Data: api.DecodeU32(s[2])}, nil
}

// ForeignBytes is a borrowed view of caller memory; the callee copies it
// and never frees it.
type ForeignBytes struct {
	Len  int32
	Data uint32
}

func (f ForeignBytes) Slots() []uint64 {
	return []uint64{api.EncodeI32(f.Len), api.EncodeU32(f.Data)}
}

// AllocBuffer allocates a buffer of the given capacity. A zero capacity
// yields a null buffer without touching the allocator.
func AllocBuffer(n Native, capacity uint32) (Buffer, error) {
	if capacity == 0 {
		return Buffer{}, nil
	}
	ptr, err := n.Alloc(capacity, 1)
	if err != nil {
		return Buffer{}, errors.AllocationFailed(errors.PhaseLower, capacity, err)
	}
	return Buffer{Capacity: capacity, Data: ptr}, nil
}

// BufferFromBytes copies data into a newly allocated buffer.
func BufferFromBytes(n Native, data []byte) (Buffer, error) {
	b, err := AllocBuffer(n, uint32(len(data)))
	if err != nil || b.IsNull() {
		return b, err
	}
	if err := n.Write(b.Data, data); err != nil {
		_ = n.Free(b.Data, b.Capacity, 1)
		return Buffer{}, errors.Wrap(errors.PhaseLower, errors.KindIO, err, "copy into buffer")
	}
	b.Len = uint32(len(data))
	return b, nil
}

// FreeBuffer releases b. Null buffers are ignored.
func FreeBuffer(n Native, b Buffer) error {
	if b.IsNull() {
		return nil
	}
	return n.Free(b.Data, b.Capacity, 1)
}

// Bytes copies the buffer's contents out of native memory.
func (b Buffer) Bytes(m Memory) ([]byte, error) {
	if b.Len > b.Capacity {
		return nil, errors.InvalidData(errors.PhaseLift, nil,
			fmt.Sprintf("buffer length %d exceeds capacity %d", b.Len, b.Capacity))
	}
	if b.Len == 0 {
		return nil, nil
	}
	if b.IsNull() {
		return nil, errors.InvalidData(errors.PhaseLift, nil, "null buffer with non-zero length")
	}
	data, err := m.Read(b.Data, b.Len)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLift, errors.KindIO, err, "copy out of buffer")
	}
	return data, nil
}

// LoadBuffer reads a descriptor stored in native memory at ptr.
func LoadBuffer(m Memory, ptr uint32) (Buffer, error) {
	raw, err := m.Read(ptr, BufferSize)
	if err != nil {
		return Buffer{}, err
	}
	return Buffer{
		Capacity: binary.LittleEndian.Uint32(raw[0:]),
		Len:      binary.LittleEndian.Uint32(raw[4:]),
		Data:     binary.LittleEndian.Uint32(raw[8:]),
	}, nil
}

// StoreBuffer writes a descriptor into native memory at ptr.
func StoreBuffer(m Memory, ptr uint32, b Buffer) error {
	raw := make([]byte, 0, BufferSize)
	raw = binary.LittleEndian.AppendUint32(raw, b.Capacity)
	raw = binary.LittleEndian.AppendUint32(raw, b.Len)
	raw = binary.LittleEndian.AppendUint32(raw, b.Data)
	return m.Write(ptr, raw)
}

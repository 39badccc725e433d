package ffi

import (
	"github.com/wippyai/ffi-bindgen/errors"
)

// Memory is the address space of a native library.
type Memory interface {
	// Read copies length bytes starting at offset.
	Read(offset, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator hands out native memory. Free of a pointer that is not live
// fails instead of corrupting the allocator.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32) error
}

// Native is the memory and allocator of one native library.
type Native interface {
	Memory
	Allocator
}

// ledger records live allocations so each pointer is released at most once.
type ledger struct {
	live   map[uint32]uint32
	allocs int
	frees  int
}

func newLedger() ledger {
	return ledger{live: make(map[uint32]uint32)}
}

func (l *ledger) add(ptr, size uint32) {
	l.live[ptr] = size
	l.allocs++
}

func (l *ledger) remove(ptr uint32) (uint32, error) {
	size, ok := l.live[ptr]
	if !ok {
		return 0, errors.DoubleFree(ptr)
	}
	delete(l.live, ptr)
	l.frees++
	return size, nil
}

// bump hands out addresses from a region that only grows. Address 0 is
// never returned.
type bump struct {
	next uint32
}

func (b *bump) take(size, align uint32) (start, end uint32) {
	if align == 0 {
		align = 1
	}
	if size == 0 {
		size = 1
	}
	start = (b.next + align - 1) &^ (align - 1)
	if start == 0 {
		start = align
	}
	end = start + size
	b.next = end
	return start, end
}

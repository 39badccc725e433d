package ffi

import (
	"fmt"
	"sync"

	"github.com/wippyai/ffi-bindgen/errors"
)

const (
	heapBase        = 8
	defaultHeapSize = 64 * 1024
	maxHeapSize     = 1 << 30
)

// Heap is an in-process Native backed by a Go byte slice. It keeps an
// allocation ledger so tests can assert that every buffer is released
// exactly once.
type Heap struct {
	mem    []byte
	bump   bump
	ledger ledger
	mu     sync.Mutex
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{
		mem:    make([]byte, defaultHeapSize),
		bump:   bump{next: heapBase},
		ledger: newLedger(),
	}
}

func (h *Heap) Read(offset, length uint32) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	end := uint64(offset) + uint64(length)
	if offset == 0 && length > 0 || end > uint64(len(h.mem)) {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	out := make([]byte, length)
	copy(out, h.mem[offset:end])
	return out, nil
}

func (h *Heap) Write(offset uint32, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	end := uint64(offset) + uint64(len(data))
	if offset == 0 && len(data) > 0 || end > uint64(len(h.mem)) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	copy(h.mem[offset:end], data)
	return nil
}

func (h *Heap) Alloc(size, align uint32) (uint32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	start, end := h.bump.take(size, align)
	if end > maxHeapSize {
		return 0, errors.AllocationFailed(errors.PhaseRuntime, size, fmt.Errorf("heap limit %d exceeded", maxHeapSize))
	}
	if int(end) > len(h.mem) {
		grown := make([]byte, max(int(end), 2*len(h.mem)))
		copy(grown, h.mem)
		h.mem = grown
	}
	h.ledger.add(start, size)
	return start, nil
}

func (h *Heap) Free(ptr, _, _ uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	size, err := h.ledger.remove(ptr)
	if err != nil {
		return err
	}
	clear(h.mem[ptr : ptr+size])
	return nil
}

// Live returns the number of allocations not yet freed.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.ledger.live)
}

// Stats returns the number of allocations and frees performed.
func (h *Heap) Stats() (allocs, frees int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ledger.allocs, h.ledger.frees
}

package ffi

import (
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/ffi-bindgen/errors"
)

// ErrObjectDisposed matches, with errors.Is, every error returned for a call
// on a destroyed object.
var ErrObjectDisposed = errors.Disposed("")

// ObjectHandle guards a native object pointer shared by concurrent callers.
//
// The call counter starts at one for the handle's own reference. Each call
// holds an extra count while it runs; Destroy drops the handle's reference
// at most once. The native free runs exactly once, when the counter reaches
// zero, so a call in flight keeps the object alive past Destroy.
type ObjectHandle struct {
	free      func(ptr uint64) error
	name      string
	ptr       uint64
	calls     atomic.Int64
	destroyed atomic.Bool
}

// NewObjectHandle wraps ptr. free is called once with ptr when the last
// reference goes away.
func NewObjectHandle(name string, ptr uint64, free func(ptr uint64) error) *ObjectHandle {
	h := &ObjectHandle{free: free, name: name, ptr: ptr}
	h.calls.Store(1)
	return h
}

// Acquire takes a reference to the object for passing its pointer to native
// code. Every successful Acquire must be paired with one Release. It fails
// with a disposed error once the handle has been destroyed.
func (h *ObjectHandle) Acquire() (uint64, error) {
	for {
		c := h.calls.Load()
		if c <= 0 || h.destroyed.Load() {
			return 0, errors.Disposed(h.name)
		}
		if c == math.MaxInt64 {
			return 0, errors.Overflow(errors.PhaseRuntime, nil, c, h.name+" call counter")
		}
		if h.calls.CompareAndSwap(c, c+1) {
			return h.ptr, nil
		}
	}
}

// Release drops a reference taken by Acquire.
func (h *ObjectHandle) Release() { h.release() }

// CallWithPointer runs fn with the native pointer while holding a reference.
func (h *ObjectHandle) CallWithPointer(fn func(ptr uint64) error) error {
	ptr, err := h.Acquire()
	if err != nil {
		return err
	}
	defer h.Release()
	return fn(ptr)
}

// Destroy drops the handle's own reference. Only the first call has an
// effect; later calls and calls racing with it are no-ops.
func (h *ObjectHandle) Destroy() {
	if h.destroyed.CompareAndSwap(false, true) {
		h.release()
	}
}

// IsDestroyed reports whether Destroy has been called.
func (h *ObjectHandle) IsDestroyed() bool { return h.destroyed.Load() }

func (h *ObjectHandle) release() {
	if h.calls.Add(-1) != 0 {
		return
	}
	if err := h.free(h.ptr); err != nil {
		Logger().Warn("free native object",
			zap.String("type", h.name),
			zap.Uint64("ptr", h.ptr),
			zap.Error(err))
	}
}

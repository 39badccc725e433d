package ffi

import (
	"context"
	"sync"

	"github.com/wippyai/ffi-bindgen/errors"
)

// NativeFunc is an exported native function. args holds the flattened
// argument slots followed by the call status pointer.
type NativeFunc func(ctx context.Context, args []uint64) ([]uint64, error)

// ForeignCallback dispatches a call from native code into callback interface
// implementations. Method 0 releases handle; other methods return their
// serialized result.
type ForeignCallback func(handle uint64, method int32, args []byte) ([]byte, error)

// Library is a loaded native library.
type Library interface {
	Native
	// Invoke calls symbol with flattened argument slots.
	Invoke(ctx context.Context, symbol string, args []uint64) ([]uint64, error)
	// RegisterCallback makes cb reachable from native code and returns the
	// id passed to the interface's init symbol.
	RegisterCallback(cb ForeignCallback) uint32
	Callback(id uint32) (ForeignCallback, bool)
}

// callbackSlots assigns 1-based ids to foreign callbacks.
type callbackSlots struct {
	entries []ForeignCallback
	mu      sync.RWMutex
}

func (s *callbackSlots) register(cb ForeignCallback) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, cb)
	return uint32(len(s.entries))
}

func (s *callbackSlots) get(id uint32) (ForeignCallback, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == 0 || int(id) > len(s.entries) {
		return nil, false
	}
	return s.entries[id-1], true
}

// Callback status codes returned to native code.
const (
	CallbackSuccess    int32 = 0
	CallbackError      int32 = 1
	CallbackUnexpected int32 = 2
)

// DispatchCallback runs a callback on behalf of native code. It consumes
// the owned args buffer and returns an owned result buffer: the serialized
// return value on success, the error message otherwise.
func DispatchCallback(n Native, cb ForeignCallback, handle uint64, method int32, args Buffer) (Buffer, int32) {
	data, err := args.Bytes(n)
	releaseQuietly(n, args)
	if err != nil {
		return errorBuffer(n, err), CallbackUnexpected
	}
	out, err := cb(handle, method, data)
	if err != nil {
		return errorBuffer(n, err), CallbackError
	}
	b, err := BufferFromBytes(n, out)
	if err != nil {
		return Buffer{}, CallbackUnexpected
	}
	return b, CallbackSuccess
}

func errorBuffer(n Native, err error) Buffer {
	b, lerr := LowerString(n, err.Error())
	if lerr != nil {
		return Buffer{}
	}
	return b
}

// FuncLibrary is an in-process Library whose symbols are Go functions over
// a Heap. It stands in for a native library in tests and examples.
type FuncLibrary struct {
	*Heap
	funcs     map[string]NativeFunc
	callbacks callbackSlots
	mu        sync.RWMutex
}

func NewFuncLibrary() *FuncLibrary {
	return &FuncLibrary{
		Heap:  NewHeap(),
		funcs: make(map[string]NativeFunc),
	}
}

// Define exports fn as symbol, replacing any previous definition.
func (l *FuncLibrary) Define(symbol string, fn NativeFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.funcs[symbol] = fn
}

func (l *FuncLibrary) Invoke(ctx context.Context, symbol string, args []uint64) ([]uint64, error) {
	l.mu.RLock()
	fn, ok := l.funcs[symbol]
	l.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "symbol", symbol)
	}
	return fn(ctx, args)
}

func (l *FuncLibrary) RegisterCallback(cb ForeignCallback) uint32 { return l.callbacks.register(cb) }

func (l *FuncLibrary) Callback(id uint32) (ForeignCallback, bool) { return l.callbacks.get(id) }

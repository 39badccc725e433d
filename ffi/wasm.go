package ffi

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-bindgen/errors"
)

const (
	// DefaultHostModule is the import module offering foreign_callback.
	DefaultHostModule = "bindgen"

	foreignCallbackImport = "foreign_callback"
	guestRealloc          = "cabi_realloc"
	guestFree             = "cabi_free"
	wasmPageSize          = 65536
)

// WasmConfig holds configuration for loading a wasm build of a native
// library.
type WasmConfig struct {
	// HostModule names the import module providing foreign_callback.
	// Empty means DefaultHostModule.
	HostModule string

	// MemoryLimitPages sets the maximum memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// WasmLibrary runs a wasm build of a native library under wazero.
//
// Buffers are allocated with the module's exported cabi_realloc and
// cabi_free when present; otherwise the library grows linear memory and
// manages the new pages itself. Native code reaches callbacks by importing
//
//	bindgen.foreign_callback(id i32, handle i64, method i32,
//	    args_cap i32, args_len i32, args_data i32, out i32) -> i32
//
// which writes the result Buffer to out and returns a callback status.
//
// Guest calls are serialized. Callbacks run inside the guest call and must
// not call back into the same library.
type WasmLibrary struct {
	runtime   wazero.Runtime
	module    api.Module
	memory    api.Memory
	allocFn   api.Function
	freeFn    api.Function
	callbacks callbackSlots
	ledger    ledger
	bump      bump
	callMu    sync.Mutex
}

// NewWasmLibrary compiles and instantiates wasm.
func NewWasmLibrary(ctx context.Context, wasm []byte, cfg *WasmConfig) (*WasmLibrary, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	host := DefaultHostModule
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.HostModule != "" {
			host = cfg.HostModule
		}
	}

	l := &WasmLibrary{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		ledger:  newLedger(),
	}

	i32, i64 := api.ValueTypeI32, api.ValueTypeI64
	_, err := l.runtime.NewHostModuleBuilder(host).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(l.foreignCallback),
			[]api.ValueType{i32, i64, i32, i32, i32, i32, i32},
			[]api.ValueType{i32}).
		Export(foreignCallbackImport).
		Instantiate(ctx)
	if err != nil {
		l.runtime.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "instantiate host module "+host)
	}

	compiled, err := l.runtime.CompileModule(ctx, wasm)
	if err != nil {
		l.runtime.Close(ctx)
		return nil, errors.Load("compile wasm library", err)
	}
	mod, err := l.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		l.runtime.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "instantiate wasm library")
	}
	l.module = mod
	l.memory = mod.Memory()
	if l.memory == nil {
		l.runtime.Close(ctx)
		return nil, errors.NotInitialized(errors.PhaseRuntime, "wasm library memory")
	}

	l.allocFn = mod.ExportedFunction(guestRealloc)
	l.freeFn = mod.ExportedFunction(guestFree)
	if l.allocFn == nil || l.freeFn == nil {
		l.allocFn, l.freeFn = nil, nil
		l.bump.next = l.memory.Size()
	}

	Logger().Debug("wasm library loaded",
		zap.Bool("guest_allocator", l.allocFn != nil),
		zap.Uint32("memory", l.memory.Size()))
	return l, nil
}

func (l *WasmLibrary) Read(offset, length uint32) ([]byte, error) {
	data, ok := l.memory.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return append([]byte(nil), data...), nil
}

func (l *WasmLibrary) Write(offset uint32, data []byte) error {
	if !l.memory.Write(offset, data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (l *WasmLibrary) Alloc(size, align uint32) (uint32, error) {
	l.callMu.Lock()
	defer l.callMu.Unlock()
	return l.alloc(context.Background(), size, align)
}

func (l *WasmLibrary) Free(ptr, size, align uint32) error {
	l.callMu.Lock()
	defer l.callMu.Unlock()
	return l.free(context.Background(), ptr, align)
}

// alloc and free expect callMu to be held, either directly or by the guest
// call that is running a callback.
func (l *WasmLibrary) alloc(ctx context.Context, size, align uint32) (uint32, error) {
	if l.allocFn != nil {
		stack := []uint64{0, 0, uint64(align), uint64(size)}
		if err := l.allocFn.CallWithStack(ctx, stack); err != nil {
			return 0, errors.AllocationFailed(errors.PhaseRuntime, size, err)
		}
		ptr := uint32(stack[0])
		if ptr == 0 {
			return 0, errors.AllocationFailed(errors.PhaseRuntime, size, fmt.Errorf("guest allocator returned null"))
		}
		l.ledger.add(ptr, size)
		return ptr, nil
	}

	start, end := l.bump.take(size, align)
	if have := l.memory.Size(); end > have {
		pages := (end - have + wasmPageSize - 1) / wasmPageSize
		if _, ok := l.memory.Grow(pages); !ok {
			return 0, errors.AllocationFailed(errors.PhaseRuntime, size, fmt.Errorf("grow memory by %d pages", pages))
		}
	}
	l.ledger.add(start, size)
	return start, nil
}

func (l *WasmLibrary) free(ctx context.Context, ptr, align uint32) error {
	size, err := l.ledger.remove(ptr)
	if err != nil {
		return err
	}
	if l.freeFn != nil {
		stack := []uint64{uint64(ptr), uint64(size), uint64(align)}
		if err := l.freeFn.CallWithStack(ctx, stack); err != nil {
			return errors.Wrap(errors.PhaseRuntime, errors.KindAllocation, err, "guest free")
		}
	}
	return nil
}

// Live returns the number of buffers allocated through the library and not
// yet freed.
func (l *WasmLibrary) Live() int {
	l.callMu.Lock()
	defer l.callMu.Unlock()
	return len(l.ledger.live)
}

func (l *WasmLibrary) Invoke(ctx context.Context, symbol string, args []uint64) ([]uint64, error) {
	fn := l.module.ExportedFunction(symbol)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseCall, "symbol", symbol)
	}
	l.callMu.Lock()
	defer l.callMu.Unlock()
	return fn.Call(ctx, args...)
}

func (l *WasmLibrary) RegisterCallback(cb ForeignCallback) uint32 { return l.callbacks.register(cb) }

func (l *WasmLibrary) Callback(id uint32) (ForeignCallback, bool) { return l.callbacks.get(id) }

// Close releases the wazero runtime and everything instantiated in it.
func (l *WasmLibrary) Close(ctx context.Context) error {
	return l.runtime.Close(ctx)
}

// lockedNative lets callback dispatch allocate while the guest call holds
// callMu.
type lockedNative struct {
	l   *WasmLibrary
	ctx context.Context
}

func (n lockedNative) Read(offset, length uint32) ([]byte, error) { return n.l.Read(offset, length) }
func (n lockedNative) Write(offset uint32, data []byte) error     { return n.l.Write(offset, data) }
func (n lockedNative) Alloc(size, align uint32) (uint32, error)   { return n.l.alloc(n.ctx, size, align) }
func (n lockedNative) Free(ptr, _, align uint32) error            { return n.l.free(n.ctx, ptr, align) }

func (l *WasmLibrary) foreignCallback(ctx context.Context, _ api.Module, stack []uint64) {
	id := api.DecodeU32(stack[0])
	handle := stack[1]
	method := api.DecodeI32(stack[2])
	args := Buffer{
		Capacity: api.DecodeU32(stack[3]),
		Len:      api.DecodeU32(stack[4]),
		Data:     api.DecodeU32(stack[5]),
	}
	out := api.DecodeU32(stack[6])
	n := lockedNative{l: l, ctx: ctx}

	cb, ok := l.callbacks.get(id)
	if !ok {
		releaseQuietly(n, args)
		Logger().Warn("unknown foreign callback", zap.Uint32("id", id))
		stack[0] = api.EncodeI32(CallbackUnexpected)
		return
	}

	result, code := DispatchCallback(n, cb, handle, method, args)
	if err := StoreBuffer(l, out, result); err != nil {
		releaseQuietly(n, result)
		Logger().Warn("store callback result", zap.Uint32("id", id), zap.Error(err))
		code = CallbackUnexpected
	}
	stack[0] = api.EncodeI32(code)
}

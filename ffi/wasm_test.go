package ffi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ffi-bindgen/errors"
)

// addModule exports one page of memory and
//
//	(func $demo_add (param i32 i32 i32) (result i32)
//	  local.get 0 local.get 1 i32.add)
//
// where the third parameter is the unused call status pointer.
var addModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type section
	0x01, 0x08, 0x01, 0x60, 0x03, 0x7f, 0x7f, 0x7f, 0x01, 0x7f,
	// function section
	0x03, 0x02, 0x01, 0x00,
	// memory section
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export section
	0x07, 0x15, 0x02,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x08, 'd', 'e', 'm', 'o', '_', 'a', 'd', 'd', 0x00, 0x00,
	// code section
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
}

var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func loadAddModule(t *testing.T) *WasmLibrary {
	t.Helper()
	ctx := context.Background()
	lib, err := NewWasmLibrary(ctx, addModule, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close(ctx) })
	return lib
}

func TestWasmLibraryCall(t *testing.T) {
	lib := loadAddModule(t)
	slots, err := NewArgs(lib).Int32(2).Int32(40).Slots()
	require.NoError(t, err)

	results, err := Call(context.Background(), lib, "demo_add", nil, slots)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int32(42), LiftInt32(results[0]))
	assert.Equal(t, 0, lib.Live())
}

func TestWasmLibraryMissingSymbol(t *testing.T) {
	lib := loadAddModule(t)
	_, err := Call(context.Background(), lib, "demo_sub", nil, nil)
	assert.ErrorIs(t, err, errors.NotFound(errors.PhaseCall, "", ""))
}

func TestWasmLibraryHostAllocation(t *testing.T) {
	lib := loadAddModule(t)

	b, err := LowerInto(lib, Sequence(String), []string{"wasm", "memory"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, b.Data, uint32(wasmPageSize))
	assert.Equal(t, 1, lib.Live())

	got, err := LiftFrom(lib, Sequence(String), b)
	require.NoError(t, err)
	assert.Equal(t, []string{"wasm", "memory"}, got)
	assert.Equal(t, 0, lib.Live())

	assert.ErrorIs(t, lib.Free(b.Data, b.Capacity, 1), errors.DoubleFree(0))
}

func TestWasmLibraryBounds(t *testing.T) {
	lib := loadAddModule(t)
	_, err := lib.Read(1<<30, 4)
	assert.Error(t, err)
	assert.Error(t, lib.Write(1<<30, []byte{1}))
}

func TestWasmLibraryForeignCallback(t *testing.T) {
	ctx := context.Background()
	lib := loadAddModule(t)
	r := greeterRegistry()
	id := lib.RegisterCallback(r.Invoke)

	h, err := r.Lower(politeGreeter{prefix: "from wasm: "})
	require.NoError(t, err)

	out, err := lib.Alloc(BufferSize, 4)
	require.NoError(t, err)
	args, err := BufferFromBytes(lib, encodeString("guest"))
	require.NoError(t, err)

	stack := []uint64{uint64(id), h, 1, uint64(args.Capacity), uint64(args.Len), uint64(args.Data), uint64(out)}
	lib.foreignCallback(ctx, nil, stack)
	assert.Equal(t, uint64(CallbackSuccess), stack[0])

	result, err := LoadBuffer(lib, out)
	require.NoError(t, err)
	s, err := LiftFrom(lib, String, result)
	require.NoError(t, err)
	assert.Equal(t, "from wasm: guest", s)

	stack = []uint64{99, h, 1, 0, 0, 0, uint64(out)}
	lib.foreignCallback(ctx, nil, stack)
	assert.Equal(t, uint64(CallbackUnexpected), stack[0])

	require.NoError(t, lib.Free(out, BufferSize, 4))
	assert.Equal(t, 0, lib.Live())
}

func TestWasmLibraryRequiresMemory(t *testing.T) {
	_, err := NewWasmLibrary(context.Background(), emptyModule, nil)
	assert.ErrorIs(t, err, errors.NotInitialized(errors.PhaseRuntime, ""))
}

func TestWasmLibraryInvalidModule(t *testing.T) {
	_, err := NewWasmLibrary(context.Background(), []byte("not wasm"), &WasmConfig{MemoryLimitPages: 4})
	assert.ErrorIs(t, err, errors.Load("", nil))
}

// Package ffi is the runtime support that generated Go bindings call into.
//
// # Transport
//
// Values cross the boundary in one of two ways. Scalars travel directly in
// 64-bit argument slots (see LowerInt32, LiftFloat64 and friends). Every
// other value is serialized into a Buffer owned by the receiving side:
//
//	Writer → bytes → BufferFromBytes → native code → LiftFrom → Reader
//
// The wire format is big-endian. Strings and byte counts carry an i32
// length prefix, optionals a u8 presence tag, sequences and maps an i32
// count, and enum or error variants a 1-based i32 discriminant. A Codec
// pairs the write and read of one type; Optional, Sequence and Map compose
// codecs for nested types to any depth.
//
// # Ownership
//
// A Buffer passed by value transfers ownership. LiftFrom and LiftString
// release the buffer exactly once, also when decoding fails. Args owns the
// buffers lowered for a call until the call consumes them and releases
// them if any later argument fails.
//
// # Calls
//
// Call appends a call status pointer to the argument slots and maps the
// status written by native code to Go errors: declared errors are lifted by
// the generated ErrorHandler, panics carry the native message.
//
// # Objects and Callbacks
//
// ObjectHandle guards a native object pointer so that Destroy and in-flight
// calls race safely and the native free runs exactly once.
// CallbackRegistry stores Go implementations of callback interfaces behind
// u64 handles and dispatches native calls to them; method 0 releases a
// handle.
//
// # Libraries
//
// Library abstracts the loaded native code. FuncLibrary implements it over
// an in-process Heap with Go functions as symbols. WasmLibrary loads a
// WebAssembly build of the native library with wazero.
package ffi

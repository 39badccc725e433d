package component

// FFIType is the low-level type of a value crossing the native boundary.
type FFIType uint8

const (
	FFIInt8 FFIType = iota + 1
	FFIUInt8
	FFIInt16
	FFIUInt16
	FFIInt32
	FFIUInt32
	FFIInt64
	FFIUInt64
	FFIFloat32
	FFIFloat64
	// FFIRustArcPtr is an opaque pointer to a native object.
	FFIRustArcPtr
	// FFIRustBuffer is a buffer owned by the native side.
	FFIRustBuffer
	// FFIForeignBytes is a borrowed view of foreign memory.
	FFIForeignBytes
	// FFIForeignCallback is the dispatch entry point of a callback interface.
	FFIForeignCallback
)

var ffiTypeNames = [...]string{
	FFIInt8:            "Int8",
	FFIUInt8:           "UInt8",
	FFIInt16:           "Int16",
	FFIUInt16:          "UInt16",
	FFIInt32:           "Int32",
	FFIUInt32:          "UInt32",
	FFIInt64:           "Int64",
	FFIUInt64:          "UInt64",
	FFIFloat32:         "Float32",
	FFIFloat64:         "Float64",
	FFIRustArcPtr:      "RustArcPtr",
	FFIRustBuffer:      "RustBuffer",
	FFIForeignBytes:    "ForeignBytes",
	FFIForeignCallback: "ForeignCallback",
}

func (f FFIType) String() string {
	if int(f) < len(ffiTypeNames) && ffiTypeNames[f] != "" {
		return ffiTypeNames[f]
	}
	return "invalid"
}

// Slot returns the signed representative of an integer pair; unsigned values
// travel in the slot of the signed type of the same width.
func (f FFIType) Slot() FFIType {
	switch f {
	case FFIUInt8:
		return FFIInt8
	case FFIUInt16:
		return FFIInt16
	case FFIUInt32:
		return FFIInt32
	case FFIUInt64:
		return FFIInt64
	}
	return f
}

// Size returns the byte width of the value in native memory. Buffers are
// three 32-bit words; pointers and callbacks are 64-bit.
func (f FFIType) Size() int {
	switch f {
	case FFIInt8, FFIUInt8:
		return 1
	case FFIInt16, FFIUInt16:
		return 2
	case FFIInt32, FFIUInt32, FFIFloat32:
		return 4
	case FFIRustBuffer, FFIForeignBytes:
		return 12
	}
	return 8
}

// FFIArgument is a named parameter of a native symbol.
type FFIArgument struct {
	Name string
	Type FFIType
}

// FFIFunction describes one exported native symbol. Every symbol takes a
// trailing call status pointer, which is not listed in Arguments.
type FFIFunction struct {
	Name      string
	Arguments []FFIArgument
	Returns   *FFIType
}

// HasReturn reports whether the symbol returns a value.
func (f FFIFunction) HasReturn() bool { return f.Returns != nil }

func ffiReturn(t FFIType) *FFIType { return &t }

package component

import "strings"

// Kind identifies a variant of the type algebra.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt8
	KindUInt8
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTimestamp
	KindDuration
	KindOptional
	KindSequence
	KindMap
	KindEnum
	KindRecord
	KindObject
	KindError
	KindCallbackInterface
)

var kindNames = [...]string{
	KindInvalid:           "invalid",
	KindInt8:              "i8",
	KindUInt8:             "u8",
	KindInt16:             "i16",
	KindUInt16:            "u16",
	KindInt32:             "i32",
	KindUInt32:            "u32",
	KindInt64:             "i64",
	KindUInt64:            "u64",
	KindFloat32:           "f32",
	KindFloat64:           "f64",
	KindBool:              "bool",
	KindString:            "string",
	KindTimestamp:         "timestamp",
	KindDuration:          "duration",
	KindOptional:          "Optional",
	KindSequence:          "Sequence",
	KindMap:               "Map",
	KindEnum:              "Enum",
	KindRecord:            "Record",
	KindObject:            "Object",
	KindError:             "Error",
	KindCallbackInterface: "CallbackInterface",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsPrimitive() bool {
	return k >= KindInt8 && k <= KindDuration
}

func (k Kind) IsCompound() bool {
	return k >= KindOptional && k <= KindMap
}

func (k Kind) IsNominal() bool {
	return k >= KindEnum && k <= KindCallbackInterface
}

func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUInt64
}

func (k Kind) IsUnsigned() bool {
	switch k {
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return true
	}
	return false
}

func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

// Bits returns the width of a numeric kind, 0 otherwise.
func (k Kind) Bits() int {
	switch k {
	case KindInt8, KindUInt8:
		return 8
	case KindInt16, KindUInt16:
		return 16
	case KindInt32, KindUInt32, KindFloat32:
		return 32
	case KindInt64, KindUInt64, KindFloat64:
		return 64
	}
	return 0
}

// Type is a value of the closed type algebra. Compound types own their inner
// type; nominal types refer to a declared entity by name. The zero Type is
// invalid.
type Type struct {
	inner *Type
	name  string
	kind  Kind
}

func Int8() Type      { return Type{kind: KindInt8} }
func UInt8() Type     { return Type{kind: KindUInt8} }
func Int16() Type     { return Type{kind: KindInt16} }
func UInt16() Type    { return Type{kind: KindUInt16} }
func Int32() Type     { return Type{kind: KindInt32} }
func UInt32() Type    { return Type{kind: KindUInt32} }
func Int64() Type     { return Type{kind: KindInt64} }
func UInt64() Type    { return Type{kind: KindUInt64} }
func Float32() Type   { return Type{kind: KindFloat32} }
func Float64() Type   { return Type{kind: KindFloat64} }
func Bool() Type      { return Type{kind: KindBool} }
func String() Type    { return Type{kind: KindString} }
func Timestamp() Type { return Type{kind: KindTimestamp} }
func Duration() Type  { return Type{kind: KindDuration} }

// Primitive returns the primitive type of kind k.
func Primitive(k Kind) (Type, bool) {
	if !k.IsPrimitive() {
		return Type{}, false
	}
	return Type{kind: k}, true
}

func OptionalOf(t Type) Type { return Type{kind: KindOptional, inner: &t} }
func SequenceOf(t Type) Type { return Type{kind: KindSequence, inner: &t} }

// MapOf returns a map with string keys and values of type t.
func MapOf(t Type) Type { return Type{kind: KindMap, inner: &t} }

func EnumNamed(name string) Type              { return Type{kind: KindEnum, name: name} }
func RecordNamed(name string) Type            { return Type{kind: KindRecord, name: name} }
func ObjectNamed(name string) Type            { return Type{kind: KindObject, name: name} }
func ErrorNamed(name string) Type             { return Type{kind: KindError, name: name} }
func CallbackInterfaceNamed(name string) Type { return Type{kind: KindCallbackInterface, name: name} }

// Nominal returns the nominal type of kind k named name.
func Nominal(k Kind, name string) (Type, bool) {
	if !k.IsNominal() {
		return Type{}, false
	}
	return Type{kind: k, name: name}, true
}

func (t Type) Kind() Kind { return t.kind }

// Name returns the entity name of a nominal type.
func (t Type) Name() string { return t.name }

// Inner returns the parameter of a compound type.
func (t Type) Inner() (Type, bool) {
	if t.inner == nil {
		return Type{}, false
	}
	return *t.inner, true
}

func (t Type) IsValid() bool     { return t.kind != KindInvalid }
func (t Type) IsPrimitive() bool { return t.kind.IsPrimitive() }
func (t Type) IsCompound() bool  { return t.kind.IsCompound() }
func (t Type) IsNominal() bool   { return t.kind.IsNominal() }
func (t Type) IsUnsigned() bool  { return t.kind.IsUnsigned() }
func (t Type) IsNumeric() bool   { return t.kind.IsNumeric() }

// Equal reports structural identity.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind || t.name != o.name {
		return false
	}
	if t.inner == nil || o.inner == nil {
		return t.inner == nil && o.inner == nil
	}
	return t.inner.Equal(*o.inner)
}

// Depth returns the compound nesting depth; primitives and nominals are 0.
func (t Type) Depth() int {
	d := 0
	for cur := t; cur.inner != nil; cur = *cur.inner {
		d++
	}
	return d
}

// Walk calls fn for t and each structurally nested type, outermost first.
// Nominal references are not followed.
func (t Type) Walk(fn func(Type)) {
	fn(t)
	if t.inner != nil {
		t.inner.Walk(fn)
	}
}

// String renders the type in the model's type expression syntax.
func (t Type) String() string {
	var b strings.Builder
	t.format(&b)
	return b.String()
}

func (t Type) format(b *strings.Builder) {
	switch t.kind {
	case KindOptional:
		b.WriteString("optional<")
		t.inner.format(b)
		b.WriteByte('>')
	case KindSequence:
		b.WriteString("sequence<")
		t.inner.format(b)
		b.WriteByte('>')
	case KindMap:
		b.WriteString("map<string, ")
		t.inner.format(b)
		b.WriteByte('>')
	default:
		if t.kind.IsNominal() {
			b.WriteString(t.name)
			return
		}
		b.WriteString(t.kind.String())
	}
}

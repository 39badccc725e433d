package kotlin

import (
	"strconv"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// primitive describes how one scalar travels: as FFI value and inside a
// ByteBuffer. Lower and Lift are Kotlin expressions over "v".
type primitive struct {
	Label    string
	FFI      string
	Put      string
	Get      string
	Lower    string
	Lift     string
	Unsigned bool
}

var primitives = map[component.Kind]primitive{
	component.KindInt8:    {Label: "Byte", FFI: "Byte", Put: "putByte", Get: "get", Lower: "v", Lift: "v"},
	component.KindUInt8:   {Label: "UByte", FFI: "Byte", Put: "putByte", Get: "get", Lower: "v.toByte()", Lift: "v.toUByte()", Unsigned: true},
	component.KindInt16:   {Label: "Short", FFI: "Short", Put: "putShort", Get: "getShort", Lower: "v", Lift: "v"},
	component.KindUInt16:  {Label: "UShort", FFI: "Short", Put: "putShort", Get: "getShort", Lower: "v.toShort()", Lift: "v.toUShort()", Unsigned: true},
	component.KindInt32:   {Label: "Int", FFI: "Int", Put: "putInt", Get: "getInt", Lower: "v", Lift: "v"},
	component.KindUInt32:  {Label: "UInt", FFI: "Int", Put: "putInt", Get: "getInt", Lower: "v.toInt()", Lift: "v.toUInt()", Unsigned: true},
	component.KindInt64:   {Label: "Long", FFI: "Long", Put: "putLong", Get: "getLong", Lower: "v", Lift: "v"},
	component.KindUInt64:  {Label: "ULong", FFI: "Long", Put: "putLong", Get: "getLong", Lower: "v.toLong()", Lift: "v.toULong()", Unsigned: true},
	component.KindFloat32: {Label: "Float", FFI: "Float", Put: "putFloat", Get: "getFloat", Lower: "v", Lift: "v"},
	component.KindFloat64: {Label: "Double", FFI: "Double", Put: "putDouble", Get: "getDouble", Lower: "v", Lift: "v"},
	component.KindBool: {
		Label: "Boolean", FFI: "Byte", Put: "putByte", Get: "get",
		Lower: "if (v) 1.toByte() else 0.toByte()",
		Lift:  "v.toInt() != 0",
	},
}

// primitiveType handles fixed-width scalars through a generated
// "<Label>Internals" object.
type primitiveType struct {
	oracle    *Oracle
	typ       component.Type
	primitive primitive
}

func (p primitiveType) internals() string { return p.primitive.Label + "Internals" }

func (p primitiveType) TypeLabel() string     { return p.primitive.Label }
func (p primitiveType) CanonicalName() string { return p.primitive.Label }

func (p primitiveType) Literal(l component.Literal) (string, error) {
	if err := l.Check(p.typ); err != nil {
		return "", err
	}
	if l.Kind() == component.LiteralBoolean {
		return strconv.FormatBool(l.Bool()), nil
	}
	return numberLiteral(p.typ, l)
}

func (p primitiveType) Lower(name string) string {
	return p.internals() + ".lower(" + name + ")"
}

func (p primitiveType) Write(name, target string) string {
	return p.internals() + ".write(" + name + ", " + target + ")"
}

func (p primitiveType) Lift(name string) string {
	return p.internals() + ".lift(" + name + ")"
}

func (p primitiveType) Read(source string) string {
	return p.internals() + ".read(" + source + ")"
}

func (p primitiveType) HelperCode() (string, error) {
	return p.oracle.render("Primitive.kt", p.primitive)
}

func (p primitiveType) Imports() []string { return nil }

// stringType carries strings as UTF-8. A lowered string is the raw bytes in
// a buffer; a written string is prefixed with its byte length.
type stringType struct {
	oracle *Oracle
}

func (stringType) TypeLabel() string     { return "String" }
func (stringType) CanonicalName() string { return "String" }

func (stringType) Literal(l component.Literal) (string, error) {
	if err := l.Check(component.String()); err != nil {
		return "", err
	}
	return quote(l.Text()), nil
}

func (stringType) Lower(name string) string {
	return "StringInternals.lower(" + name + ")"
}

func (stringType) Write(name, target string) string {
	return "StringInternals.write(" + name + ", " + target + ")"
}

func (stringType) Lift(name string) string {
	return "StringInternals.lift(" + name + ")"
}

func (stringType) Read(source string) string {
	return "StringInternals.read(" + source + ")"
}

func (s stringType) HelperCode() (string, error) {
	return s.oracle.render("String.kt", nil)
}

func (stringType) Imports() []string { return nil }

// timeType maps timestamps to java.time.Instant and durations to
// java.time.Duration. Both always travel in a buffer.
type timeType struct {
	oracle *Oracle
	kind   component.Kind
}

func (t timeType) TypeLabel() string {
	if t.kind == component.KindTimestamp {
		return "java.time.Instant"
	}
	return "java.time.Duration"
}

func (t timeType) CanonicalName() string {
	if t.kind == component.KindTimestamp {
		return "Timestamp"
	}
	return "Duration"
}

func (t timeType) Literal(l component.Literal) (string, error) {
	return "", errors.LiteralMismatch("", t.kind.String(), l.String())
}

func (t timeType) Lower(name string) string {
	return "lower" + t.CanonicalName() + "(" + name + ")"
}

func (t timeType) Write(name, target string) string {
	return "write" + t.CanonicalName() + "(" + name + ", " + target + ")"
}

func (t timeType) Lift(name string) string {
	return "lift" + t.CanonicalName() + "(" + name + ")"
}

func (t timeType) Read(source string) string {
	return "read" + t.CanonicalName() + "(" + source + ")"
}

func (t timeType) HelperCode() (string, error) {
	return t.oracle.render(t.CanonicalName()+".kt", struct{ Label string }{t.TypeLabel()})
}

func (t timeType) Imports() []string { return nil }

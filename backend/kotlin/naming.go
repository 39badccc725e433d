package kotlin

import (
	"strings"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/internal/casing"
)

// hardKeywords cannot be used as identifiers in Kotlin without backticks.
var hardKeywords = map[string]struct{}{
	"as": {}, "break": {}, "class": {}, "continue": {}, "do": {}, "else": {},
	"false": {}, "for": {}, "fun": {}, "if": {}, "in": {}, "interface": {},
	"is": {}, "null": {}, "object": {}, "package": {}, "return": {},
	"super": {}, "this": {}, "throw": {}, "true": {}, "try": {},
	"typealias": {}, "typeof": {}, "val": {}, "var": {}, "when": {},
	"while": {},
}

func quoteKeyword(name string) string {
	if _, ok := hardKeywords[name]; ok {
		return "`" + name + "`"
	}
	return name
}

// ClassName renders enums, records, errors, objects and callback interfaces
// in UpperCamel case.
func (o *Oracle) ClassName(name string) string {
	return casing.UpperCamel(name)
}

// FunctionName renders functions and methods in lowerCamel case.
func (o *Oracle) FunctionName(name string) string {
	return quoteKeyword(casing.LowerCamel(name))
}

// VariableName renders fields and arguments in lowerCamel case.
func (o *Oracle) VariableName(name string) string {
	return quoteKeyword(casing.LowerCamel(name))
}

// EnumVariantName renders flat enum variants in SHOUTY_SNAKE case.
func (o *Oracle) EnumVariantName(name string) string {
	return casing.ShoutySnake(name)
}

// ExceptionName replaces a trailing "Error" with "Exception"; in the JVM an
// Error is not meant to be caught.
func (o *Oracle) ExceptionName(name string) string {
	if stripped, ok := strings.CutSuffix(name, "Error"); ok {
		return stripped + "Exception"
	}
	return name
}

// FFITypeLabel spells FFI types for the JNA library interface. Unsigned
// values travel in the signed type of the same width.
func (o *Oracle) FFITypeLabel(t component.FFIType) string {
	switch t.Slot() {
	case component.FFIInt8:
		return "Byte"
	case component.FFIInt16:
		return "Short"
	case component.FFIInt32:
		return "Int"
	case component.FFIInt64:
		return "Long"
	case component.FFIFloat32:
		return "Float"
	case component.FFIFloat64:
		return "Double"
	case component.FFIRustArcPtr:
		return "Pointer"
	case component.FFIRustBuffer:
		return "RustBuffer.ByValue"
	case component.FFIForeignBytes:
		return "ForeignBytes.ByValue"
	case component.FFIForeignCallback:
		return "ForeignCallback"
	}
	return "Unit"
}

package golang

import (
	"strings"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/internal/casing"
)

// initialisms are spelled in one case inside Go identifiers.
var initialisms = map[string]struct{}{
	"ACL": {}, "API": {}, "ASCII": {}, "CPU": {}, "CSS": {}, "DNS": {},
	"EOF": {}, "FFI": {}, "GUID": {}, "HTML": {}, "HTTP": {}, "HTTPS": {},
	"ID": {}, "IP": {}, "JSON": {}, "RPC": {}, "SQL": {}, "SSH": {},
	"TCP": {}, "TLS": {}, "TTL": {}, "UDP": {}, "UI": {}, "URI": {},
	"URL": {}, "UTF8": {}, "UUID": {}, "XML": {},
}

// reserved are Go keywords, predeclared types, the packages generated code
// imports, and the names generated bodies bind.
var reserved = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},

	"bool": {}, "byte": {}, "error": {}, "false": {}, "float32": {},
	"float64": {}, "int": {}, "int8": {}, "int16": {}, "int32": {},
	"int64": {}, "nil": {}, "rune": {}, "string": {}, "true": {},
	"uint": {}, "uint8": {}, "uint16": {}, "uint32": {}, "uint64": {},

	"context": {}, "ffi": {}, "fmt": {}, "runtime": {}, "strconv": {},
	"sync": {}, "time": {},

	"args": {}, "call": {}, "ctx": {}, "err": {}, "impl": {}, "in": {},
	"l": {}, "library": {}, "obj": {}, "out": {}, "ptr": {}, "results": {},
	"ret": {},
}

// goWords splits s into words and marks the initialisms. An upper-case run
// made only of initialisms ("XMLHTTP") yields each of them.
func goWords(s string) (words []string, initial []bool) {
	for _, w := range casing.Words(s) {
		if parts := splitInitialisms(w); parts != nil {
			for _, p := range parts {
				words = append(words, p)
				initial = append(initial, true)
			}
			continue
		}
		words = append(words, w)
		initial = append(initial, false)
	}
	return words, initial
}

// splitInitialisms returns w as a sequence of initialisms, or nil. Lower-case
// words must be a single initialism; upper-case words may join several.
func splitInitialisms(w string) []string {
	upper := strings.ToUpper(w)
	if _, ok := initialisms[upper]; ok {
		return []string{upper}
	}
	if w != upper {
		return nil
	}
	for n := len(upper) - 1; n > 0; n-- {
		if _, ok := initialisms[upper[:n]]; !ok {
			continue
		}
		if rest := splitInitialisms(upper[n:]); rest != nil {
			return append([]string{upper[:n]}, rest...)
		}
	}
	return nil
}

func exported(s string) string { return casing.Settle(exportedOnce, s) }

func exportedOnce(s string) string {
	var b strings.Builder
	words, initial := goWords(s)
	for i, w := range words {
		if initial[i] {
			b.WriteString(w)
			continue
		}
		b.WriteString(casing.Capitalize(w))
	}
	return b.String()
}

func unexported(s string) string { return casing.Settle(unexportedOnce, s) }

func unexportedOnce(s string) string {
	var b strings.Builder
	words, initial := goWords(s)
	for i, w := range words {
		switch {
		case i == 0:
			b.WriteString(strings.ToLower(w))
		case initial[i]:
			b.WriteString(w)
		default:
			b.WriteString(casing.Capitalize(w))
		}
	}
	out := b.String()
	if _, ok := reserved[out]; ok {
		return out + "_"
	}
	return out
}

// ClassName renders type names as exported identifiers.
func (o *Oracle) ClassName(name string) string { return exported(name) }

// FunctionName renders functions and methods as exported identifiers.
func (o *Oracle) FunctionName(name string) string { return exported(name) }

// VariableName renders arguments as unexported identifiers. Struct fields
// are exported and use FieldName.
func (o *Oracle) VariableName(name string) string { return unexported(name) }

// FieldName renders record and variant fields.
func (o *Oracle) FieldName(name string) string { return exported(name) }

// EnumVariantName renders the variant part of a variant identifier; the
// enum name is prepended where the variant is declared.
func (o *Oracle) EnumVariantName(name string) string { return exported(name) }

// ExceptionName keeps the name: Go errors are ordinary types.
func (o *Oracle) ExceptionName(name string) string { return name }

// FFITypeLabel spells the Go type of an FFI value in generated signatures.
func (o *Oracle) FFITypeLabel(t component.FFIType) string {
	switch t {
	case component.FFIInt8:
		return "int8"
	case component.FFIUInt8:
		return "uint8"
	case component.FFIInt16:
		return "int16"
	case component.FFIUInt16:
		return "uint16"
	case component.FFIInt32:
		return "int32"
	case component.FFIUInt32:
		return "uint32"
	case component.FFIInt64:
		return "int64"
	case component.FFIUInt64, component.FFIRustArcPtr:
		return "uint64"
	case component.FFIFloat32:
		return "float32"
	case component.FFIFloat64:
		return "float64"
	case component.FFIRustBuffer:
		return "ffi.Buffer"
	case component.FFIForeignBytes:
		return "ffi.ForeignBytes"
	case component.FFIForeignCallback:
		return "uint32"
	}
	return ""
}

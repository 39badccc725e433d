package kotlin

import (
	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// compoundType handles optional, sequence and map types. Every operation
// delegates to top-level functions named after the canonical name; those
// functions are generated once from the inner type's code type.
type compoundType struct {
	oracle    *Oracle
	outer     component.Type
	inner     component.Type
	innerCode backend.CodeType
}

func (c compoundType) TypeLabel() string {
	switch c.outer.Kind() {
	case component.KindOptional:
		return c.innerCode.TypeLabel() + "?"
	case component.KindSequence:
		return "List<" + c.innerCode.TypeLabel() + ">"
	}
	return "Map<String, " + c.innerCode.TypeLabel() + ">"
}

func (c compoundType) CanonicalName() string {
	return c.outer.Kind().String() + c.innerCode.CanonicalName()
}

func (c compoundType) Literal(l component.Literal) (string, error) {
	if err := l.Check(c.outer); err != nil {
		return "", err
	}
	switch l.Kind() {
	case component.LiteralNull:
		return "null", nil
	case component.LiteralEmptySequence:
		return "listOf()", nil
	case component.LiteralEmptyMap:
		return "mapOf()", nil
	}
	if c.outer.Kind() == component.KindOptional {
		return c.innerCode.Literal(l)
	}
	return "", errors.LiteralMismatch("", c.outer.String(), l.String())
}

func (c compoundType) Lower(name string) string {
	return "lower" + c.CanonicalName() + "(" + name + ")"
}

func (c compoundType) Write(name, target string) string {
	return "write" + c.CanonicalName() + "(" + name + ", " + target + ")"
}

func (c compoundType) Lift(name string) string {
	return "lift" + c.CanonicalName() + "(" + name + ")"
}

func (c compoundType) Read(source string) string {
	return "read" + c.CanonicalName() + "(" + source + ")"
}

// compoundData feeds Optional.kt, Sequence.kt and Map.kt.
type compoundData struct {
	Canonical  string
	Label      string
	InnerLabel string
	Inner      backend.CodeType
	Key        backend.CodeType
	Unsigned   bool
}

func (c compoundType) HelperCode() (string, error) {
	data := compoundData{
		Canonical:  c.CanonicalName(),
		Label:      c.TypeLabel(),
		InnerLabel: c.innerCode.TypeLabel(),
		Inner:      c.innerCode,
		Key:        stringType{oracle: c.oracle},
		Unsigned:   c.oracle.containsUnsigned(c.outer),
	}
	return c.oracle.render(c.outer.Kind().String()+".kt", data)
}

func (c compoundType) Imports() []string { return c.innerCode.Imports() }

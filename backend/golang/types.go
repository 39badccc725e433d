package golang

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// codeType is a Go code type. codec is an expression of type ffi.Codec[T]
// for the type's label.
type codeType interface {
	backend.CodeType
	codec() string
}

func lowerBuffer(label, codec, name string) string {
	return "ffi.Lower[" + label + "](args, " + codec + ", " + name + ")"
}

func liftBuffer(label, codec, name string) string {
	return "ffi.ResultBuffer[" + label + "](l, " + codec + ", " + name + ")"
}

// scalar describes a type that travels directly in an argument slot.
type scalar struct {
	Label string
	// Name is shared by the Args method, the ffi codec and the ffi Lift
	// function of the type.
	Name string
}

var scalars = map[component.Kind]scalar{
	component.KindInt8:    {Label: "int8", Name: "Int8"},
	component.KindUInt8:   {Label: "uint8", Name: "UInt8"},
	component.KindInt16:   {Label: "int16", Name: "Int16"},
	component.KindUInt16:  {Label: "uint16", Name: "UInt16"},
	component.KindInt32:   {Label: "int32", Name: "Int32"},
	component.KindUInt32:  {Label: "uint32", Name: "UInt32"},
	component.KindInt64:   {Label: "int64", Name: "Int64"},
	component.KindUInt64:  {Label: "uint64", Name: "UInt64"},
	component.KindFloat32: {Label: "float32", Name: "Float32"},
	component.KindFloat64: {Label: "float64", Name: "Float64"},
	component.KindBool:    {Label: "bool", Name: "Bool"},
}

type scalarType struct {
	typ    component.Type
	scalar scalar
}

func (s scalarType) TypeLabel() string     { return s.scalar.Label }
func (s scalarType) CanonicalName() string { return s.scalar.Name }
func (s scalarType) codec() string         { return "ffi." + s.scalar.Name }

func (s scalarType) Literal(l component.Literal) (string, error) {
	return scalarLiteral(s.typ, l)
}

func (s scalarType) Lower(name string) string {
	return "args." + s.scalar.Name + "(" + name + ")"
}

func (s scalarType) Write(name, target string) string {
	return s.codec() + ".Write(" + target + ", " + name + ")"
}

func (s scalarType) Lift(name string) string {
	if s.typ.Kind() == component.KindBool {
		return "ffi.ResultBool(" + name + ")"
	}
	return "ffi.Result(ffi.Lift" + s.scalar.Name + ", " + name + ")"
}

func (s scalarType) Read(source string) string {
	return s.codec() + ".Read(" + source + ")"
}

func (s scalarType) HelperCode() (string, error) { return "", nil }
func (s scalarType) Imports() []string           { return nil }

// stringType passes strings as raw UTF-8 buffers and writes them with a
// length prefix inside other buffers.
type stringType struct{}

func (stringType) TypeLabel() string     { return "string" }
func (stringType) CanonicalName() string { return "String" }
func (stringType) codec() string         { return "ffi.String" }

func (stringType) Literal(l component.Literal) (string, error) {
	return stringLiteral(l)
}

func (stringType) Lower(name string) string { return "args.String(" + name + ")" }

func (stringType) Write(name, target string) string {
	return "ffi.String.Write(" + target + ", " + name + ")"
}

func (stringType) Lift(name string) string { return "ffi.ResultString(l, " + name + ")" }

func (stringType) Read(source string) string { return "ffi.String.Read(" + source + ")" }

func (stringType) HelperCode() (string, error) { return "", nil }
func (stringType) Imports() []string           { return nil }

// timeType maps timestamps to time.Time and durations to time.Duration.
type timeType struct {
	kind component.Kind
}

func (t timeType) TypeLabel() string {
	if t.kind == component.KindTimestamp {
		return "time.Time"
	}
	return "time.Duration"
}

func (t timeType) CanonicalName() string {
	if t.kind == component.KindTimestamp {
		return "Timestamp"
	}
	return "Duration"
}

func (t timeType) codec() string { return "ffi." + t.CanonicalName() }

func (t timeType) Literal(l component.Literal) (string, error) {
	return "", errors.LiteralMismatch("", t.kind.String(), l.String())
}

func (t timeType) Lower(name string) string {
	return lowerBuffer(t.TypeLabel(), t.codec(), name)
}

func (t timeType) Write(name, target string) string {
	return t.codec() + ".Write(" + target + ", " + name + ")"
}

func (t timeType) Lift(name string) string {
	return liftBuffer(t.TypeLabel(), t.codec(), name)
}

func (t timeType) Read(source string) string {
	return t.codec() + ".Read(" + source + ")"
}

func (t timeType) HelperCode() (string, error) { return "", nil }
func (t timeType) Imports() []string           { return []string{"time"} }

// compoundType composes the runtime's generic codecs. Each shape gets one
// package-level codec variable.
type compoundType struct {
	outer     component.Type
	innerCode codeType
}

func (c compoundType) TypeLabel() string {
	inner := c.innerCode.TypeLabel()
	switch c.outer.Kind() {
	case component.KindOptional:
		return "*" + inner
	case component.KindSequence:
		return "[]" + inner
	}
	return "map[string]" + inner
}

func (c compoundType) CanonicalName() string {
	return c.outer.Kind().String() + c.innerCode.CanonicalName()
}

func (c compoundType) codec() string { return "codec" + c.CanonicalName() }

func (c compoundType) Literal(l component.Literal) (string, error) {
	if err := l.Check(c.outer); err != nil {
		return "", err
	}
	switch l.Kind() {
	case component.LiteralNull:
		return "nil", nil
	case component.LiteralEmptySequence, component.LiteralEmptyMap:
		return c.TypeLabel() + "{}", nil
	}
	if c.outer.Kind() == component.KindOptional {
		inner, err := c.innerCode.Literal(l)
		if err != nil {
			return "", err
		}
		return "ffi.Some[" + c.innerCode.TypeLabel() + "](" + inner + ")", nil
	}
	return "", errors.LiteralMismatch("", c.outer.String(), l.String())
}

func (c compoundType) Lower(name string) string {
	return lowerBuffer(c.TypeLabel(), c.codec(), name)
}

func (c compoundType) Write(name, target string) string {
	return c.codec() + ".Write(" + target + ", " + name + ")"
}

func (c compoundType) Lift(name string) string {
	return liftBuffer(c.TypeLabel(), c.codec(), name)
}

func (c compoundType) Read(source string) string {
	return c.codec() + ".Read(" + source + ")"
}

func (c compoundType) HelperCode() (string, error) {
	var ctor string
	switch c.outer.Kind() {
	case component.KindOptional:
		ctor = "Optional"
	case component.KindSequence:
		ctor = "Sequence"
	default:
		ctor = "Map"
	}
	return source(c.CanonicalName(),
		jen.Var().Id(c.codec()).Op("=").
			Qual(ffiPath, ctor).Types(jen.Id(c.innerCode.TypeLabel())).
			Call(jen.Id(c.innerCode.codec())))
}

func (c compoundType) Imports() []string { return c.innerCode.Imports() }

// nominal is the shared part of declared entities. Each entity declares an
// empty codec struct type and a package variable holding it; the variable
// has no initialization dependencies, so helpers built from it never form a
// cycle.
type nominal struct {
	oracle *Oracle
	name   string
	class  string
	token  string
}

func (n nominal) TypeLabel() string     { return n.class }
func (n nominal) CanonicalName() string { return n.token + n.class }
func (n nominal) codec() string         { return "codec" + n.CanonicalName() }

func (n nominal) codecType() string {
	canon := n.CanonicalName()
	return strings.ToLower(canon[:1]) + canon[1:] + "Codec"
}

// codecVar declares the codec variable of the entity.
func (n nominal) codecVar() jen.Code {
	return jen.Var().Id(n.codec()).Op("=").Id(n.codecType()).Values()
}

func (n nominal) Literal(l component.Literal) (string, error) {
	return "", errors.LiteralMismatch(n.name, n.token, l.String())
}

func (n nominal) Lower(name string) string {
	return lowerBuffer(n.TypeLabel(), n.codec(), name)
}

func (n nominal) Write(name, target string) string {
	return n.codec() + ".Write(" + target + ", " + name + ")"
}

func (n nominal) Lift(name string) string {
	return liftBuffer(n.TypeLabel(), n.codec(), name)
}

func (n nominal) Read(source string) string {
	return n.codec() + ".Read(" + source + ")"
}

func (n nominal) HelperCode() (string, error) { return "", nil }
func (n nominal) Imports() []string           { return nil }

type recordType struct{ nominal }

type errorType struct{ nominal }

// liftFunc is the ffi.ErrorHandler generated for the error.
func (e errorType) liftFunc() string { return "lift" + e.CanonicalName() }

// enumType carries flat enums as an int32 discriminant and data enums in a
// buffer.
type enumType struct {
	nominal
	enum *component.Enum
}

func (e enumType) Literal(l component.Literal) (string, error) {
	if err := l.Check(e.enum.Type()); err != nil {
		return "", err
	}
	v, _, ok := e.enum.Variant(l.Text())
	if !ok || v.HasFields() {
		return "", errors.LiteralMismatch(e.enum.Name, e.enum.Type().String(), l.String())
	}
	ident := e.class + e.oracle.EnumVariantName(v.Name)
	if e.enum.IsFlat() {
		return ident, nil
	}
	return ident + "{}", nil
}

func (e enumType) Lower(name string) string {
	if e.enum.IsFlat() {
		return "args.Int32(int32(" + name + "))"
	}
	return e.nominal.Lower(name)
}

func (e enumType) Lift(name string) string {
	if e.enum.IsFlat() {
		return "lift" + e.CanonicalName() + "(" + name + ")"
	}
	return e.nominal.Lift(name)
}

// objectType passes objects as the pointer their handle guards.
type objectType struct{ nominal }

func (o objectType) TypeLabel() string { return "*" + o.class }

// liftFunc wraps a native pointer in a new object.
func (o objectType) liftFunc() string { return "lift" + o.CanonicalName() }

func (o objectType) Lower(name string) string {
	return "args.Object(" + name + ".handle)"
}

func (o objectType) Lift(name string) string {
	return "ffi.Result(" + o.liftFunc() + ", " + name + ")"
}

// callbackType passes foreign implementations as handles in the interface's
// registry.
type callbackType struct{ nominal }

func (c callbackType) registry() string { return "registry" + c.CanonicalName() }

func (c callbackType) Lower(name string) string {
	return "ffi.LowerCallback(args, " + c.registry() + ", " + name + ")"
}

func (c callbackType) Lift(name string) string {
	return "ffi.ResultCallback(" + c.registry() + ", " + name + ")"
}

package kotlin

import (
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// nominal is the shared part of the code types of declared entities: values
// lower and write themselves, and the class companion lifts and reads.
// The class definition itself is rendered by the entity's member.
type nominal struct {
	oracle *Oracle
	name   string
	token  string
}

func (n nominal) TypeLabel() string     { return n.oracle.ClassName(n.name) }
func (n nominal) CanonicalName() string { return n.token + n.TypeLabel() }

func (n nominal) Literal(l component.Literal) (string, error) {
	return "", errors.LiteralMismatch(n.name, n.token, l.String())
}

func (n nominal) Lower(name string) string         { return name + ".lower()" }
func (n nominal) Write(name, target string) string { return name + ".write(" + target + ")" }

func (n nominal) HelperCode() (string, error) { return "", nil }
func (n nominal) Imports() []string           { return nil }

type recordType struct{ nominal }

func (r recordType) Lift(name string) string   { return r.TypeLabel() + ".lift(" + name + ")" }
func (r recordType) Read(source string) string { return r.TypeLabel() + ".read(" + source + ")" }

type objectType struct{ nominal }

func (o objectType) Lift(name string) string   { return o.TypeLabel() + ".lift(" + name + ")" }
func (o objectType) Read(source string) string { return o.TypeLabel() + ".read(" + source + ")" }

// errorType spells errors as exceptions.
type errorType struct{ nominal }

func (e errorType) TypeLabel() string {
	return e.oracle.ExceptionName(e.oracle.ClassName(e.name))
}

func (e errorType) CanonicalName() string { return e.token + e.TypeLabel() }

func (e errorType) Lift(name string) string   { return e.TypeLabel() + ".lift(" + name + ")" }
func (e errorType) Read(source string) string { return e.TypeLabel() + ".read(" + source + ")" }

// enumType renders flat enums as an enum class carried as an Int and data
// enums as a sealed class carried in a buffer.
type enumType struct {
	oracle *Oracle
	enum   *component.Enum
}

func (e enumType) TypeLabel() string     { return e.oracle.ClassName(e.enum.Name) }
func (e enumType) CanonicalName() string { return "Enum" + e.TypeLabel() }

func (e enumType) Literal(l component.Literal) (string, error) {
	if err := l.Check(e.enum.Type()); err != nil {
		return "", err
	}
	v, _, ok := e.enum.Variant(l.Text())
	if !ok || v.HasFields() {
		return "", errors.LiteralMismatch(e.enum.Name, e.enum.Type().String(), l.String())
	}
	if e.enum.IsFlat() {
		return e.TypeLabel() + "." + e.oracle.EnumVariantName(v.Name), nil
	}
	return e.TypeLabel() + "." + e.oracle.ClassName(v.Name), nil
}

func (e enumType) Lower(name string) string         { return name + ".lower()" }
func (e enumType) Write(name, target string) string { return name + ".write(" + target + ")" }
func (e enumType) Lift(name string) string          { return e.TypeLabel() + ".lift(" + name + ")" }
func (e enumType) Read(source string) string        { return e.TypeLabel() + ".read(" + source + ")" }
func (e enumType) HelperCode() (string, error)      { return "", nil }
func (e enumType) Imports() []string                { return nil }

// callbackType passes foreign implementations as handles owned by the
// interface's "<Canonical>Internals" object.
type callbackType struct {
	nominal
	cb *component.CallbackInterface
}

func (c callbackType) internals() string { return c.CanonicalName() + "Internals" }

func (c callbackType) Lower(name string) string {
	return c.internals() + ".lower(" + name + ")"
}

func (c callbackType) Write(name, target string) string {
	return c.internals() + ".write(" + name + ", " + target + ")"
}

func (c callbackType) Lift(name string) string {
	return c.internals() + ".lift(" + name + ")"
}

func (c callbackType) Read(source string) string {
	return c.internals() + ".read(" + source + ")"
}

func (c callbackType) Imports() []string { return []string{"com.sun.jna.Callback"} }

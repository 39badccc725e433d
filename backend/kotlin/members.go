package kotlin

import (
	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/internal/casing"
)

// callable is the template view of anything that calls a native symbol.
type callable struct {
	Name      string
	Arguments []component.Argument
	Returns   *component.Type
	// Throws is the exception class; "" when the call cannot fail.
	Throws   string
	FFI      component.FFIFunction
	Receiver bool
	Unsigned bool
}

func (o *Oracle) callable(name string, args []component.Argument, returns *component.Type, throws string, ffi component.FFIFunction) callable {
	c := callable{
		Name:      o.FunctionName(name),
		Arguments: args,
		Returns:   returns,
		FFI:       ffi,
	}
	if throws != "" {
		c.Throws = o.ExceptionName(o.ClassName(throws))
	}
	return c
}

// Members returns a declaration for every entity of the interface.
func (o *Oracle) Members() []backend.MemberDeclaration {
	var out []backend.MemberDeclaration
	for _, e := range o.ci.Enums() {
		out = append(out, enumMember{oracle: o, enum: e})
	}
	for _, r := range o.ci.Records() {
		out = append(out, recordMember{oracle: o, record: r})
	}
	for _, e := range o.ci.Errors() {
		out = append(out, errorMember{oracle: o, err: e})
	}
	for _, f := range o.ci.Functions() {
		out = append(out, functionMember{oracle: o, fn: f})
	}
	for _, obj := range o.ci.Objects() {
		out = append(out, objectMember{oracle: o, object: obj})
	}
	for _, cb := range o.ci.CallbackInterfaces() {
		out = append(out, callbackMember{oracle: o, cb: cb})
	}
	return out
}

type enumMember struct {
	oracle *Oracle
	enum   *component.Enum
}

func (m enumMember) Name() string                           { return m.enum.Name }
func (m enumMember) TypeIdentifier() (component.Type, bool) { return m.enum.Type(), true }
func (m enumMember) Imports() []string                      { return nil }

func (m enumMember) DefinitionCode() (string, error) {
	return m.oracle.render("Enum.kt", struct {
		Class      string
		Enum       *component.Enum
		Unsigned   bool
		Disposable bool
	}{
		Class:      m.oracle.ClassName(m.enum.Name),
		Enum:       m.enum,
		Unsigned:   m.enum.ContainsUnsignedTypes(),
		Disposable: m.enum.ContainsObjectReferences(),
	})
}

type recordMember struct {
	oracle *Oracle
	record *component.Record
}

func (m recordMember) Name() string                           { return m.record.Name }
func (m recordMember) TypeIdentifier() (component.Type, bool) { return m.record.Type(), true }
func (m recordMember) Imports() []string                      { return nil }

func (m recordMember) DefinitionCode() (string, error) {
	return m.oracle.render("Record.kt", struct {
		Class      string
		Record     *component.Record
		Unsigned   bool
		Disposable bool
	}{
		Class:      m.oracle.ClassName(m.record.Name),
		Record:     m.record,
		Unsigned:   m.record.ContainsUnsignedTypes(),
		Disposable: m.record.ContainsObjectReferences(),
	})
}

type errorMember struct {
	oracle *Oracle
	err    *component.Error
}

func (m errorMember) Name() string                           { return m.err.Name }
func (m errorMember) TypeIdentifier() (component.Type, bool) { return m.err.Type(), true }
func (m errorMember) Imports() []string                      { return nil }

func (m errorMember) DefinitionCode() (string, error) {
	return m.oracle.render("Error.kt", struct {
		Class      string
		Error      *component.Error
		Unsigned   bool
		Disposable bool
	}{
		Class:      m.oracle.ExceptionName(m.oracle.ClassName(m.err.Name)),
		Error:      m.err,
		Unsigned:   m.err.ContainsUnsignedTypes(),
		Disposable: m.err.ContainsObjectReferences(),
	})
}

type functionMember struct {
	oracle *Oracle
	fn     *component.Function
}

func (m functionMember) Name() string                           { return m.fn.Name }
func (m functionMember) TypeIdentifier() (component.Type, bool) { return component.Type{}, false }
func (m functionMember) Imports() []string                      { return nil }

func (m functionMember) DefinitionCode() (string, error) {
	c := m.oracle.callable(m.fn.Name, m.fn.Arguments, m.fn.Returns, m.fn.Throws, m.fn.FFIFunc())
	c.Unsigned = m.fn.ContainsUnsignedTypes()
	return m.oracle.render("TopLevelFunction.kt", c)
}

type objectMember struct {
	oracle *Oracle
	object *component.Object
}

func (m objectMember) Name() string                           { return m.object.Name }
func (m objectMember) TypeIdentifier() (component.Type, bool) { return m.object.Type(), true }
func (m objectMember) Imports() []string                      { return nil }

func (m objectMember) DefinitionCode() (string, error) {
	o := m.oracle
	data := struct {
		Class        string
		Primary      *callable
		Constructors []callable
		Methods      []callable
		Free         string
		Unsigned     bool
	}{
		Class:    o.ClassName(m.object.Name),
		Free:     m.object.FFIObjectFree().Name,
		Unsigned: m.object.ContainsUnsignedTypes(),
	}
	for i := range m.object.Constructors {
		ctor := &m.object.Constructors[i]
		c := o.callable(ctor.Name, ctor.Arguments, nil, ctor.Throws, ctor.FFIFunc())
		if ctor.IsPrimary() {
			data.Primary = &c
			continue
		}
		data.Constructors = append(data.Constructors, c)
	}
	for i := range m.object.Methods {
		meth := &m.object.Methods[i]
		c := o.callable(meth.Name, meth.Arguments, meth.Returns, meth.Throws, meth.FFIFunc())
		c.Receiver = true
		data.Methods = append(data.Methods, c)
	}
	return o.render("Object.kt", data)
}

type callbackMember struct {
	oracle *Oracle
	cb     *component.CallbackInterface
}

// callbackMethod is the template view of one foreign-implemented method.
// Index is the method number native code dispatches on.
type callbackMethod struct {
	callable
	Index   int
	Invoker string
}

func (m callbackMember) Name() string { return m.cb.Name }
func (m callbackMember) TypeIdentifier() (component.Type, bool) {
	return m.cb.Type(), true
}
func (m callbackMember) Imports() []string { return nil }

func (m callbackMember) DefinitionCode() (string, error) {
	o := m.oracle
	ct := callbackType{nominal: nominal{oracle: o, name: m.cb.Name, token: "CallbackInterface"}, cb: m.cb}
	data := struct {
		Class     string
		Canonical string
		Init      string
		Methods   []callbackMethod
		Unsigned  bool
	}{
		Class:     ct.TypeLabel(),
		Canonical: ct.CanonicalName(),
		Init:      m.cb.FFIInitCallback().Name,
		Unsigned:  m.cb.ContainsUnsignedTypes(),
	}
	for i := range m.cb.Methods {
		meth := &m.cb.Methods[i]
		data.Methods = append(data.Methods, callbackMethod{
			callable: o.callable(meth.Name, meth.Arguments, meth.Returns, meth.Throws, component.FFIFunction{}),
			Index:    i + 1,
			Invoker:  "invoke" + casing.UpperCamel(meth.Name),
		})
	}
	return o.render("CallbackInterface.kt", data)
}

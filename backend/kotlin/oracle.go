package kotlin

import (
	"text/template"

	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// Oracle resolves interface types to Kotlin code types.
type Oracle struct {
	ci        *component.Interface
	templates *template.Template
}

// NewOracle creates an oracle over ci. ci is only read.
func NewOracle(ci *component.Interface) *Oracle {
	o := &Oracle{ci: ci}
	o.templates = parseTemplates(o.funcMap())
	return o
}

var _ backend.Oracle = (*Oracle)(nil)

// Find returns the code type of t. Nominal types must be declared in the
// interface.
func (o *Oracle) Find(t component.Type) (backend.CodeType, error) {
	switch k := t.Kind(); {
	case k == component.KindString:
		return stringType{oracle: o}, nil
	case k == component.KindTimestamp || k == component.KindDuration:
		return timeType{oracle: o, kind: k}, nil
	case k.IsPrimitive():
		p, ok := primitives[k]
		if !ok {
			return nil, errors.Unresolved("", t.String())
		}
		return primitiveType{oracle: o, typ: t, primitive: p}, nil
	case k.IsCompound():
		inner, _ := t.Inner()
		ct, err := o.Find(inner)
		if err != nil {
			return nil, err
		}
		return compoundType{oracle: o, outer: t, inner: inner, innerCode: ct}, nil
	}
	return o.findNominal(t)
}

func (o *Oracle) findNominal(t component.Type) (backend.CodeType, error) {
	name := t.Name()
	switch t.Kind() {
	case component.KindEnum:
		if e, ok := o.ci.Enum(name); ok {
			return enumType{oracle: o, enum: e}, nil
		}
	case component.KindRecord:
		if r, ok := o.ci.Record(name); ok {
			return recordType{nominal{oracle: o, name: r.Name, token: "Record"}}, nil
		}
	case component.KindError:
		if e, ok := o.ci.Error(name); ok {
			return errorType{nominal{oracle: o, name: e.Name, token: "Error"}}, nil
		}
	case component.KindObject:
		if obj, ok := o.ci.Object(name); ok {
			return objectType{nominal{oracle: o, name: obj.Name, token: "Object"}}, nil
		}
	case component.KindCallbackInterface:
		if cb, ok := o.ci.CallbackInterface(name); ok {
			return callbackType{nominal: nominal{oracle: o, name: cb.Name, token: "CallbackInterface"}, cb: cb}, nil
		}
	}
	return nil, errors.Unresolved(name, t.String())
}

// containsUnsigned reports whether values of t can hold an unsigned integer,
// looking through nominal types by their precomputed metadata.
func (o *Oracle) containsUnsigned(t component.Type) bool {
	found := false
	t.Walk(func(cur component.Type) {
		if found {
			return
		}
		if cur.IsUnsigned() {
			found = true
			return
		}
		found = o.nominalUnsigned(cur)
	})
	return found
}

func (o *Oracle) nominalUnsigned(t component.Type) bool {
	name := t.Name()
	switch t.Kind() {
	case component.KindEnum:
		e, ok := o.ci.Enum(name)
		return ok && e.ContainsUnsignedTypes()
	case component.KindRecord:
		r, ok := o.ci.Record(name)
		return ok && r.ContainsUnsignedTypes()
	case component.KindError:
		e, ok := o.ci.Error(name)
		return ok && e.ContainsUnsignedTypes()
	case component.KindObject:
		obj, ok := o.ci.Object(name)
		return ok && obj.ContainsUnsignedTypes()
	case component.KindCallbackInterface:
		cb, ok := o.ci.CallbackInterface(name)
		return ok && cb.ContainsUnsignedTypes()
	}
	return false
}

// label resolves t and returns its Kotlin spelling.
func (o *Oracle) label(t component.Type) (string, error) {
	ct, err := o.Find(t)
	if err != nil {
		return "", err
	}
	return ct.TypeLabel(), nil
}

package golang

import (
	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// Oracle resolves interface types to Go code types.
//
// Expressions returned by code types assume the locals generated bodies
// bind: args (*ffi.Args) for Lower, l (ffi.Library) for Lift, and the
// reader or writer passed to Read and Write.
type Oracle struct {
	ci *component.Interface
}

// NewOracle creates an oracle over ci. ci is only read.
func NewOracle(ci *component.Interface) *Oracle {
	return &Oracle{ci: ci}
}

var _ backend.Oracle = (*Oracle)(nil)

// Find returns the code type of t. Nominal types must be declared in the
// interface.
func (o *Oracle) Find(t component.Type) (backend.CodeType, error) {
	switch k := t.Kind(); {
	case k == component.KindString:
		return stringType{}, nil
	case k == component.KindTimestamp || k == component.KindDuration:
		return timeType{kind: k}, nil
	case k.IsPrimitive():
		s, ok := scalars[k]
		if !ok {
			return nil, errors.Unresolved("", t.String())
		}
		return scalarType{typ: t, scalar: s}, nil
	case k.IsCompound():
		inner, _ := t.Inner()
		ct, err := o.Find(inner)
		if err != nil {
			return nil, err
		}
		return compoundType{outer: t, innerCode: ct.(codeType)}, nil
	}
	return o.findNominal(t)
}

func (o *Oracle) findNominal(t component.Type) (backend.CodeType, error) {
	name := t.Name()
	switch t.Kind() {
	case component.KindEnum:
		if e, ok := o.ci.Enum(name); ok {
			return enumType{nominal: o.nominal(e.Name, "Enum"), enum: e}, nil
		}
	case component.KindRecord:
		if r, ok := o.ci.Record(name); ok {
			return recordType{o.nominal(r.Name, "Record")}, nil
		}
	case component.KindError:
		if e, ok := o.ci.Error(name); ok {
			return errorType{o.nominal(e.Name, "Error")}, nil
		}
	case component.KindObject:
		if obj, ok := o.ci.Object(name); ok {
			return objectType{o.nominal(obj.Name, "Object")}, nil
		}
	case component.KindCallbackInterface:
		if cb, ok := o.ci.CallbackInterface(name); ok {
			return callbackType{o.nominal(cb.Name, "CallbackInterface")}, nil
		}
	}
	return nil, errors.Unresolved(name, t.String())
}

func (o *Oracle) nominal(name, token string) nominal {
	return nominal{oracle: o, name: name, class: o.ClassName(name), token: token}
}

// code resolves t to the Go code type; members only call it for types the
// interface already validated.
func (o *Oracle) code(t component.Type) (codeType, error) {
	ct, err := o.Find(t)
	if err != nil {
		return nil, err
	}
	return ct.(codeType), nil
}

package component

import (
	"slices"

	"github.com/wippyai/ffi-bindgen/errors"
)

// Definitions is the raw input of an interface: a namespace and the
// entities declared in it, each list in declaration order.
type Definitions struct {
	Namespace          string
	Functions          []Function
	Enums              []Enum
	Records            []Record
	Errors             []Error
	Objects            []Object
	CallbackInterfaces []CallbackInterface
}

// Interface is a validated, immutable component interface. Entity metadata,
// the type inventory and the native symbol table are computed once by New.
type Interface struct {
	namespace          string
	functions          []*Function
	enums              []*Enum
	records            []*Record
	errors             []*Error
	objects            []*Object
	callbackInterfaces []*CallbackInterface
	kinds              map[string]Kind
	types              []Type
	ffiFunctions       []FFIFunction
}

// New validates defs and builds the interface. The definitions are copied;
// later changes to defs do not affect the result.
func New(defs Definitions) (*Interface, error) {
	ci := &Interface{
		namespace: defs.Namespace,
		kinds:     make(map[string]Kind),
	}
	for _, e := range defs.Enums {
		e.Variants = cloneVariants(e.Variants)
		ci.enums = append(ci.enums, &e)
	}
	for _, r := range defs.Records {
		r.Fields = slices.Clone(r.Fields)
		ci.records = append(ci.records, &r)
	}
	for _, e := range defs.Errors {
		e.Variants = cloneVariants(e.Variants)
		ci.errors = append(ci.errors, &e)
	}
	for _, f := range defs.Functions {
		f.Arguments = slices.Clone(f.Arguments)
		ci.functions = append(ci.functions, &f)
	}
	for _, o := range defs.Objects {
		o.Constructors = slices.Clone(o.Constructors)
		for i := range o.Constructors {
			o.Constructors[i].Arguments = slices.Clone(o.Constructors[i].Arguments)
		}
		o.Methods = cloneMethods(o.Methods)
		ci.objects = append(ci.objects, &o)
	}
	for _, c := range defs.CallbackInterfaces {
		c.Methods = cloneMethods(c.Methods)
		ci.callbackInterfaces = append(ci.callbackInterfaces, &c)
	}

	if err := ci.validate(); err != nil {
		return nil, err
	}
	if err := ci.checkRecursion(); err != nil {
		return nil, err
	}
	ci.computeMetadata()
	ci.types = ci.collectTypes()
	ci.ffiFunctions = ci.deriveFFIFunctions()
	return ci, nil
}

func cloneVariants(vs []Variant) []Variant {
	out := slices.Clone(vs)
	for i := range out {
		out[i].Fields = slices.Clone(out[i].Fields)
	}
	return out
}

func cloneMethods(ms []Method) []Method {
	out := slices.Clone(ms)
	for i := range out {
		out[i].Arguments = slices.Clone(out[i].Arguments)
	}
	return out
}

func (ci *Interface) Namespace() string { return ci.namespace }

func (ci *Interface) Functions() []*Function                   { return slices.Clone(ci.functions) }
func (ci *Interface) Enums() []*Enum                           { return slices.Clone(ci.enums) }
func (ci *Interface) Records() []*Record                       { return slices.Clone(ci.records) }
func (ci *Interface) Errors() []*Error                         { return slices.Clone(ci.errors) }
func (ci *Interface) Objects() []*Object                       { return slices.Clone(ci.objects) }
func (ci *Interface) CallbackInterfaces() []*CallbackInterface { return slices.Clone(ci.callbackInterfaces) }

func (ci *Interface) Function(name string) (*Function, bool) { return lookup(ci.functions, name) }
func (ci *Interface) Enum(name string) (*Enum, bool)         { return lookup(ci.enums, name) }
func (ci *Interface) Record(name string) (*Record, bool)     { return lookup(ci.records, name) }
func (ci *Interface) Error(name string) (*Error, bool)       { return lookup(ci.errors, name) }
func (ci *Interface) Object(name string) (*Object, bool)     { return lookup(ci.objects, name) }

func (ci *Interface) CallbackInterface(name string) (*CallbackInterface, bool) {
	return lookup(ci.callbackInterfaces, name)
}

type named interface {
	*Function | *Enum | *Record | *Error | *Object | *CallbackInterface
}

func lookup[T named](items []T, name string) (T, bool) {
	for _, it := range items {
		if entityName(it) == name {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func entityName(v any) string {
	switch e := v.(type) {
	case *Function:
		return e.Name
	case *Enum:
		return e.Name
	case *Record:
		return e.Name
	case *Error:
		return e.Name
	case *Object:
		return e.Name
	case *CallbackInterface:
		return e.Name
	}
	return ""
}

// KindOf returns the kind of the entity declared as name.
func (ci *Interface) KindOf(name string) (Kind, bool) {
	k, ok := ci.kinds[name]
	return k, ok
}

// Resolve checks that every nominal type reachable from t structurally names
// a declared entity of the matching kind.
func (ci *Interface) Resolve(t Type) error {
	var err error
	t.Walk(func(cur Type) {
		if err != nil || !cur.IsNominal() {
			return
		}
		if k, ok := ci.kinds[cur.name]; !ok || k != cur.kind {
			err = errors.Unresolved("", cur.String())
		}
	})
	return err
}

// IterTypes returns every type used by the interface, each canonical name
// once, in a stable order: declared entities in the order enums, records,
// errors, functions, objects, callback interfaces, each followed by the
// types its members mention, outermost first.
func (ci *Interface) IterTypes() []Type { return slices.Clone(ci.types) }

func (ci *Interface) collectTypes() []Type {
	var out []Type
	seen := make(map[string]bool)
	add := func(t Type) {
		t.Walk(func(cur Type) {
			key := cur.CanonicalName()
			if seen[key] {
				return
			}
			seen[key] = true
			out = append(out, cur)
			if cur.kind == KindMap {
				if !seen[KindString.String()] {
					seen[KindString.String()] = true
					out = append(out, String())
				}
			}
		})
	}
	addAll := func(own Type, members []Type) {
		if own.IsValid() {
			add(own)
		}
		for _, t := range members {
			add(t)
		}
	}

	for _, e := range ci.enums {
		addAll(e.Type(), e.memberTypes())
	}
	for _, r := range ci.records {
		addAll(r.Type(), r.memberTypes())
	}
	for _, e := range ci.errors {
		addAll(e.Type(), e.memberTypes())
	}
	for _, f := range ci.functions {
		addAll(Type{}, f.memberTypes())
	}
	for _, o := range ci.objects {
		addAll(o.Type(), o.memberTypes())
	}
	for _, c := range ci.callbackInterfaces {
		addAll(c.Type(), c.memberTypes())
	}
	return out
}

// FFIType maps a type to the low-level type used to pass it across the
// native boundary.
func (ci *Interface) FFIType(t Type) FFIType {
	switch t.kind {
	case KindInt8:
		return FFIInt8
	case KindUInt8:
		return FFIUInt8
	case KindInt16:
		return FFIInt16
	case KindUInt16:
		return FFIUInt16
	case KindInt32:
		return FFIInt32
	case KindUInt32:
		return FFIUInt32
	case KindInt64:
		return FFIInt64
	case KindUInt64:
		return FFIUInt64
	case KindFloat32:
		return FFIFloat32
	case KindFloat64:
		return FFIFloat64
	case KindBool:
		return FFIInt8
	case KindEnum:
		if e, ok := ci.Enum(t.name); ok && e.IsFlat() {
			return FFIInt32
		}
		return FFIRustBuffer
	case KindObject:
		return FFIRustArcPtr
	case KindCallbackInterface:
		return FFIUInt64
	}
	return FFIRustBuffer
}

// FFIFunctions returns every native symbol the bindings call: the buffer
// management symbols, then functions, objects and callback interfaces in
// declaration order.
func (ci *Interface) FFIFunctions() []FFIFunction { return slices.Clone(ci.ffiFunctions) }

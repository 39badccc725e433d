package golang

import (
	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

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

// scope maps Go identifiers to the model names that produced them.
type scope struct {
	name string
	seen map[string]string
}

func newScope(name string, fixed ...string) *scope {
	s := &scope{name: name, seen: make(map[string]string)}
	for _, id := range fixed {
		s.seen[id] = "generated " + id
	}
	return s
}

func (s *scope) add(logical, ident string) error {
	if first, ok := s.seen[ident]; ok && first != logical {
		return errors.NameCollision(s.name, ident, first, logical)
	}
	s.seen[ident] = logical
	return nil
}

// checkPackageScope reports identifiers that only collide in Go: every
// type, variant, constructor and function shares one package scope, and
// generated methods share the method set of their type.
func (o *Oracle) checkPackageScope() error {
	pkg := newScope("package", "Load", "LibraryName")
	variants := func(class string, vs []component.Variant, methods ...string) error {
		for _, v := range vs {
			if err := pkg.add(class+"."+v.Name, class+o.EnumVariantName(v.Name)); err != nil {
				return err
			}
			fields := newScope(class+"."+v.Name+" field", append(methods, "Destroy")...)
			for _, f := range v.Fields {
				if err := fields.add(f.Name, o.FieldName(f.Name)); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, e := range o.ci.Enums() {
		class := o.ClassName(e.Name)
		if err := pkg.add(e.Name, class); err != nil {
			return err
		}
		if err := variants(class, e.Variants); err != nil {
			return err
		}
	}
	for _, r := range o.ci.Records() {
		class := o.ClassName(r.Name)
		if err := pkg.add(r.Name, class); err != nil {
			return err
		}
		for _, f := range r.Fields {
			if f.Default == nil {
				continue
			}
			if err := pkg.add(r.Name+" defaults", "Default"+class); err != nil {
				return err
			}
			break
		}
		fields := newScope(r.Name+" field", "Destroy")
		for _, f := range r.Fields {
			if err := fields.add(f.Name, o.FieldName(f.Name)); err != nil {
				return err
			}
		}
	}
	for _, e := range o.ci.Errors() {
		class := o.ExceptionName(o.ClassName(e.Name))
		if err := pkg.add(e.Name, class); err != nil {
			return err
		}
		if err := variants(class, e.Variants, "Error"); err != nil {
			return err
		}
	}
	for _, obj := range o.ci.Objects() {
		class := o.ClassName(obj.Name)
		if err := pkg.add(obj.Name, class); err != nil {
			return err
		}
		for i := range obj.Constructors {
			c := &obj.Constructors[i]
			if err := pkg.add(obj.Name+"."+c.Name, o.constructorName(class, c)); err != nil {
				return err
			}
		}
		methods := newScope(obj.Name+" method", "Destroy")
		for _, m := range obj.Methods {
			if err := methods.add(m.Name, o.FunctionName(m.Name)); err != nil {
				return err
			}
		}
	}
	for _, cb := range o.ci.CallbackInterfaces() {
		if err := pkg.add(cb.Name, o.ClassName(cb.Name)); err != nil {
			return err
		}
	}
	for _, f := range o.ci.Functions() {
		if err := pkg.add(f.Name, o.FunctionName(f.Name)); err != nil {
			return err
		}
	}
	return nil
}

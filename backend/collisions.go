package backend

import (
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// nameScope detects two logical names rendering to one spelling.
type nameScope struct {
	scope string
	seen  map[string]string
}

func newScope(scope string) *nameScope {
	return &nameScope{scope: scope, seen: make(map[string]string)}
}

func (s *nameScope) add(logical, rendered string) error {
	if first, ok := s.seen[rendered]; ok && first != logical {
		return errors.NameCollision(s.scope, rendered, first, logical)
	}
	s.seen[rendered] = logical
	return nil
}

// CheckCollisions verifies that oracle renders the names of ci without
// collisions: type names share one scope, top-level functions another,
// and every entity's members and every signature's arguments get their own.
func CheckCollisions(ci *component.Interface, oracle Oracle) error {
	types := newScope("type")
	for _, e := range ci.Enums() {
		if err := types.add(e.Name, oracle.ClassName(e.Name)); err != nil {
			return err
		}
		if err := checkVariants(e.Name, e.Variants, oracle.EnumVariantName, oracle); err != nil {
			return err
		}
	}
	for _, r := range ci.Records() {
		if err := types.add(r.Name, oracle.ClassName(r.Name)); err != nil {
			return err
		}
		if err := checkFields(r.Name, r.Fields, oracle); err != nil {
			return err
		}
	}
	for _, e := range ci.Errors() {
		if err := types.add(e.Name, oracle.ExceptionName(oracle.ClassName(e.Name))); err != nil {
			return err
		}
		exception := func(n string) string { return oracle.ExceptionName(oracle.ClassName(n)) }
		if err := checkVariants(e.Name, e.Variants, exception, oracle); err != nil {
			return err
		}
	}
	for _, o := range ci.Objects() {
		if err := types.add(o.Name, oracle.ClassName(o.Name)); err != nil {
			return err
		}
		members := newScope(o.Name + " member")
		for _, c := range o.Constructors {
			if err := members.add(c.Name, oracle.FunctionName(c.Name)); err != nil {
				return err
			}
			if err := checkArguments(o.Name+"."+c.Name, c.Arguments, oracle); err != nil {
				return err
			}
		}
		for _, m := range o.Methods {
			if err := members.add(m.Name, oracle.FunctionName(m.Name)); err != nil {
				return err
			}
			if err := checkArguments(o.Name+"."+m.Name, m.Arguments, oracle); err != nil {
				return err
			}
		}
	}
	for _, c := range ci.CallbackInterfaces() {
		if err := types.add(c.Name, oracle.ClassName(c.Name)); err != nil {
			return err
		}
		members := newScope(c.Name + " method")
		for _, m := range c.Methods {
			if err := members.add(m.Name, oracle.FunctionName(m.Name)); err != nil {
				return err
			}
			if err := checkArguments(c.Name+"."+m.Name, m.Arguments, oracle); err != nil {
				return err
			}
		}
	}

	funcs := newScope("function")
	for _, f := range ci.Functions() {
		if err := funcs.add(f.Name, oracle.FunctionName(f.Name)); err != nil {
			return err
		}
		if err := checkArguments(f.Name, f.Arguments, oracle); err != nil {
			return err
		}
	}
	return nil
}

func checkVariants(entity string, variants []component.Variant, render func(string) string, oracle Oracle) error {
	scope := newScope(entity + " variant")
	for _, v := range variants {
		if err := scope.add(v.Name, render(v.Name)); err != nil {
			return err
		}
		if err := checkFields(entity+"."+v.Name, v.Fields, oracle); err != nil {
			return err
		}
	}
	return nil
}

func checkFields(entity string, fields []component.Field, oracle Oracle) error {
	scope := newScope(entity + " field")
	for _, f := range fields {
		if err := scope.add(f.Name, oracle.VariableName(f.Name)); err != nil {
			return err
		}
	}
	return nil
}

func checkArguments(entity string, args []component.Argument, oracle Oracle) error {
	scope := newScope(entity + " argument")
	for _, a := range args {
		if err := scope.add(a.Name, oracle.VariableName(a.Name)); err != nil {
			return err
		}
	}
	return nil
}

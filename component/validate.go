package component

import (
	"regexp"

	"github.com/wippyai/ffi-bindgen/errors"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validate checks names, uniqueness, references and defaults. The first
// problem found is returned; checks run in declaration order so the result
// is stable.
func (ci *Interface) validate() error {
	if !identifier.MatchString(ci.namespace) {
		return errors.InvalidName("", "namespace", ci.namespace)
	}

	declare := func(name string, k Kind) error {
		if !identifier.MatchString(name) {
			return errors.InvalidName(name, k.String(), name)
		}
		if _, dup := ci.kinds[name]; dup {
			return errors.Duplicate("type", name)
		}
		ci.kinds[name] = k
		return nil
	}
	for _, e := range ci.enums {
		if err := declare(e.Name, KindEnum); err != nil {
			return err
		}
	}
	for _, r := range ci.records {
		if err := declare(r.Name, KindRecord); err != nil {
			return err
		}
	}
	for _, e := range ci.errors {
		if err := declare(e.Name, KindError); err != nil {
			return err
		}
	}
	for _, o := range ci.objects {
		if err := declare(o.Name, KindObject); err != nil {
			return err
		}
	}
	for _, c := range ci.callbackInterfaces {
		if err := declare(c.Name, KindCallbackInterface); err != nil {
			return err
		}
	}

	fnames := make(map[string]bool)
	for _, f := range ci.functions {
		if !identifier.MatchString(f.Name) {
			return errors.InvalidName(f.Name, "function", f.Name)
		}
		if fnames[f.Name] {
			return errors.Duplicate("function", f.Name)
		}
		fnames[f.Name] = true
	}

	for _, e := range ci.enums {
		if len(e.Variants) == 0 {
			return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Entity(e.Name).
				Detail("enum declares no variants").
				Build()
		}
		if err := ci.checkVariants(e.Name, e.Variants); err != nil {
			return err
		}
	}
	for _, r := range ci.records {
		if err := ci.checkFields(r.Name, nil, r.Fields); err != nil {
			return err
		}
	}
	for _, e := range ci.errors {
		if len(e.Variants) == 0 {
			return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Entity(e.Name).
				Detail("error declares no variants").
				Build()
		}
		if err := ci.checkVariants(e.Name, e.Variants); err != nil {
			return err
		}
	}
	for _, f := range ci.functions {
		if err := ci.checkSignature(f.Name, nil, f.Arguments, f.Returns, f.Throws); err != nil {
			return err
		}
	}
	for _, o := range ci.objects {
		members := make(map[string]bool)
		for _, c := range o.Constructors {
			if err := ci.checkMember(o.Name, "constructor", c.Name, members); err != nil {
				return err
			}
			if err := ci.checkSignature(o.Name, []string{c.Name}, c.Arguments, nil, c.Throws); err != nil {
				return err
			}
		}
		for _, m := range o.Methods {
			if err := ci.checkMember(o.Name, "method", m.Name, members); err != nil {
				return err
			}
			if err := ci.checkSignature(o.Name, []string{m.Name}, m.Arguments, m.Returns, m.Throws); err != nil {
				return err
			}
		}
	}
	for _, c := range ci.callbackInterfaces {
		members := make(map[string]bool)
		for _, m := range c.Methods {
			if err := ci.checkMember(c.Name, "method", m.Name, members); err != nil {
				return err
			}
			if err := ci.checkSignature(c.Name, []string{m.Name}, m.Arguments, m.Returns, m.Throws); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ci *Interface) checkMember(entity, what, name string, seen map[string]bool) error {
	if !identifier.MatchString(name) {
		return errors.InvalidName(entity, what, name)
	}
	if seen[name] {
		return errors.Duplicate(what, entity+"."+name)
	}
	seen[name] = true
	return nil
}

func (ci *Interface) checkVariants(entity string, variants []Variant) error {
	seen := make(map[string]bool)
	for _, v := range variants {
		if err := ci.checkMember(entity, "variant", v.Name, seen); err != nil {
			return err
		}
		if err := ci.checkFields(entity, []string{v.Name}, v.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (ci *Interface) checkFields(entity string, path []string, fields []Field) error {
	seen := make(map[string]bool)
	for _, f := range fields {
		if err := ci.checkMember(entity, "field", f.Name, seen); err != nil {
			return err
		}
		if err := ci.checkTyped(entity, append(path, f.Name), f.Type, f.Default); err != nil {
			return err
		}
	}
	return nil
}

func (ci *Interface) checkSignature(entity string, path []string, args []Argument, returns *Type, throws string) error {
	seen := make(map[string]bool)
	for _, a := range args {
		if err := ci.checkMember(entity, "argument", a.Name, seen); err != nil {
			return err
		}
		if err := ci.checkTyped(entity, append(path, a.Name), a.Type, a.Default); err != nil {
			return err
		}
	}
	if returns != nil {
		if err := ci.checkType(entity, path, *returns); err != nil {
			return err
		}
	}
	if throws != "" {
		if k, ok := ci.kinds[throws]; !ok || k != KindError {
			return errors.New(errors.PhaseResolve, errors.KindUnresolvedType).
				Entity(entity).
				Path(path...).
				Type(throws).
				Detail("throws clause must name a declared error").
				Build()
		}
	}
	return nil
}

func (ci *Interface) checkType(entity string, path []string, t Type) error {
	if !t.IsValid() {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Entity(entity).
			Path(path...).
			Detail("missing type").
			Build()
	}
	if err := ci.Resolve(t); err != nil {
		e := err.(*errors.Error).WithEntity(entity)
		e.Path = path
		return e
	}
	return nil
}

func (ci *Interface) checkTyped(entity string, path []string, t Type, def *Literal) error {
	if err := ci.checkType(entity, path, t); err != nil {
		return err
	}
	if def == nil {
		return nil
	}
	if err := def.Check(t); err != nil {
		return errors.Attribute(err, entity)
	}
	if def.Kind() == LiteralEnum {
		e, ok := ci.Enum(def.Type().Name())
		if !ok {
			return errors.Unresolved(entity, def.Type().String())
		}
		if _, _, ok := e.Variant(def.Text()); !ok {
			return errors.LiteralMismatch(entity, t.String(), def.String())
		}
	}
	return nil
}

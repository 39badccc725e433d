package component

import "github.com/wippyai/ffi-bindgen/errors"

// reachable walks the type graph from roots, following nominal references
// into the members of the named entity. Each entity is expanded once, so
// self-reference through optional, sequence or map terminates.
func (ci *Interface) reachable(roots []Type, visit func(Type) bool) bool {
	visited := make(map[string]bool)
	var walk func(t Type) bool
	walk = func(t Type) bool {
		found := false
		t.Walk(func(cur Type) {
			if found {
				return
			}
			if visit(cur) {
				found = true
				return
			}
			if !cur.IsNominal() || visited[cur.name] {
				return
			}
			visited[cur.name] = true
			for _, m := range ci.membersOf(cur) {
				if walk(m) {
					found = true
					return
				}
			}
		})
		return found
	}
	for _, t := range roots {
		if walk(t) {
			return true
		}
	}
	return false
}

func (ci *Interface) membersOf(t Type) []Type {
	switch t.kind {
	case KindEnum:
		if e, ok := ci.Enum(t.name); ok {
			return e.memberTypes()
		}
	case KindRecord:
		if r, ok := ci.Record(t.name); ok {
			return r.memberTypes()
		}
	case KindError:
		if e, ok := ci.Error(t.name); ok {
			return e.memberTypes()
		}
	case KindObject:
		if o, ok := ci.Object(t.name); ok {
			return o.memberTypes()
		}
	case KindCallbackInterface:
		if c, ok := ci.CallbackInterface(t.name); ok {
			return c.memberTypes()
		}
	}
	return nil
}

func (ci *Interface) flags(own Type, members []Type) metadata {
	roots := members
	if own.IsValid() {
		roots = append([]Type{own}, members...)
	}
	return metadata{
		unsigned: ci.reachable(roots, Type.IsUnsigned),
		objects: ci.reachable(roots, func(t Type) bool {
			return t.kind == KindObject
		}),
	}
}

func (ci *Interface) computeMetadata() {
	for _, e := range ci.enums {
		e.metadata = ci.flags(Type{}, e.memberTypes())
	}
	for _, r := range ci.records {
		r.metadata = ci.flags(Type{}, r.memberTypes())
	}
	for _, e := range ci.errors {
		e.metadata = ci.flags(Type{}, e.memberTypes())
	}
	for _, f := range ci.functions {
		f.metadata = ci.flags(Type{}, f.memberTypes())
	}
	for _, o := range ci.objects {
		o.metadata = ci.flags(o.Type(), o.memberTypes())
	}
	for _, c := range ci.callbackInterfaces {
		c.metadata = ci.flags(Type{}, c.memberTypes())
	}
}

// byValue lists the entities a record, enum or error embeds directly. A
// reference wrapped in optional, sequence or map, or naming an object or a
// callback interface, is an indirection and is not listed.
func (ci *Interface) byValue(t Type) []Type {
	var out []Type
	for _, m := range ci.membersOf(t) {
		switch m.kind {
		case KindRecord, KindEnum, KindError:
			out = append(out, m)
		}
	}
	return out
}

// checkRecursion rejects a cycle of by-value containment, which would make
// the type infinitely large. The cycle path is reported.
func (ci *Interface) checkRecursion() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	var stack []string

	var visit func(t Type) error
	visit = func(t Type) error {
		switch state[t.name] {
		case done:
			return nil
		case active:
			start := 0
			for i, n := range stack {
				if n == t.name {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), stack[start:]...), t.name)
			return errors.RecursiveType(stack[start], cycle)
		}
		state[t.name] = active
		stack = append(stack, t.name)
		for _, m := range ci.byValue(t) {
			if err := visit(m); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[t.name] = done
		return nil
	}

	var roots []Type
	for _, r := range ci.records {
		roots = append(roots, r.Type())
	}
	for _, e := range ci.enums {
		roots = append(roots, e.Type())
	}
	for _, e := range ci.errors {
		roots = append(roots, e.Type())
	}
	for _, t := range roots {
		if err := visit(t); err != nil {
			return err
		}
	}
	return nil
}

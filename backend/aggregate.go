package backend

import (
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// Fragment is one named block of rendered target code.
type Fragment struct {
	// Name is the helper canonical name or the member's model name.
	Name string
	Code string
}

// Plan is the complete, ordered input to a target's file renderer.
type Plan struct {
	Helpers []Fragment
	Members []Fragment
	// Imports is the sorted union of every helper and member import.
	Imports []string
}

// Fragments returns helpers followed by members.
func (p Plan) Fragments() []Fragment {
	out := make([]Fragment, 0, len(p.Helpers)+len(p.Members))
	out = append(out, p.Helpers...)
	return append(out, p.Members...)
}

// memberRank orders definitions: enums, records, errors, functions, objects,
// callback interfaces.
func memberRank(m MemberDeclaration) int {
	t, ok := m.TypeIdentifier()
	if !ok {
		return 3
	}
	switch t.Kind() {
	case component.KindEnum:
		return 0
	case component.KindRecord:
		return 1
	case component.KindError:
		return 2
	case component.KindObject:
		return 4
	case component.KindCallbackInterface:
		return 5
	}
	return 3
}

// Aggregate resolves every type of ci through oracle, emits each helper once
// per canonical name, and renders members in a fixed kind order with
// declaration order preserved inside a kind. The result depends only on its
// inputs.
func Aggregate(ci *component.Interface, oracle Oracle, members []MemberDeclaration) (Plan, error) {
	var plan Plan
	helpers := NewHelperSet()
	imports := make(map[string]struct{})
	addImports := func(list []string) {
		for _, imp := range list {
			imports[imp] = struct{}{}
		}
	}

	for _, t := range ci.IterTypes() {
		ct, err := oracle.Find(t)
		if err != nil {
			return Plan{}, err
		}
		name := ct.CanonicalName()
		fresh, err := helpers.Claim(name, t.CanonicalName())
		if err != nil {
			return Plan{}, err
		}
		if !fresh {
			continue
		}
		code, err := ct.HelperCode()
		if err != nil {
			return Plan{}, errors.Attribute(err, t.String())
		}
		addImports(ct.Imports())
		if code == "" {
			continue
		}
		plan.Helpers = append(plan.Helpers, Fragment{Name: name, Code: code})
		Logger().Debug("helper emitted",
			zap.String("canonical", name),
			zap.String("type", t.String()))
	}

	ordered := slices.Clone(members)
	sort.SliceStable(ordered, func(i, j int) bool {
		return memberRank(ordered[i]) < memberRank(ordered[j])
	})
	for _, m := range ordered {
		code, err := m.DefinitionCode()
		if err != nil {
			return Plan{}, errors.Attribute(err, m.Name())
		}
		addImports(m.Imports())
		plan.Members = append(plan.Members, Fragment{Name: m.Name(), Code: code})
		Logger().Debug("member rendered", zap.String("entity", m.Name()))
	}

	plan.Imports = make([]string, 0, len(imports))
	for imp := range imports {
		plan.Imports = append(plan.Imports, imp)
	}
	sort.Strings(plan.Imports)

	Logger().Debug("aggregate complete",
		zap.String("namespace", ci.Namespace()),
		zap.Int("fragments", len(plan.Helpers)+len(plan.Members)))
	return plan, nil
}

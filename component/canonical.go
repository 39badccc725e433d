package component

import (
	"strings"

	"github.com/wippyai/ffi-bindgen/errors"
)

// CanonicalName returns the key identifying t's shape for helper-code
// deduplication. Primitive kinds use their short name, compound kinds prefix
// the inner canonical name, nominal kinds prefix the entity name:
//
//	optional<sequence<string>>  ->  OptionalSequencestring
//	Person                      ->  RecordPerson
//
// No token is a prefix of another, nominal tokens end a name and primitive
// tokens must consume the rest, so the mapping is injective.
func (t Type) CanonicalName() string {
	var b strings.Builder
	for cur := t; ; cur = *cur.inner {
		b.WriteString(cur.kind.String())
		if cur.kind.IsNominal() {
			b.WriteString(cur.name)
		}
		if cur.inner == nil {
			break
		}
	}
	return b.String()
}

var (
	compoundTokens = []Kind{KindOptional, KindSequence, KindMap}
	nominalTokens  = []Kind{KindEnum, KindRecord, KindObject, KindError, KindCallbackInterface}
)

// ParseCanonicalName is the inverse of Type.CanonicalName.
func ParseCanonicalName(s string) (Type, error) {
	orig := s
	var wrappers []Kind
	for {
		k, rest, ok := cutToken(s, compoundTokens)
		if !ok {
			break
		}
		wrappers = append(wrappers, k)
		s = rest
	}

	var leaf Type
	if k, rest, ok := cutToken(s, nominalTokens); ok {
		if rest == "" {
			return Type{}, errors.InvalidInput(errors.PhaseLoad, "canonical name "+orig+" has an empty entity name")
		}
		leaf = Type{kind: k, name: rest}
	} else {
		k, ok := primitiveByName[s]
		if !ok {
			return Type{}, errors.InvalidInput(errors.PhaseLoad, "malformed canonical name "+orig)
		}
		leaf = Type{kind: k}
	}

	for i := len(wrappers) - 1; i >= 0; i-- {
		inner := leaf
		leaf = Type{kind: wrappers[i], inner: &inner}
	}
	return leaf, nil
}

func cutToken(s string, kinds []Kind) (Kind, string, bool) {
	for _, k := range kinds {
		if rest, ok := strings.CutPrefix(s, k.String()); ok {
			return k, rest, true
		}
	}
	return KindInvalid, s, false
}

var primitiveByName = func() map[string]Kind {
	m := make(map[string]Kind)
	for k := KindInt8; k <= KindDuration; k++ {
		m[k.String()] = k
	}
	return m
}()

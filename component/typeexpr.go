package component

import (
	"strings"

	"github.com/wippyai/ffi-bindgen/errors"
)

var primitiveAliases = map[string]Kind{
	"int8":    KindInt8,
	"uint8":   KindUInt8,
	"int16":   KindInt16,
	"uint16":  KindUInt16,
	"int32":   KindInt32,
	"uint32":  KindUInt32,
	"int64":   KindInt64,
	"uint64":  KindUInt64,
	"float":   KindFloat32,
	"float32": KindFloat32,
	"double":  KindFloat64,
	"float64": KindFloat64,
	"boolean": KindBool,
}

// Resolver maps a declared entity name to its kind.
type Resolver func(name string) (Kind, bool)

// ParseType parses a type expression:
//
//	i32  string  timestamp  Person
//	optional<T>  T?  sequence<T>  map<T>  map<string, T>
//
// Entity names are looked up through resolve.
func ParseType(expr string, resolve Resolver) (Type, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Type{}, errors.InvalidInput(errors.PhaseLoad, "empty type expression")
	}

	if rest, ok := strings.CutSuffix(s, "?"); ok {
		inner, err := ParseType(rest, resolve)
		if err != nil {
			return Type{}, err
		}
		return OptionalOf(inner), nil
	}

	if open := strings.IndexByte(s, '<'); open >= 0 {
		if !strings.HasSuffix(s, ">") {
			return Type{}, errors.InvalidInput(errors.PhaseLoad, "unterminated type expression "+expr)
		}
		head := strings.TrimSpace(s[:open])
		body := s[open+1 : len(s)-1]
		switch head {
		case "optional":
			inner, err := ParseType(body, resolve)
			if err != nil {
				return Type{}, err
			}
			return OptionalOf(inner), nil
		case "sequence", "list":
			inner, err := ParseType(body, resolve)
			if err != nil {
				return Type{}, err
			}
			return SequenceOf(inner), nil
		case "map":
			args := splitTopLevel(body)
			switch len(args) {
			case 1:
			case 2:
				key, err := ParseType(args[0], resolve)
				if err != nil {
					return Type{}, err
				}
				if key.kind != KindString {
					return Type{}, errors.Unsupported(errors.PhaseLoad, "map key type "+key.String())
				}
				args = args[1:]
			default:
				return Type{}, errors.InvalidInput(errors.PhaseLoad, "malformed map type "+expr)
			}
			inner, err := ParseType(args[0], resolve)
			if err != nil {
				return Type{}, err
			}
			return MapOf(inner), nil
		}
		return Type{}, errors.InvalidInput(errors.PhaseLoad, "unknown type constructor "+head)
	}

	if k, ok := primitiveByName[s]; ok {
		return Type{kind: k}, nil
	}
	if k, ok := primitiveAliases[s]; ok {
		return Type{kind: k}, nil
	}
	if resolve != nil {
		if k, ok := resolve(s); ok {
			return Type{kind: k, name: s}, nil
		}
	}
	return Type{}, errors.Unresolved("", s)
}

func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

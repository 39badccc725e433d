package component

import (
	"io"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/ffi-bindgen/errors"
	"github.com/wippyai/ffi-bindgen/internal/casing"
)

// LoadWIT decodes a WIT resolve in the JSON form produced by
// `wasm-tools component wit -j` and imports its type definitions.
func LoadWIT(r io.Reader, namespace string) (*Interface, error) {
	res, err := wit.DecodeJSON(r)
	if err != nil {
		return nil, errors.ParseFailed("WIT resolve", err)
	}
	return FromWIT(namespace, res.TypeDefs)
}

// FromWIT converts named WIT records, enums and variants into an interface.
// Variant payloads become a single field named "value". Names are converted
// from kebab case: types to UpperCamel, members to snake case. Anonymous
// option and list types map to optional and sequence; flags, tuples,
// results and resources are not representable and fail.
func FromWIT(namespace string, defs []*wit.TypeDef) (*Interface, error) {
	c := witConverter{}
	out := Definitions{Namespace: casing.Snake(namespace)}

	for _, td := range defs {
		if td == nil || td.Name == nil {
			continue
		}
		name := casing.UpperCamel(*td.Name)
		switch kind := td.Kind.(type) {
		case *wit.Record:
			rec := Record{Name: name}
			for _, f := range kind.Fields {
				t, err := c.convert(name, f.Type)
				if err != nil {
					return nil, err
				}
				rec.Fields = append(rec.Fields, Field{Name: casing.Snake(f.Name), Type: t})
			}
			out.Records = append(out.Records, rec)
		case *wit.Enum:
			en := Enum{Name: name}
			for _, ec := range kind.Cases {
				en.Variants = append(en.Variants, Variant{Name: casing.Snake(ec.Name)})
			}
			out.Enums = append(out.Enums, en)
		case *wit.Variant:
			en := Enum{Name: name}
			for _, vc := range kind.Cases {
				v := Variant{Name: casing.Snake(vc.Name)}
				if vc.Type != nil {
					t, err := c.convert(name, vc.Type)
					if err != nil {
						return nil, err
					}
					v.Fields = []Field{{Name: "value", Type: t}}
				}
				en.Variants = append(en.Variants, v)
			}
			out.Enums = append(out.Enums, en)
		}
	}
	return New(out)
}

type witConverter struct{}

func (c witConverter) convert(entity string, t wit.Type) (Type, error) {
	switch v := t.(type) {
	case wit.Bool:
		return Bool(), nil
	case wit.S8:
		return Int8(), nil
	case wit.U8:
		return UInt8(), nil
	case wit.S16:
		return Int16(), nil
	case wit.U16:
		return UInt16(), nil
	case wit.S32:
		return Int32(), nil
	case wit.U32:
		return UInt32(), nil
	case wit.S64:
		return Int64(), nil
	case wit.U64:
		return UInt64(), nil
	case wit.F32:
		return Float32(), nil
	case wit.F64:
		return Float64(), nil
	case wit.String:
		return String(), nil
	case *wit.TypeDef:
		return c.convertDef(entity, v)
	}
	return Type{}, errors.Unsupported(errors.PhaseLoad, "WIT type "+witTypeName(t)+" in "+entity)
}

func (c witConverter) convertDef(entity string, td *wit.TypeDef) (Type, error) {
	switch kind := td.Kind.(type) {
	case *wit.Record:
		if td.Name != nil {
			return RecordNamed(casing.UpperCamel(*td.Name)), nil
		}
	case *wit.Enum, *wit.Variant:
		if td.Name != nil {
			return EnumNamed(casing.UpperCamel(*td.Name)), nil
		}
	case *wit.Option:
		inner, err := c.convert(entity, kind.Type)
		if err != nil {
			return Type{}, err
		}
		return OptionalOf(inner), nil
	case *wit.List:
		inner, err := c.convert(entity, kind.Type)
		if err != nil {
			return Type{}, err
		}
		return SequenceOf(inner), nil
	case wit.Type:
		// type alias
		return c.convert(entity, kind)
	}
	return Type{}, errors.Unsupported(errors.PhaseLoad, "WIT type "+witTypeName(td)+" in "+entity)
}

func witTypeName(t wit.Type) string {
	if td, ok := t.(*wit.TypeDef); ok {
		if td.Name != nil {
			return *td.Name
		}
		switch td.Kind.(type) {
		case *wit.Tuple:
			return "tuple"
		case *wit.Flags:
			return "flags"
		case *wit.Result:
			return "result"
		case *wit.Own:
			return "own"
		case *wit.Borrow:
			return "borrow"
		}
		return "anonymous"
	}
	if _, ok := t.(wit.Char); ok {
		return "char"
	}
	return "unknown"
}

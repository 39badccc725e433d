package golang

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/wippyai/ffi-bindgen/component"
)

// structFields renders fields as exported struct members.
func (o *Oracle) structFields(fields []component.Field) ([]jen.Code, error) {
	out := make([]jen.Code, 0, len(fields))
	for _, f := range fields {
		ct, err := o.code(f.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, jen.Id(o.FieldName(f.Name)).Id(ct.TypeLabel()))
	}
	return out, nil
}

// writeFields renders one checked write per field of recv to w.
func (o *Oracle) writeFields(recv string, fields []component.Field) ([]jen.Code, error) {
	out := make([]jen.Code, 0, len(fields))
	for _, f := range fields {
		ct, err := o.code(f.Type)
		if err != nil {
			return nil, err
		}
		expr := ct.Write(recv+"."+o.FieldName(f.Name), "w")
		out = append(out, jen.If(jen.Err().Op(":=").Add(raw(expr)), jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())))
	}
	return out, nil
}

// readFields renders one checked read per field of target from r. err must
// be declared by the caller.
func (o *Oracle) readFields(target string, fields []component.Field, fail ...jen.Code) ([]jen.Code, error) {
	out := make([]jen.Code, 0, len(fields))
	for _, f := range fields {
		ct, err := o.code(f.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, jen.If(
			jen.List(jen.Id(target).Dot(o.FieldName(f.Name)), jen.Err()).Op("=").Add(raw(ct.Read("r"))),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(fail...)))
	}
	return out, nil
}

// destroyMethod renders Destroy for a value holding objects in fields.
func (o *Oracle) destroyMethod(recv, class string, fields []component.Field) jen.Code {
	values := make([]jen.Code, 0, len(fields))
	for _, f := range fields {
		values = append(values, jen.Id(recv).Dot(o.FieldName(f.Name)))
	}
	return jen.Comment("Destroy destroys the objects held by the value.").Line().
		Func().Params(jen.Id(recv).Id(class)).Id("Destroy").Params().Block(
		jen.Qual(ffiPath, "Destroy").Call(values...),
	)
}

// variantSet renders a tagged union as a sealed interface implemented by one
// struct per variant. Enums with data and errors share it.
type variantSet struct {
	oracle *Oracle
	// class is the interface name; variant types are class+variant.
	class    string
	codec    string
	variants []component.Variant
	// destroy adds Destroy to variants with fields.
	destroy bool
	// extra renders additional methods of a variant type.
	extra func(ident string, v component.Variant) ([]jen.Code, error)
}

func (s variantSet) ident(v component.Variant) string {
	return s.class + s.oracle.EnumVariantName(v.Name)
}

func (s variantSet) marker() string { return "is" + s.class }

func (s variantSet) names() string {
	idents := make([]string, 0, len(s.variants))
	for _, v := range s.variants {
		idents = append(idents, s.ident(v))
	}
	return strings.Join(idents, ", ")
}

// types renders the variant structs and their marker methods.
func (s variantSet) types() ([]jen.Code, error) {
	var out []jen.Code
	for _, v := range s.variants {
		ident := s.ident(v)
		fields, err := s.oracle.structFields(v.Fields)
		if err != nil {
			return nil, err
		}
		out = append(out,
			jen.Type().Id(ident).Struct(fields...),
			jen.Func().Params(jen.Id(ident)).Id(s.marker()).Params().Block(),
		)
		if s.extra != nil {
			more, err := s.extra(ident, v)
			if err != nil {
				return nil, err
			}
			out = append(out, more...)
		}
		if s.destroy && v.HasFields() {
			out = append(out, s.oracle.destroyMethod("v", ident, v.Fields))
		}
	}
	return out, nil
}

// codecDecls renders the codec type writing the 1-based variant index
// followed by the variant's fields.
func (s variantSet) codecDecls() ([]jen.Code, error) {
	var writes, reads []jen.Code
	for i, v := range s.variants {
		ident := s.ident(v)
		fw, err := s.oracle.writeFields("v", v.Fields)
		if err != nil {
			return nil, err
		}
		body := append([]jen.Code{jen.Id("w").Dot("WriteI32").Call(jen.Lit(i + 1))}, fw...)
		body = append(body, jen.Return(jen.Nil()))
		writes = append(writes, jen.Case(jen.Id(ident)).Block(body...))

		var read []jen.Code
		if v.HasFields() {
			fr, err := s.oracle.readFields("v", v.Fields, jen.Nil(), jen.Err())
			if err != nil {
				return nil, err
			}
			read = append(read, jen.Var().Id("v").Id(ident))
			read = append(read, fr...)
			read = append(read, jen.Return(jen.Id("v"), jen.Nil()))
		} else {
			read = append(read, jen.Return(jen.Id(ident).Values(), jen.Nil()))
		}
		if i == len(s.variants)-1 {
			reads = append(reads, jen.Default().Block(read...))
		} else {
			reads = append(reads, jen.Case(jen.Lit(i+1)).Block(read...))
		}
	}
	writes = append(writes, jen.Default().Block(
		jen.Return(jen.Qual(ffiPath, "UnknownVariant").Call(jen.Lit(s.class), jen.Id("v"))),
	))

	d := jen.Id("d")
	if len(reads) == 0 {
		d = jen.Id("_")
	}
	readBody := []jen.Code{
		jen.List(d, jen.Err()).Op(":=").Id("r").Dot("ReadDiscriminant").Call(jen.Lit(s.class), jen.Lit(len(s.variants))),
		ifErr(jen.Nil(), jen.Err()),
	}
	if len(reads) > 0 {
		readBody = append(readBody, jen.Switch(jen.Id("d")).Block(reads...))
	} else {
		readBody = append(readBody, jen.Return(jen.Nil(), jen.Nil()))
	}

	return []jen.Code{
		jen.Type().Id(s.codec).Struct(),
		jen.Func().Params(jen.Id(s.codec)).Id("Write").
			Params(jen.Id("w").Op("*").Qual(ffiPath, "Writer"), jen.Id("v").Id(s.class)).Error().
			Block(jen.Switch(jen.Id("v").Op(":=").Id("v").Assert(jen.Type())).Block(writes...)),
		jen.Func().Params(jen.Id(s.codec)).Id("Read").
			Params(jen.Id("r").Op("*").Qual(ffiPath, "Reader")).Params(jen.Id(s.class), jen.Error()).
			Block(readBody...),
	}, nil
}

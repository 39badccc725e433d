package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/wippyai/ffi-bindgen/component"
)

type enumMember struct {
	oracle *Oracle
	enum   *component.Enum
}

func (m enumMember) Name() string                           { return m.enum.Name }
func (m enumMember) TypeIdentifier() (component.Type, bool) { return m.enum.Type(), true }

func (m enumMember) Imports() []string {
	if m.enum.IsFlat() {
		return []string{"strconv"}
	}
	return nil
}

func (m enumMember) DefinitionCode() (string, error) {
	if m.enum.IsFlat() {
		return m.flat()
	}
	return m.data()
}

// flat renders an int32 type with one constant per variant, numbered from 1.
func (m enumMember) flat() (string, error) {
	o := m.oracle
	et := enumType{nominal: o.nominal(m.enum.Name, "Enum"), enum: m.enum}
	class := et.class
	count := len(m.enum.Variants)

	var consts, cases []jen.Code
	for i, v := range m.enum.Variants {
		ident := class + o.EnumVariantName(v.Name)
		consts = append(consts, jen.Id(ident).Id(class).Op("=").Lit(i+1))
		cases = append(cases, jen.Case(jen.Id(ident)).Block(jen.Return(jen.Lit(v.Name))))
	}

	codec := et.codecType()
	return source(m.enum.Name,
		jen.Commentf("%s is a flat enum; its zero value is not a variant.", class).Line().
			Type().Id(class).Int32(),
		jen.Const().Defs(consts...),
		jen.Func().Params(jen.Id("v").Id(class)).Id("String").Params().String().Block(
			jen.Switch(jen.Id("v")).Block(cases...),
			jen.Return(jen.Lit(class+"(").Op("+").Qual("strconv", "Itoa").Call(jen.Int().Call(jen.Id("v"))).Op("+").Lit(")")),
		),
		jen.Type().Id(codec).Struct(),
		et.codecVar(),
		jen.Func().Params(jen.Id(codec)).Id("Write").
			Params(jen.Id("w").Op("*").Qual(ffiPath, "Writer"), jen.Id("v").Id(class)).Error().Block(
			jen.List(jen.Id("d"), jen.Err()).Op(":=").Qual(ffiPath, "Discriminant").Call(jen.Lit(class), jen.Int32().Call(jen.Id("v")), jen.Lit(count)),
			ifErr(jen.Err()),
			jen.Id("w").Dot("WriteI32").Call(jen.Id("d")),
			jen.Return(jen.Nil()),
		),
		jen.Func().Params(jen.Id(codec)).Id("Read").
			Params(jen.Id("r").Op("*").Qual(ffiPath, "Reader")).Params(jen.Id(class), jen.Error()).Block(
			jen.List(jen.Id("d"), jen.Err()).Op(":=").Id("r").Dot("ReadDiscriminant").Call(jen.Lit(class), jen.Lit(count)),
			jen.Return(jen.Id(class).Call(jen.Id("d")), jen.Err()),
		),
		jen.Func().Id("lift"+et.CanonicalName()).
			Params(jen.Id("results").Index().Uint64()).Params(jen.Id(class), jen.Error()).Block(
			jen.List(jen.Id("d"), jen.Err()).Op(":=").Qual(ffiPath, "Result").Call(jen.Qual(ffiPath, "LiftInt32"), jen.Id("results")),
			ifErr(jen.Lit(0), jen.Err()),
			jen.List(jen.Id("d"), jen.Err()).Op("=").Qual(ffiPath, "Discriminant").Call(jen.Lit(class), jen.Id("d"), jen.Lit(count)),
			jen.Return(jen.Id(class).Call(jen.Id("d")), jen.Err()),
		),
	)
}

// data renders an enum whose variants carry fields.
func (m enumMember) data() (string, error) {
	o := m.oracle
	et := enumType{nominal: o.nominal(m.enum.Name, "Enum"), enum: m.enum}
	set := variantSet{
		oracle:   o,
		class:    et.class,
		codec:    et.codecType(),
		variants: m.enum.Variants,
		destroy:  m.enum.ContainsObjectReferences(),
	}

	decls := []jen.Code{
		docLines(set.class+" is one of "+set.names()+".", unsignedNote(set.class, m.enum.ContainsUnsignedTypes())).Line().
			Type().Id(set.class).Interface(jen.Id(set.marker()).Params()),
	}
	types, err := set.types()
	if err != nil {
		return "", err
	}
	codec, err := set.codecDecls()
	if err != nil {
		return "", err
	}
	decls = append(decls, types...)
	decls = append(decls, codec...)
	decls = append(decls, et.codecVar())
	return source(m.enum.Name, decls...)
}

package golang

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/wippyai/ffi-bindgen/component"
)

type errorMember struct {
	oracle *Oracle
	err    *component.Error
}

func (m errorMember) Name() string                           { return m.err.Name }
func (m errorMember) TypeIdentifier() (component.Type, bool) { return m.err.Type(), true }

func (m errorMember) Imports() []string {
	if m.err.IsFlat() {
		return nil
	}
	return []string{"fmt"}
}

// DefinitionCode renders the error as a sealed interface embedding error,
// one struct per variant, and the ffi.ErrorHandler lifting it.
func (m errorMember) DefinitionCode() (string, error) {
	o := m.oracle
	et := errorType{o.nominal(m.err.Name, "Error")}
	class := o.ExceptionName(et.class)
	set := variantSet{
		oracle:   o,
		class:    class,
		codec:    et.codecType(),
		variants: m.err.Variants,
		destroy:  m.err.ContainsObjectReferences(),
		extra:    m.errorMethod,
	}

	decls := []jen.Code{
		docLines(class+" is returned by calls failing with one of "+set.names()+".", unsignedNote(class, m.err.ContainsUnsignedTypes())).Line().
			Type().Id(class).Interface(jen.Error(), jen.Id(set.marker()).Params()),
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
	decls = append(decls,
		et.codecVar(),
		jen.Func().Id(et.liftFunc()).Params(jen.Id("b").Qual(ffiPath, "Buffer")).Error().Block(
			jen.List(jen.Id("l"), jen.Err()).Op(":=").Id("library").Call(),
			ifErr(jen.Err()),
			jen.List(jen.Id("v"), jen.Err()).Op(":=").Qual(ffiPath, "LiftFrom").Types(jen.Id(class)).
				Call(jen.Id("l"), jen.Id(et.codec()), jen.Id("b")),
			ifErr(jen.Err()),
			jen.Return(jen.Id("v")),
		),
	)
	return source(m.err.Name, decls...)
}

// errorMethod renders Error as "Class.Variant" followed by the field values.
func (m errorMember) errorMethod(ident string, v component.Variant) ([]jen.Code, error) {
	o := m.oracle
	label := o.ExceptionName(o.ClassName(m.err.Name)) + "." + o.ClassName(v.Name)
	if !v.HasFields() {
		return []jen.Code{
			jen.Func().Params(jen.Id(ident)).Id("Error").Params().String().Block(jen.Return(jen.Lit(label))),
		}, nil
	}

	verbs := make([]string, 0, len(v.Fields))
	values := []jen.Code{nil}
	for _, f := range v.Fields {
		verbs = append(verbs, f.Name+"=%v")
		values = append(values, jen.Id("e").Dot(o.FieldName(f.Name)))
	}
	values[0] = jen.Lit(label + "(" + strings.Join(verbs, ", ") + ")")
	return []jen.Code{
		jen.Func().Params(jen.Id("e").Id(ident)).Id("Error").Params().String().Block(
			jen.Return(jen.Qual("fmt", "Sprintf").Call(values...)),
		),
	}, nil
}

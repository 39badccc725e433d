package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/wippyai/ffi-bindgen/component"
)

type callbackMember struct {
	oracle *Oracle
	cb     *component.CallbackInterface
}

func (m callbackMember) Name() string                           { return m.cb.Name }
func (m callbackMember) TypeIdentifier() (component.Type, bool) { return m.cb.Type(), true }
func (m callbackMember) Imports() []string                      { return nil }

// DefinitionCode renders the Go interface, one invoke function per method
// decoding the native arguments, and the registry native code calls through.
// Every method returns an error: a failing implementation reports it to the
// native caller.
func (m callbackMember) DefinitionCode() (string, error) {
	o := m.oracle
	ct := callbackType{o.nominal(m.cb.Name, "CallbackInterface")}
	class := ct.class

	var methods, invokers []jen.Code
	for i := range m.cb.Methods {
		meth := &m.cb.Methods[i]
		sig, err := m.signature(meth)
		if err != nil {
			return "", err
		}
		methods = append(methods, sig)
		invoke, err := m.invoker(class, meth)
		if err != nil {
			return "", err
		}
		invokers = append(invokers, invoke)
	}

	names := make([]jen.Code, 0, len(m.cb.Methods)+1)
	names = append(names, jen.Lit(m.cb.Name))
	for i := range m.cb.Methods {
		names = append(names, jen.Id(m.invokeName(class, &m.cb.Methods[i])))
	}

	registry := ct.registry()
	codec := ct.codecType()
	decls := []jen.Code{
		jen.Commentf("%s is implemented in Go and called from native code.", class).Line().
			Type().Id(class).Interface(methods...),
	}
	decls = append(decls, invokers...)
	decls = append(decls,
		jen.Var().Id(registry).Op("*").Qual(ffiPath, "CallbackRegistry").Types(jen.Id(class)),
		jen.Func().Id("init").Params().Block(
			jen.Id(registry).Op("=").Qual(ffiPath, "NewCallbackRegistry").Types(jen.Id(class)).Call(names...),
		),
		jen.Type().Id(codec).Struct(),
		ct.codecVar(),
		jen.Func().Params(jen.Id(codec)).Id("Write").
			Params(jen.Id("w").Op("*").Qual(ffiPath, "Writer"), jen.Id("v").Id(class)).Error().Block(
			jen.Return(jen.Id(registry).Dot("Write").Call(jen.Id("w"), jen.Id("v"))),
		),
		jen.Func().Params(jen.Id(codec)).Id("Read").
			Params(jen.Id("r").Op("*").Qual(ffiPath, "Reader")).Params(jen.Id(class), jen.Error()).Block(
			jen.Return(jen.Id(registry).Dot("Read").Call(jen.Id("r"))),
		),
	)
	return source(m.cb.Name, decls...)
}

func (m callbackMember) signature(meth *component.Method) (jen.Code, error) {
	o := m.oracle
	params := make([]jen.Code, 0, len(meth.Arguments))
	for _, a := range meth.Arguments {
		ct, err := o.code(a.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, jen.Id(o.VariableName(a.Name)).Id(ct.TypeLabel()))
	}
	results := jen.Error()
	if meth.Returns != nil {
		ct, err := o.code(*meth.Returns)
		if err != nil {
			return nil, err
		}
		results = jen.Parens(jen.List(jen.Id(ct.TypeLabel()), jen.Error()))
	}
	return jen.Id(o.FunctionName(meth.Name)).Params(params...).Add(results), nil
}

func (m callbackMember) invokeName(class string, meth *component.Method) string {
	return "invoke" + class + m.oracle.FunctionName(meth.Name)
}

// invoker reads the arguments in declaration order, calls the
// implementation and writes its result.
func (m callbackMember) invoker(class string, meth *component.Method) (jen.Code, error) {
	o := m.oracle
	var body []jen.Code
	args := make([]jen.Code, 0, len(meth.Arguments))
	for _, a := range meth.Arguments {
		ct, err := o.code(a.Type)
		if err != nil {
			return nil, err
		}
		name := o.VariableName(a.Name)
		body = append(body,
			jen.List(jen.Id(name), jen.Err()).Op(":=").Add(raw(ct.Read("in"))),
			ifErr(jen.Err()),
		)
		args = append(args, jen.Id(name))
	}

	callImpl := jen.Id("impl").Dot(o.FunctionName(meth.Name)).Call(args...)
	if meth.Returns == nil {
		body = append(body, jen.Return(callImpl))
	} else {
		ct, err := o.code(*meth.Returns)
		if err != nil {
			return nil, err
		}
		body = append(body,
			jen.List(jen.Id("ret"), jen.Err()).Op(":=").Add(callImpl),
			ifErr(jen.Err()),
			jen.Return(raw(ct.Write("ret", "out"))),
		)
	}

	return jen.Func().Id(m.invokeName(class, meth)).Params(
		jen.Id("impl").Id(class),
		jen.Id("in").Op("*").Qual(ffiPath, "Reader"),
		jen.Id("out").Op("*").Qual(ffiPath, "Writer"),
	).Error().Block(body...), nil
}

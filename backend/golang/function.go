package golang

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// callable is one native call: a function, constructor or method.
type callable struct {
	ffi     component.FFIFunction
	args    []component.Argument
	returns *component.Type
	// throws names the declared error; "" when the call cannot fail with one.
	throws string
}

// symbolDoc describes the native symbol behind a call in Go slot types.
func (o *Oracle) symbolDoc(f component.FFIFunction) string {
	params := make([]string, 0, len(f.Arguments))
	for _, a := range f.Arguments {
		params = append(params, o.FFITypeLabel(a.Type))
	}
	doc := f.Name + "(" + strings.Join(params, ", ") + ")"
	if f.Returns != nil {
		doc += " " + o.FFITypeLabel(*f.Returns)
	}
	return doc
}

// params renders the context parameter followed by the arguments.
func (o *Oracle) params(args []component.Argument) ([]jen.Code, error) {
	out := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
	for _, a := range args {
		ct, err := o.code(a.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, jen.Id(o.VariableName(a.Name)).Id(ct.TypeLabel()))
	}
	return out, nil
}

// defaultsDoc lists argument defaults; Go has no default parameters.
func (o *Oracle) defaultsDoc(entity string, args []component.Argument) ([]string, error) {
	var lines []string
	for _, a := range args {
		if a.Default == nil {
			continue
		}
		ct, err := o.code(a.Type)
		if err != nil {
			return nil, err
		}
		lit, err := ct.Literal(*a.Default)
		if err != nil {
			return nil, errors.Attribute(err, entity)
		}
		lines = append(lines, "The model default of "+o.VariableName(a.Name)+" is "+lit+".")
	}
	return lines, nil
}

// resultList renders "(ret T, err error)" for calls that return a value.
func (o *Oracle) resultList(returns *component.Type) (jen.Code, string, error) {
	if returns == nil {
		return jen.Error(), "", nil
	}
	ct, err := o.code(*returns)
	if err != nil {
		return nil, "", err
	}
	return jen.Parens(jen.List(jen.Id("ret").Id(ct.TypeLabel()), jen.Err().Error())), ct.TypeLabel(), nil
}

func (o *Oracle) handler(throws string) jen.Code {
	if throws == "" {
		return jen.Nil()
	}
	et := errorType{o.nominal(throws, "Error")}
	return jen.Id(et.liftFunc())
}

// lowerArgs renders one statement per argument appending it to args.
func (o *Oracle) lowerArgs(args []component.Argument) ([]jen.Code, error) {
	var out []jen.Code
	for _, a := range args {
		ct, err := o.code(a.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, raw(ct.Lower(o.VariableName(a.Name))))
	}
	return out, nil
}

func (o *Oracle) callStmt(c callable, assign bool) jen.Code {
	lhs := jen.List(jen.Id("_"), jen.Err()).Op("=")
	if assign {
		lhs = jen.List(jen.Id("results"), jen.Err()).Op(":=")
	}
	return lhs.Id("call").Call(jen.Id("ctx"), jen.Id("l"), jen.Lit(c.ffi.Name), o.handler(c.throws), jen.Id("args"))
}

// staticBody renders the body of a call without a receiver: functions and
// constructors.
func (o *Oracle) staticBody(c callable) ([]jen.Code, error) {
	fail := []jen.Code{jen.Err()}
	if c.returns != nil {
		fail = []jen.Code{jen.Id("ret"), jen.Err()}
	}
	lowered, err := o.lowerArgs(c.args)
	if err != nil {
		return nil, err
	}

	body := []jen.Code{
		jen.List(jen.Id("l"), jen.Err()).Op(":=").Id("library").Call(),
		ifErr(fail...),
		jen.Id("args").Op(":=").Qual(ffiPath, "NewArgs").Call(jen.Id("l")),
	}
	body = append(body, lowered...)

	if c.returns == nil {
		return append(body, o.callStmt(c, false), jen.Return(jen.Err())), nil
	}
	ct, err := o.code(*c.returns)
	if err != nil {
		return nil, err
	}
	return append(body,
		o.callStmt(c, true),
		ifErr(fail...),
		jen.Return(raw(ct.Lift("results"))),
	), nil
}

// methodBody renders a call on an object: the pointer is passed first and
// held for the duration of the call.
func (o *Oracle) methodBody(c callable) ([]jen.Code, error) {
	fail := []jen.Code{jen.Err()}
	if c.returns != nil {
		fail = []jen.Code{jen.Id("ret"), jen.Err()}
	}
	lowered, err := o.lowerArgs(c.args)
	if err != nil {
		return nil, err
	}

	inner := []jen.Code{
		jen.Id("args").Op(":=").Qual(ffiPath, "NewArgs").Call(jen.Id("l")).Dot("Pointer").Call(jen.Id("ptr")),
	}
	inner = append(inner, lowered...)
	if c.returns == nil {
		inner = append(inner,
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("call").Call(jen.Id("ctx"), jen.Id("l"), jen.Lit(c.ffi.Name), o.handler(c.throws), jen.Id("args")),
			jen.Return(jen.Err()))
	} else {
		ct, err := o.code(*c.returns)
		if err != nil {
			return nil, err
		}
		inner = append(inner,
			o.callStmt(c, true),
			ifErr(jen.Err()),
			jen.List(jen.Id("ret"), jen.Err()).Op("=").Add(raw(ct.Lift("results"))),
			jen.Return(jen.Err()))
	}

	return []jen.Code{
		jen.List(jen.Id("l"), jen.Err()).Op(":=").Id("library").Call(),
		ifErr(fail...),
		jen.Err().Op("=").Id("obj").Dot("handle").Dot("CallWithPointer").Call(
			jen.Func().Params(jen.Id("ptr").Uint64()).Error().Block(inner...),
		),
		jen.Return(fail...),
	}, nil
}

type functionMember struct {
	oracle *Oracle
	fn     *component.Function
}

func (m functionMember) Name() string                           { return m.fn.Name }
func (m functionMember) TypeIdentifier() (component.Type, bool) { return component.Type{}, false }
func (m functionMember) Imports() []string                      { return nil }

func (m functionMember) DefinitionCode() (string, error) {
	o := m.oracle
	c := callable{ffi: m.fn.FFIFunc(), args: m.fn.Arguments, returns: m.fn.Returns, throws: m.fn.Throws}
	name := o.FunctionName(m.fn.Name)

	params, err := o.params(c.args)
	if err != nil {
		return "", err
	}
	results, _, err := o.resultList(c.returns)
	if err != nil {
		return "", err
	}
	body, err := o.staticBody(c)
	if err != nil {
		return "", err
	}
	defaults, err := o.defaultsDoc(m.fn.Name, c.args)
	if err != nil {
		return "", err
	}

	doc := append([]string{name + " calls " + o.symbolDoc(c.ffi) + "."}, defaults...)
	return source(m.fn.Name,
		docLines(doc...).Line().Func().Id(name).Params(params...).Add(results).Block(body...))
}

package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/wippyai/ffi-bindgen/component"
)

type objectMember struct {
	oracle *Oracle
	object *component.Object
}

func (m objectMember) Name() string                           { return m.object.Name }
func (m objectMember) TypeIdentifier() (component.Type, bool) { return m.object.Type(), true }
func (m objectMember) Imports() []string                      { return []string{"runtime"} }

// constructorName is New<Class> for the primary constructor and
// <Class><Name> for the others.
func (o *Oracle) constructorName(class string, c *component.Constructor) string {
	if c.IsPrimary() {
		return "New" + class
	}
	return class + o.FunctionName(c.Name)
}

func (m objectMember) DefinitionCode() (string, error) {
	o := m.oracle
	ot := objectType{o.nominal(m.object.Name, "Object")}
	class := ot.class
	free := "free" + ot.CanonicalName()

	decls := []jen.Code{
		jen.Commentf("%s is a native object. Destroy releases it once no call is using it;", class).Line().
			Comment("an object that is never destroyed is released when it is garbage collected.").Line().
			Type().Id(class).Struct(jen.Id("handle").Op("*").Qual(ffiPath, "ObjectHandle")),
		jen.Func().Id(ot.liftFunc()).Params(jen.Id("ptr").Uint64()).Op("*").Id(class).Block(
			jen.Id("obj").Op(":=").Op("&").Id(class).Values(jen.Dict{
				jen.Id("handle"): jen.Qual(ffiPath, "NewObjectHandle").Call(jen.Lit(m.object.Name), jen.Id("ptr"), jen.Id(free)),
			}),
			jen.Qual("runtime", "SetFinalizer").Call(jen.Id("obj"), jen.Parens(jen.Op("*").Id(class)).Dot("Destroy")),
			jen.Return(jen.Id("obj")),
		),
		jen.Func().Id(free).Params(jen.Id("ptr").Uint64()).Error().Block(
			jen.List(jen.Id("l"), jen.Err()).Op(":=").Id("library").Call(),
			ifErr(jen.Err()),
			jen.List(jen.Id("_"), jen.Err()).Op("=").Id("call").Call(
				jen.Qual("context", "Background").Call(), jen.Id("l"), jen.Lit(m.object.FFIObjectFree().Name), jen.Nil(),
				jen.Qual(ffiPath, "NewArgs").Call(jen.Id("l")).Dot("Pointer").Call(jen.Id("ptr"))),
			jen.Return(jen.Err()),
		),
		jen.Comment("Destroy releases the native object. Calls made after Destroy fail;").Line().
			Comment("calls already running keep the object alive until they return.").Line().
			Func().Params(jen.Id("obj").Op("*").Id(class)).Id("Destroy").Params().Block(
			jen.Id("obj").Dot("handle").Dot("Destroy").Call(),
		),
	}

	for i := range m.object.Constructors {
		c := &m.object.Constructors[i]
		decl, err := m.constructor(class, c)
		if err != nil {
			return "", err
		}
		decls = append(decls, decl)
	}
	for i := range m.object.Methods {
		decl, err := m.method(class, &m.object.Methods[i])
		if err != nil {
			return "", err
		}
		decls = append(decls, decl)
	}

	codec := ot.codecType()
	decls = append(decls,
		jen.Type().Id(codec).Struct(),
		ot.codecVar(),
		jen.Func().Params(jen.Id(codec)).Id("Write").
			Params(jen.Id("w").Op("*").Qual(ffiPath, "Writer"), jen.Id("v").Op("*").Id(class)).Error().Block(
			jen.Return(jen.Id("w").Dot("WriteObject").Call(jen.Id("v").Dot("handle"))),
		),
		jen.Func().Params(jen.Id(codec)).Id("Read").
			Params(jen.Id("r").Op("*").Qual(ffiPath, "Reader")).Params(jen.Op("*").Id(class), jen.Error()).Block(
			jen.List(jen.Id("ptr"), jen.Err()).Op(":=").Id("r").Dot("ReadU64").Call(),
			ifErr(jen.Nil(), jen.Err()),
			jen.Return(jen.Id(ot.liftFunc()).Call(jen.Id("ptr")), jen.Nil()),
		),
	)
	return source(m.object.Name, decls...)
}

func (m objectMember) constructor(class string, c *component.Constructor) (jen.Code, error) {
	o := m.oracle
	returns := m.object.Type()
	call := callable{ffi: c.FFIFunc(), args: c.Arguments, returns: &returns, throws: c.Throws}
	entity := m.object.Name + "." + c.Name
	name := o.constructorName(class, c)

	params, err := o.params(call.args)
	if err != nil {
		return nil, err
	}
	results, _, err := o.resultList(call.returns)
	if err != nil {
		return nil, err
	}
	body, err := o.staticBody(call)
	if err != nil {
		return nil, err
	}
	defaults, err := o.defaultsDoc(entity, call.args)
	if err != nil {
		return nil, err
	}
	doc := append([]string{name + " creates a " + class + " with " + o.symbolDoc(call.ffi) + "."}, defaults...)
	return docLines(doc...).Line().Func().Id(name).Params(params...).Add(results).Block(body...), nil
}

func (m objectMember) method(class string, meth *component.Method) (jen.Code, error) {
	o := m.oracle
	call := callable{ffi: meth.FFIFunc(), args: meth.Arguments, returns: meth.Returns, throws: meth.Throws}
	name := o.FunctionName(meth.Name)

	params, err := o.params(call.args)
	if err != nil {
		return nil, err
	}
	results, _, err := o.resultList(call.returns)
	if err != nil {
		return nil, err
	}
	body, err := o.methodBody(call)
	if err != nil {
		return nil, err
	}
	defaults, err := o.defaultsDoc(m.object.Name+"."+meth.Name, call.args)
	if err != nil {
		return nil, err
	}
	doc := append([]string{name + " calls " + o.symbolDoc(call.ffi) + "."}, defaults...)
	return docLines(doc...).Line().
		Func().Params(jen.Id("obj").Op("*").Id(class)).Id(name).Params(params...).Add(results).Block(body...), nil
}

package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

type recordMember struct {
	oracle *Oracle
	record *component.Record
}

func (m recordMember) Name() string                           { return m.record.Name }
func (m recordMember) TypeIdentifier() (component.Type, bool) { return m.record.Type(), true }
func (m recordMember) Imports() []string                      { return nil }

func (m recordMember) DefinitionCode() (string, error) {
	o := m.oracle
	rt := recordType{o.nominal(m.record.Name, "Record")}
	class := rt.class
	fields := m.record.Fields

	members, err := o.structFields(fields)
	if err != nil {
		return "", err
	}
	typeDecl := jen.Type().Id(class).Struct(members...)
	if note := unsignedNote(class, m.record.ContainsUnsignedTypes()); note != "" {
		typeDecl = jen.Comment(note).Line().Add(typeDecl)
	}
	decls := []jen.Code{typeDecl}

	defaults, err := m.defaults(class)
	if err != nil {
		return "", err
	}
	if defaults != nil {
		decls = append(decls, defaults)
	}
	if m.record.ContainsObjectReferences() {
		decls = append(decls, o.destroyMethod("v", class, fields))
	}

	codec := rt.codecType()
	writes, err := o.writeFields("v", fields)
	if err != nil {
		return "", err
	}
	writes = append(writes, jen.Return(jen.Nil()))

	var read []jen.Code
	if len(fields) == 0 {
		read = []jen.Code{jen.Return(jen.Id(class).Values(), jen.Nil())}
	} else {
		reads, err := o.readFields("v", fields, jen.Id(class).Values(), jen.Err())
		if err != nil {
			return "", err
		}
		read = append(read, jen.Var().Id("v").Id(class), jen.Var().Err().Error())
		read = append(read, reads...)
		read = append(read, jen.Return(jen.Id("v"), jen.Nil()))
	}

	writer := jen.Id("w").Op("*").Qual(ffiPath, "Writer")
	recv := jen.Id("v").Id(class)
	if len(fields) == 0 {
		recv = jen.Id("_").Id(class)
	}
	decls = append(decls,
		jen.Type().Id(codec).Struct(),
		rt.codecVar(),
		jen.Func().Params(jen.Id(codec)).Id("Write").Params(writer, recv).Error().Block(writes...),
		jen.Func().Params(jen.Id(codec)).Id("Read").
			Params(jen.Id("r").Op("*").Qual(ffiPath, "Reader")).Params(jen.Id(class), jen.Error()).
			Block(read...),
	)
	return source(m.record.Name, decls...)
}

// defaults renders DefaultX when any field declares a default: the record
// with every defaulted field set and the rest zero.
func (m recordMember) defaults(class string) (jen.Code, error) {
	o := m.oracle
	var values []jen.Code
	for _, f := range m.record.Fields {
		if f.Default == nil {
			continue
		}
		ct, err := o.code(f.Type)
		if err != nil {
			return nil, err
		}
		lit, err := ct.Literal(*f.Default)
		if err != nil {
			return nil, errors.Attribute(err, m.record.Name)
		}
		values = append(values, jen.Id(o.FieldName(f.Name)).Op(":").Add(raw(lit)))
	}
	if values == nil {
		return nil, nil
	}
	name := "Default" + class
	return jen.Commentf("%s returns a %s with the declared field defaults.", name, class).Line().
		Func().Id(name).Params().Id(class).Block(
		jen.Return(jen.Id(class).Values(values...)),
	), nil
}

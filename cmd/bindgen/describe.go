package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// section is one entity as seen by a target: its name, its rendered type and
// the native symbols behind it.
type section struct {
	kind    string
	name    string
	summary string
	body    string
}

func (s section) Title() string       { return s.kind + " " + s.name }
func (s section) Description() string { return s.summary }
func (s section) FilterValue() string { return s.name }

type describer struct {
	ci *component.Interface
	o  backend.Oracle
	b  strings.Builder
}

func (d *describer) line(format string, args ...any) {
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteByte('\n')
}

func (d *describer) take() string {
	s := d.b.String()
	d.b.Reset()
	return s
}

func (d *describer) label(t component.Type) (string, error) {
	ct, err := d.o.Find(t)
	if err != nil {
		return "", err
	}
	return ct.TypeLabel(), nil
}

// header writes the target spelling, helper name and FFI transport of t.
func (d *describer) header(t component.Type) (string, error) {
	ct, err := d.o.Find(t)
	if err != nil {
		return "", err
	}
	ffiType := d.o.FFITypeLabel(d.ci.FFIType(t))
	d.line("type       %s", ct.TypeLabel())
	d.line("canonical  %s", ct.CanonicalName())
	d.line("ffi        %s", ffiType)
	return ct.TypeLabel(), nil
}

func (d *describer) symbol(fn component.FFIFunction) {
	args := make([]string, 0, len(fn.Arguments))
	for _, a := range fn.Arguments {
		args = append(args, a.Name+": "+d.o.FFITypeLabel(a.Type))
	}
	ret := ""
	if fn.Returns != nil {
		ret = " -> " + d.o.FFITypeLabel(*fn.Returns)
	}
	d.line("  symbol   %s(%s)%s", fn.Name, strings.Join(args, ", "), ret)
}

func (d *describer) fields(fields []component.Field, indent string) error {
	for _, f := range fields {
		label, err := d.label(f.Type)
		if err != nil {
			return errors.Attribute(err, f.Name)
		}
		def := ""
		if f.Default != nil {
			ct, _ := d.o.Find(f.Type)
			lit, err := ct.Literal(*f.Default)
			if err != nil {
				return errors.Attribute(err, f.Name)
			}
			def = " = " + lit
		}
		d.line("%s%s: %s%s", indent, d.o.VariableName(f.Name), label, def)
	}
	return nil
}

func (d *describer) variants(variants []component.Variant, name func(string) string) error {
	d.line("variants")
	for i, v := range variants {
		d.line("  %d %s", i+1, name(v.Name))
		if err := d.fields(v.Fields, "      "); err != nil {
			return err
		}
	}
	return nil
}

// signature renders "name(args) ret throws E" in target spelling.
func (d *describer) signature(name string, args []component.Argument, returns *component.Type, throws string) (string, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		label, err := d.label(a.Type)
		if err != nil {
			return "", err
		}
		parts = append(parts, d.o.VariableName(a.Name)+": "+label)
	}
	sig := name + "(" + strings.Join(parts, ", ") + ")"
	if returns != nil {
		label, err := d.label(*returns)
		if err != nil {
			return "", err
		}
		sig += " " + label
	}
	if throws != "" {
		sig += " throws " + d.o.ExceptionName(d.o.ClassName(throws))
	}
	return sig, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// describe lists every entity of ci as target o renders it, followed by the
// type table and the native symbol list.
func describe(ci *component.Interface, o backend.Oracle) ([]section, error) {
	d := &describer{ci: ci, o: o}
	var out []section

	for _, e := range ci.Enums() {
		label, err := d.header(e.Type())
		if err != nil {
			return nil, errors.Attribute(err, e.Name)
		}
		name := o.ClassName
		if e.IsFlat() {
			name = o.EnumVariantName
		}
		if err := d.variants(e.Variants, name); err != nil {
			return nil, errors.Attribute(err, e.Name)
		}
		out = append(out, section{"enum", label, plural(len(e.Variants), "variant"), d.take()})
	}

	for _, r := range ci.Records() {
		label, err := d.header(r.Type())
		if err != nil {
			return nil, errors.Attribute(err, r.Name)
		}
		d.line("fields")
		if err := d.fields(r.Fields, "  "); err != nil {
			return nil, errors.Attribute(err, r.Name)
		}
		out = append(out, section{"record", label, plural(len(r.Fields), "field"), d.take()})
	}

	for _, e := range ci.Errors() {
		if _, err := d.header(e.Type()); err != nil {
			return nil, errors.Attribute(err, e.Name)
		}
		if err := d.variants(e.Variants, o.ClassName); err != nil {
			return nil, errors.Attribute(err, e.Name)
		}
		label := o.ExceptionName(o.ClassName(e.Name))
		out = append(out, section{"error", label, plural(len(e.Variants), "variant"), d.take()})
	}

	for _, f := range ci.Functions() {
		name := o.FunctionName(f.Name)
		sig, err := d.signature(name, f.Arguments, f.Returns, f.Throws)
		if err != nil {
			return nil, errors.Attribute(err, f.Name)
		}
		d.line("%s", sig)
		d.symbol(f.FFIFunc())
		out = append(out, section{"func", name, f.FFIFunc().Name, d.take()})
	}

	for _, obj := range ci.Objects() {
		label, err := d.header(obj.Type())
		if err != nil {
			return nil, errors.Attribute(err, obj.Name)
		}
		for i := range obj.Constructors {
			c := &obj.Constructors[i]
			sig, err := d.signature(c.Name, c.Arguments, nil, c.Throws)
			if err != nil {
				return nil, errors.Attribute(err, obj.Name+"."+c.Name)
			}
			d.line("constructor %s", sig)
			d.symbol(c.FFIFunc())
		}
		for i := range obj.Methods {
			m := &obj.Methods[i]
			sig, err := d.signature(o.FunctionName(m.Name), m.Arguments, m.Returns, m.Throws)
			if err != nil {
				return nil, errors.Attribute(err, obj.Name+"."+m.Name)
			}
			d.line("method %s", sig)
			d.symbol(m.FFIFunc())
		}
		d.line("free")
		d.symbol(obj.FFIObjectFree())
		summary := plural(len(obj.Constructors), "constructor") + ", " + plural(len(obj.Methods), "method")
		out = append(out, section{"object", label, summary, d.take()})
	}

	for _, cb := range ci.CallbackInterfaces() {
		label, err := d.header(cb.Type())
		if err != nil {
			return nil, errors.Attribute(err, cb.Name)
		}
		for i := range cb.Methods {
			m := &cb.Methods[i]
			sig, err := d.signature(o.FunctionName(m.Name), m.Arguments, m.Returns, m.Throws)
			if err != nil {
				return nil, errors.Attribute(err, cb.Name+"."+m.Name)
			}
			d.line("method %d %s", i, sig)
		}
		d.line("init")
		d.symbol(cb.FFIInitCallback())
		out = append(out, section{"callback", label, plural(len(cb.Methods), "method"), d.take()})
	}

	types := ci.IterTypes()
	for _, t := range types {
		ct, err := o.Find(t)
		if err != nil {
			return nil, err
		}
		d.line("%-28s %-28s %s", ct.TypeLabel(), ct.CanonicalName(), o.FFITypeLabel(ci.FFIType(t)))
	}
	out = append(out, section{"index", "types", plural(len(types), "type"), d.take()})

	symbols := ci.FFIFunctions()
	for _, fn := range symbols {
		d.symbol(fn)
	}
	out = append(out, section{"index", "symbols", plural(len(symbols), "symbol"), d.take()})

	return out, nil
}

func printSections(w io.Writer, sections []section) {
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", s.Title(), s.summary)
		for _, l := range strings.Split(strings.TrimRight(s.body, "\n"), "\n") {
			fmt.Fprintln(w, "  "+l)
		}
	}
}

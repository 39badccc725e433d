package golang

import (
	"go/format"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// baseImports are used by the runtime section of every binding.
var baseImports = []string{"context", "sync", ffiPath}

// Target generates a single Go source file calling the native library
// through the ffi package.
type Target struct{}

func New() *Target { return &Target{} }

var _ backend.Target = (*Target)(nil)

func (*Target) Name() string { return "go" }

// DefaultConfig names the package after the namespace. PackageName is an
// import path; its last element is the package clause.
func (*Target) DefaultConfig(ci *component.Interface) backend.Config {
	return backend.Config{
		PackageName: packageIdent(ci.Namespace()),
		CdylibName:  "uniffi_" + ci.Namespace(),
	}
}

// packageIdent keeps the lower-case letters and digits of s.
func packageIdent(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 || (b.String()[0] >= '0' && b.String()[0] <= '9') {
		return "bindings" + b.String()
	}
	return b.String()
}

// Generate renders the bindings of ci. Unset fields of cfg take the target
// defaults.
func (t *Target) Generate(ci *component.Interface, cfg backend.Config) ([]backend.File, error) {
	cfg = cfg.MergeWith(t.DefaultConfig(ci))
	o := NewOracle(ci)
	if err := backend.CheckCollisions(ci, o); err != nil {
		return nil, err
	}
	if err := o.checkPackageScope(); err != nil {
		return nil, err
	}
	plan, err := backend.Aggregate(ci, o, o.Members())
	if err != nil {
		return nil, err
	}

	runtime, err := o.runtimeSection(cfg.CdylibName)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("// Code generated by ffi-bindgen. DO NOT EDIT.\n\n")
	b.WriteString("package " + packageIdent(path.Base(cfg.PackageName)) + "\n\n")
	b.WriteString(importBlock(append(append([]string(nil), baseImports...), plan.Imports...)))
	b.WriteString("\n")
	b.WriteString(runtime)
	for _, f := range plan.Fragments() {
		b.WriteString("\n\n")
		b.WriteString(f.Code)
	}
	b.WriteString("\n")

	code, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, errors.Template(ci.Namespace(), err)
	}
	file := backend.File{
		Path:     OutputPath(cfg.PackageName, ci.Namespace()),
		Contents: code,
	}
	backend.Logger().Debug("go bindings rendered",
		zap.String("path", file.Path),
		zap.Int("bytes", len(file.Contents)))
	return []backend.File{file}, nil
}

// OutputPath places the file in the directory of its package.
func OutputPath(pkg, namespace string) string {
	return path.Join(pkg, namespace+".go")
}

// importBlock groups standard library imports before the others.
func importBlock(imports []string) string {
	seen := make(map[string]struct{})
	var std, other []string
	for _, imp := range imports {
		if _, ok := seen[imp]; ok {
			continue
		}
		seen[imp] = struct{}{}
		if strings.Contains(strings.SplitN(imp, "/", 2)[0], ".") {
			other = append(other, imp)
		} else {
			std = append(std, imp)
		}
	}
	sort.Strings(std)
	sort.Strings(other)

	var b strings.Builder
	b.WriteString("import (\n")
	for _, imp := range std {
		b.WriteString("\t" + strconv.Quote(imp) + "\n")
	}
	if len(std) > 0 && len(other) > 0 {
		b.WriteString("\n")
	}
	for _, imp := range other {
		b.WriteString("\t" + strconv.Quote(imp) + "\n")
	}
	b.WriteString(")\n")
	return b.String()
}

// runtimeSection binds the package to a loaded library. Load registers
// every callback interface with the library before any call can reach it.
// Loading again drops the callback handles issued under the previous
// binding.
func (o *Oracle) runtimeSection(cdylib string) (string, error) {
	var load []jen.Code
	for _, cb := range o.ci.CallbackInterfaces() {
		ct := callbackType{o.nominal(cb.Name, "CallbackInterface")}
		id := jen.Id("lib").Dot("RegisterCallback").Call(jen.Id(ct.registry()).Dot("Invoke"))
		load = append(load, jen.If(
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Qual(ffiPath, "Call").Call(
				jen.Id("ctx"), jen.Id("lib"), jen.Lit(cb.FFIInitCallback().Name), jen.Nil(),
				jen.Index().Uint64().Values(jen.Qual(ffiPath, "LowerUInt32").Call(id)),
			),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())))
	}
	var reset []jen.Code
	for _, cb := range o.ci.CallbackInterfaces() {
		ct := callbackType{o.nominal(cb.Name, "CallbackInterface")}
		reset = append(reset, jen.Id(ct.registry()).Dot("Reset").Call())
	}
	load = append(load, jen.Id("libraryMu").Dot("Lock").Call())
	if len(reset) > 0 {
		load = append(load, jen.If(jen.Id("bound").Op("!=").Nil()).Block(reset...))
	}
	load = append(load,
		jen.Id("bound").Op("=").Id("lib"),
		jen.Id("libraryMu").Dot("Unlock").Call(),
		jen.Return(jen.Nil()),
	)

	return source(o.ci.Namespace(),
		jen.Comment("LibraryName is the native library these bindings call.").Line().
			Const().Id("LibraryName").Op("=").Lit(cdylib),
		jen.Var().Defs(
			jen.Id("libraryMu").Qual("sync", "RWMutex"),
			jen.Id("bound").Qual(ffiPath, "Library"),
		),
		jen.Comment("Load binds the package to lib, a loaded "+cdylib+" library, and").Line().
			Comment("registers the callback interfaces with it. Calls made before Load fail.").Line().
			Comment("Loading again drops the callback handles issued to the previous library.").Line().
			Func().Id("Load").Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("lib").Qual(ffiPath, "Library")).Error().
			Block(load...),
		jen.Func().Id("library").Params().Params(jen.Qual(ffiPath, "Library"), jen.Error()).Block(
			jen.Id("libraryMu").Dot("RLock").Call(),
			jen.Defer().Id("libraryMu").Dot("RUnlock").Call(),
			jen.If(jen.Id("bound").Op("==").Nil()).Block(
				jen.Return(jen.Nil(), jen.Qual(ffiPath, "NotLoaded").Call(jen.Lit(o.ci.Namespace()))),
			),
			jen.Return(jen.Id("bound"), jen.Nil()),
		),
		jen.Func().Id("call").Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("l").Qual(ffiPath, "Library"),
			jen.Id("symbol").String(),
			jen.Id("handler").Qual(ffiPath, "ErrorHandler"),
			jen.Id("args").Op("*").Qual(ffiPath, "Args"),
		).Params(jen.Index().Uint64(), jen.Error()).Block(
			jen.List(jen.Id("slots"), jen.Err()).Op(":=").Id("args").Dot("Slots").Call(),
			ifErr(jen.Nil(), jen.Err()),
			jen.Defer().Id("args").Dot("Done").Call(),
			jen.Return(jen.Qual(ffiPath, "Call").Call(jen.Id("ctx"), jen.Id("l"), jen.Id("symbol"), jen.Id("handler"), jen.Id("slots"))),
		),
	)
}

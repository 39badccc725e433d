package kotlin

import (
	"embed"
	stderrors "errors"
	"strings"
	"text/template"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

//go:embed templates/*.kt
var templateFS embed.FS

func parseTemplates(funcs template.FuncMap) *template.Template {
	return template.Must(template.New("kotlin").Funcs(funcs).ParseFS(templateFS, "templates/*.kt"))
}

func (o *Oracle) funcMap() template.FuncMap {
	return template.FuncMap{
		"type_kt": o.label,
		"lower_kt": func(name string, t component.Type) (string, error) {
			ct, err := o.Find(t)
			if err != nil {
				return "", err
			}
			return ct.Lower(name), nil
		},
		"write_kt": func(name, target string, t component.Type) (string, error) {
			ct, err := o.Find(t)
			if err != nil {
				return "", err
			}
			return ct.Write(name, target), nil
		},
		"lift_kt": func(name string, t component.Type) (string, error) {
			ct, err := o.Find(t)
			if err != nil {
				return "", err
			}
			return ct.Lift(name), nil
		},
		"read_kt": func(source string, t component.Type) (string, error) {
			ct, err := o.Find(t)
			if err != nil {
				return "", err
			}
			return ct.Read(source), nil
		},
		"literal_kt": func(l *component.Literal, t component.Type) (string, error) {
			ct, err := o.Find(t)
			if err != nil {
				return "", err
			}
			return ct.Literal(*l)
		},
		"class_name":     o.ClassName,
		"fn_name":        o.FunctionName,
		"var_name":       o.VariableName,
		"enum_variant":   o.EnumVariantName,
		"exception_name": func(name string) string { return o.ExceptionName(o.ClassName(name)) },
		"ffi_type":       o.FFITypeLabel,
		"unsigned":       o.containsUnsigned,
		"add":            func(a, b int) int { return a + b },
		"include":        o.render,
		"indent":         indent,
		"trim":           strings.TrimSpace,
	}
}

// indent prefixes every line after the first with n spaces, so a rendered
// block can continue an expression at the caller's indentation.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// render executes one template. Failures are template errors attributed
// to the template name; resolve errors raised by template functions keep
// their own kind.
func (o *Oracle) render(name string, data any) (string, error) {
	var b strings.Builder
	if err := o.templates.ExecuteTemplate(&b, name, data); err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			return "", e
		}
		return "", errors.Template(name, err)
	}
	return b.String(), nil
}

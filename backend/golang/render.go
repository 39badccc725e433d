package golang

import (
	"bytes"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/wippyai/ffi-bindgen/errors"
)

const ffiPath = "github.com/wippyai/ffi-bindgen/ffi"

// source renders top-level declarations as formatted Go source, one blank
// line between declarations. entity attributes render failures.
func source(entity string, decls ...jen.Code) (string, error) {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		var b bytes.Buffer
		if err := jen.Add(d).Render(&b); err != nil {
			return "", errors.Template(entity, err)
		}
		parts = append(parts, strings.TrimSpace(b.String()))
	}
	return strings.Join(parts, "\n\n"), nil
}

// raw embeds an expression produced by a code type.
func raw(expr string) *jen.Statement { return jen.Id(expr) }

// ifErr renders "if err != nil { return results... }".
func ifErr(results ...jen.Code) jen.Code {
	return jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(results...))
}

// unsignedNote documents types whose values hold unsigned integers.
func unsignedNote(class string, unsigned bool) string {
	if !unsigned {
		return ""
	}
	return class + " holds unsigned integers; they cross the native boundary as same-width bit patterns."
}

// docLines renders a doc comment from non-empty lines.
func docLines(lines ...string) *jen.Statement {
	s := jen.Null()
	first := true
	for _, line := range lines {
		if line == "" {
			continue
		}
		if !first {
			s.Line()
		}
		s.Comment(line)
		first = false
	}
	return s
}

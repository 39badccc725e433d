package golang

import (
	"flag"
	"go/scanner"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
)

var update = flag.Bool("update", false, "rewrite internal/roundtrip from the generator")

const roundtripPackage = "github.com/wippyai/ffi-bindgen/backend/golang/internal/roundtrip"

// roundtripInterface is the model behind internal/roundtrip, whose tests
// compile the generated code and exercise it against an in-process library.
func roundtripInterface(t *testing.T) *component.Interface {
	t.Helper()
	ci, err := component.New(component.Definitions{
		Namespace: "roundtrip",
		Enums: []component.Enum{
			{Name: "Color", Variants: []component.Variant{{Name: "red"}, {Name: "dark_green"}}},
			{Name: "Shape", Variants: []component.Variant{
				{Name: "circle", Fields: []component.Field{{Name: "radius", Type: component.Float64()}}},
				{Name: "empty"},
			}},
		},
		Records: []component.Record{
			{Name: "Point", Fields: []component.Field{
				{Name: "x", Type: component.Float64()},
				{Name: "label", Type: component.OptionalOf(component.String())},
				{Name: "tags", Type: component.MapOf(component.SequenceOf(component.String()))},
			}},
			{Name: "Node", Fields: []component.Field{
				{Name: "value", Type: component.Int32()},
				{Name: "children", Type: component.SequenceOf(component.RecordNamed("Node"))},
			}},
			{Name: "Holder", Fields: []component.Field{
				{Name: "counter", Type: component.ObjectNamed("Counter")},
				{Name: "note", Type: component.OptionalOf(component.String())},
			}},
		},
		Errors: []component.Error{
			{Name: "MathError", Variants: []component.Variant{
				{Name: "DivisionByZero"},
				{Name: "Overflow", Fields: []component.Field{{Name: "value", Type: component.Int64()}}},
			}},
		},
		Functions: []component.Function{
			{Name: "echo_node", Returns: ptr(component.RecordNamed("Node")), Arguments: []component.Argument{
				{Name: "node", Type: component.RecordNamed("Node")},
			}},
			{Name: "divide", Returns: ptr(component.Int32()), Throws: "MathError", Arguments: []component.Argument{
				{Name: "a", Type: component.Int32()},
				{Name: "b", Type: component.Int32()},
			}},
			{Name: "peek", Returns: ptr(component.Int32()), Arguments: []component.Argument{
				{Name: "counter", Type: component.ObjectNamed("Counter")},
			}},
		},
		Objects: []component.Object{
			{
				Name:         "Counter",
				Constructors: []component.Constructor{{Name: "new", Arguments: []component.Argument{{Name: "start", Type: component.Int32()}}}},
				Methods:      []component.Method{{Name: "value", Returns: ptr(component.Int32())}},
			},
		},
	})
	require.NoError(t, err)
	return ci
}

// goTokens scans src into comparable tokens. Comments, automatic semicolons
// and trailing commas before a closing bracket are dropped, so sources that
// differ only in layout scan alike.
func goTokens(t *testing.T, src []byte) []string {
	t.Helper()
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, src, func(pos token.Position, msg string) {
		t.Errorf("%s: %s", pos, msg)
	}, 0)

	var out []string
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			return out
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		switch tok {
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if n := len(out); n > 0 && out[n-1] == token.COMMA.String() {
				out = out[:n-1]
			}
		}
		if lit == "" {
			lit = tok.String()
		}
		out = append(out, lit)
	}
}

func TestGoTokens(t *testing.T) {
	a := goTokens(t, []byte("// doc\nvar x = T{\n\ta: 1,\n}\n"))
	b := goTokens(t, []byte("var x = T{a: 1}"))
	assert.Equal(t, b, a)
	assert.NotEqual(t, b, goTokens(t, []byte("var x = T{a: 2}")))
}

// TestGeneratedPackageIsCurrent keeps internal/roundtrip in step with the
// generator. Run with -update to rewrite it.
func TestGeneratedPackageIsCurrent(t *testing.T) {
	path, code := generate(t, roundtripInterface(t), backend.Config{PackageName: roundtripPackage})
	assert.Equal(t, roundtripPackage+"/roundtrip.go", path)

	file := filepath.Join("internal", "roundtrip", "roundtrip.go")
	if *update {
		require.NoError(t, os.WriteFile(file, []byte(code), 0o644))
	}
	want, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, goTokens(t, want), goTokens(t, []byte(code)))
}

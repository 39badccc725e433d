package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// stubType renders every operation as a call on the type's canonical name.
type stubType struct {
	t      component.Type
	helper string
}

func (s stubType) TypeLabel() string     { return s.t.String() }
func (s stubType) CanonicalName() string { return s.helper }
func (s stubType) Literal(l component.Literal) (string, error) {
	return l.String(), nil
}
func (s stubType) Lower(name string) string         { return "lower" + s.helper + "(" + name + ")" }
func (s stubType) Write(name, target string) string { return "write" + s.helper + "(" + name + ", " + target + ")" }
func (s stubType) Lift(name string) string          { return "lift" + s.helper + "(" + name + ")" }
func (s stubType) Read(source string) string        { return "read" + s.helper + "(" + source + ")" }
func (s stubType) HelperCode() (string, error) {
	if s.t.IsPrimitive() && s.t.Kind() != component.KindString {
		return "", nil
	}
	return "helper " + s.helper, nil
}
func (s stubType) Imports() []string {
	if s.t.Kind() == component.KindMap {
		return []string{"maps"}
	}
	return []string{"buffers"}
}

// stubOracle names helpers with a renaming function so tests can force
// collisions.
type stubOracle struct {
	helperName func(component.Type) string
	class      func(string) string
	exception  func(string) string
}

func newStubOracle() *stubOracle {
	return &stubOracle{
		helperName: component.Type.CanonicalName,
		class:      func(s string) string { return s },
		exception:  func(s string) string { return s },
	}
}

func (o *stubOracle) Find(t component.Type) (CodeType, error) {
	return stubType{t: t, helper: o.helperName(t)}, nil
}
func (o *stubOracle) ClassName(name string) string       { return o.class(name) }
func (o *stubOracle) FunctionName(name string) string    { return name }
func (o *stubOracle) VariableName(name string) string    { return strings.ToLower(name) }
func (o *stubOracle) EnumVariantName(name string) string { return strings.ToUpper(name) }
func (o *stubOracle) ExceptionName(name string) string   { return o.exception(name) }
func (o *stubOracle) FFITypeLabel(t component.FFIType) string {
	return t.String()
}

type stubMember struct {
	name string
	typ  component.Type
	err  error
}

func (m stubMember) Name() string { return m.name }
func (m stubMember) TypeIdentifier() (component.Type, bool) {
	return m.typ, m.typ.IsValid()
}
func (m stubMember) DefinitionCode() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "def " + m.name, nil
}
func (m stubMember) Imports() []string { return []string{"members"} }

func sampleInterface(t *testing.T) *component.Interface {
	t.Helper()
	u32 := component.UInt32()
	ci, err := component.New(component.Definitions{
		Namespace: "demo",
		Enums: []component.Enum{
			{Name: "Color", Variants: []component.Variant{{Name: "red"}, {Name: "green"}}},
		},
		Records: []component.Record{
			{Name: "Point", Fields: []component.Field{
				{Name: "x", Type: component.Float64()},
				{Name: "tags", Type: component.MapOf(component.SequenceOf(component.String()))},
				{Name: "label", Type: component.OptionalOf(component.String())},
			}},
		},
		Errors: []component.Error{
			{Name: "MathError", Variants: []component.Variant{{Name: "Overflow"}}},
		},
		Functions: []component.Function{
			{Name: "count", Returns: &u32, Arguments: []component.Argument{
				{Name: "points", Type: component.SequenceOf(component.RecordNamed("Point"))},
			}},
		},
	})
	require.NoError(t, err)
	return ci
}

func TestAggregateOrder(t *testing.T) {
	ci := sampleInterface(t)
	members := []MemberDeclaration{
		stubMember{name: "count"},
		stubMember{name: "MathError", typ: component.ErrorNamed("MathError")},
		stubMember{name: "Point", typ: component.RecordNamed("Point")},
		stubMember{name: "Color", typ: component.EnumNamed("Color")},
	}

	plan, err := Aggregate(ci, newStubOracle(), members)
	require.NoError(t, err)

	var names []string
	for _, f := range plan.Members {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Color", "Point", "MathError", "count"}, names)

	var helpers []string
	for _, f := range plan.Helpers {
		helpers = append(helpers, f.Name)
	}
	assert.Equal(t, []string{
		"EnumColor",
		"RecordPoint",
		"MapSequencestring",
		"string",
		"Sequencestring",
		"Optionalstring",
		"ErrorMathError",
		"SequenceRecordPoint",
	}, helpers)

	assert.Equal(t, []string{"buffers", "maps", "members"}, plan.Imports)
	assert.Len(t, plan.Fragments(), len(plan.Helpers)+len(plan.Members))
}

func TestAggregateDeterministic(t *testing.T) {
	ci := sampleInterface(t)
	members := []MemberDeclaration{
		stubMember{name: "Point", typ: component.RecordNamed("Point")},
		stubMember{name: "count"},
	}
	first, err := Aggregate(ci, newStubOracle(), members)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Aggregate(ci, newStubOracle(), members)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAggregateHelperCollision(t *testing.T) {
	ci := sampleInterface(t)
	oracle := newStubOracle()
	// Drops the wrapper token so Optional<string> and string collide.
	oracle.helperName = func(t component.Type) string {
		return strings.TrimPrefix(t.CanonicalName(), "Optional")
	}

	_, err := Aggregate(ci, oracle, nil)
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindCanonicalCollision, e.Kind)
	assert.Equal(t, "Optionalstring", e.Entity)
}

func TestAggregateAttributesMemberErrors(t *testing.T) {
	ci := sampleInterface(t)
	members := []MemberDeclaration{
		stubMember{name: "Point", typ: component.RecordNamed("Point"), err: fmt.Errorf("boom")},
	}
	_, err := Aggregate(ci, newStubOracle(), members)
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Point", e.Entity)
}

func TestHelperSet(t *testing.T) {
	s := NewHelperSet()

	fresh, err := s.Claim("liftString", "string")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = s.Claim("liftString", "string")
	require.NoError(t, err)
	assert.False(t, fresh)

	_, err = s.Claim("liftString", "Optionalstring")
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseGenerate, Kind: errors.KindCanonicalCollision})

	assert.True(t, s.Contains("liftString"))
	assert.False(t, s.Contains("liftBool"))
	assert.Equal(t, []string{"liftString"}, s.Names())
	assert.Equal(t, 1, s.Len())
}

func TestCheckCollisions(t *testing.T) {
	ci := sampleInterface(t)
	require.NoError(t, CheckCollisions(ci, newStubOracle()))

	lossy := newStubOracle()
	lossy.class = func(string) string { return "Same" }
	err := CheckCollisions(ci, lossy)
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindNameCollision, e.Kind)
	assert.Equal(t, "Point", e.Entity)
}

func TestCheckCollisionsMembers(t *testing.T) {
	ci, err := component.New(component.Definitions{
		Namespace: "demo",
		Records: []component.Record{
			{Name: "Pair", Fields: []component.Field{
				{Name: "Left", Type: component.Int32()},
				{Name: "left", Type: component.Int32()},
			}},
		},
	})
	require.NoError(t, err)

	err = CheckCollisions(ci, newStubOracle())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field name "left"`)

	ci, err = component.New(component.Definitions{
		Namespace: "demo",
		Errors: []component.Error{
			{Name: "IoError", Variants: []component.Variant{{Name: "ReadError"}, {Name: "ReadException"}}},
		},
	})
	require.NoError(t, err)
	require.NoError(t, CheckCollisions(ci, newStubOracle()))

	oracle := newStubOracle()
	oracle.exception = func(s string) string {
		if stripped, ok := strings.CutSuffix(s, "Error"); ok {
			return stripped + "Exception"
		}
		return s
	}
	err = CheckCollisions(ci, oracle)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindNameCollision, e.Kind)
	assert.Contains(t, err.Error(), "ReadException")
}

func TestConfigMerge(t *testing.T) {
	defaults := Config{PackageName: "uniffi.demo", CdylibName: "uniffi_demo"}

	assert.Equal(t, defaults, Config{}.MergeWith(defaults))
	assert.Equal(t,
		Config{PackageName: "com.example", CdylibName: "uniffi_demo"},
		Config{PackageName: "com.example"}.MergeWith(defaults))
	assert.True(t, Config{}.IsZero())
	assert.False(t, defaults.IsZero())
}

func TestParseConfig(t *testing.T) {
	fc, err := ParseConfig([]byte(`
bindings:
  kotlin:
    package_name: com.example.math
  go:
    cdylib_name: math
`))
	require.NoError(t, err)
	assert.Equal(t, Config{PackageName: "com.example.math"}, fc.For("kotlin"))
	assert.Equal(t, Config{CdylibName: "math"}, fc.For("go"))
	assert.True(t, fc.For("swift").IsZero())

	empty, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Bindings)

	_, err = ParseConfig([]byte("bindings:\n  kotlin:\n    pkg: x\n"))
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bindings: {go: {package_name: demo}}\n"), 0o644))

	fc, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", fc.For("go").PackageName)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

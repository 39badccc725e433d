package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ffi-bindgen/errors"
)

func ptr[T any](v T) *T { return &v }

func sampleDefinitions() Definitions {
	return Definitions{
		Namespace: "demo",
		Enums: []Enum{
			{Name: "Color", Variants: []Variant{{Name: "red"}, {Name: "green"}}},
			{Name: "Shape", Variants: []Variant{
				{Name: "circle", Fields: []Field{{Name: "radius", Type: Float64()}}},
				{Name: "dot"},
			}},
		},
		Records: []Record{
			{Name: "Point", Fields: []Field{
				{Name: "x", Type: Int32(), Default: ptr(IntLiteral(0, Decimal, Int32()))},
				{Name: "tag", Type: OptionalOf(String()), Default: ptr(NullLiteral())},
			}},
			{Name: "Node", Fields: []Field{
				{Name: "value", Type: UInt32()},
				{Name: "next", Type: OptionalOf(RecordNamed("Node"))},
			}},
			{Name: "Holder", Fields: []Field{
				{Name: "counter", Type: ObjectNamed("Counter")},
				{Name: "labels", Type: MapOf(Int64())},
			}},
		},
		Errors: []Error{
			{Name: "ArithmeticError", Variants: []Variant{{Name: "Overflow"}, {Name: "DivByZero"}}},
		},
		Functions: []Function{
			{
				Name:      "add",
				Arguments: []Argument{{Name: "a", Type: UInt64()}, {Name: "b", Type: UInt64()}},
				Returns:   ptr(UInt64()),
				Throws:    "ArithmeticError",
			},
			{Name: "paint", Arguments: []Argument{{Name: "color", Type: EnumNamed("Color"), Default: ptr(EnumLiteral("red", EnumNamed("Color")))}}},
		},
		Objects: []Object{
			{
				Name:         "Counter",
				Constructors: []Constructor{{Name: "new", Arguments: []Argument{{Name: "start", Type: Int32()}}}},
				Methods: []Method{
					{Name: "increment"},
					{Name: "value", Returns: ptr(Int32())},
				},
			},
		},
		CallbackInterfaces: []CallbackInterface{
			{Name: "Listener", Methods: []Method{{Name: "on_event", Arguments: []Argument{{Name: "name", Type: String()}}}}},
		},
	}
}

func TestNewInterface(t *testing.T) {
	ci, err := New(sampleDefinitions())
	require.NoError(t, err)

	assert.Equal(t, "demo", ci.Namespace())
	assert.Len(t, ci.Enums(), 2)
	assert.Len(t, ci.Records(), 3)
	assert.Len(t, ci.Functions(), 2)

	color, ok := ci.Enum("Color")
	require.True(t, ok)
	assert.True(t, color.IsFlat())
	shape, _ := ci.Enum("Shape")
	assert.False(t, shape.IsFlat())

	_, disc, ok := color.Variant("green")
	require.True(t, ok)
	assert.Equal(t, int32(2), disc)

	k, ok := ci.KindOf("Counter")
	require.True(t, ok)
	assert.Equal(t, KindObject, k)

	_, ok = ci.Record("Color")
	assert.False(t, ok)
}

func TestNewCopiesDefinitions(t *testing.T) {
	defs := sampleDefinitions()
	ci, err := New(defs)
	require.NoError(t, err)

	defs.Records[0].Fields[0].Name = "changed"
	p, _ := ci.Record("Point")
	assert.Equal(t, "x", p.Fields[0].Name)
}

func TestFFITypeMapping(t *testing.T) {
	ci, err := New(sampleDefinitions())
	require.NoError(t, err)

	tests := []struct {
		typ  Type
		want FFIType
	}{
		{Int8(), FFIInt8},
		{UInt16(), FFIUInt16},
		{Float32(), FFIFloat32},
		{Bool(), FFIInt8},
		{String(), FFIRustBuffer},
		{Timestamp(), FFIRustBuffer},
		{Duration(), FFIRustBuffer},
		{OptionalOf(Int8()), FFIRustBuffer},
		{SequenceOf(Int8()), FFIRustBuffer},
		{MapOf(Int8()), FFIRustBuffer},
		{EnumNamed("Color"), FFIInt32},
		{EnumNamed("Shape"), FFIRustBuffer},
		{RecordNamed("Point"), FFIRustBuffer},
		{ErrorNamed("ArithmeticError"), FFIRustBuffer},
		{ObjectNamed("Counter"), FFIRustArcPtr},
		{CallbackInterfaceNamed("Listener"), FFIUInt64},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ci.FFIType(tt.typ))
		})
	}
}

func TestFFITypeSlot(t *testing.T) {
	assert.Equal(t, FFIInt8, FFIUInt8.Slot())
	assert.Equal(t, FFIInt64, FFIUInt64.Slot())
	assert.Equal(t, FFIFloat32, FFIFloat32.Slot())
	assert.Equal(t, FFIRustBuffer, FFIRustBuffer.Slot())
	assert.Equal(t, 12, FFIRustBuffer.Size())
}

func TestMetadata(t *testing.T) {
	ci, err := New(sampleDefinitions())
	require.NoError(t, err)

	node, _ := ci.Record("Node")
	assert.True(t, node.ContainsUnsignedTypes())
	assert.False(t, node.ContainsObjectReferences())

	point, _ := ci.Record("Point")
	assert.False(t, point.ContainsUnsignedTypes())

	holder, _ := ci.Record("Holder")
	assert.True(t, holder.ContainsObjectReferences())
	assert.False(t, holder.ContainsUnsignedTypes())

	add, _ := ci.Function("add")
	assert.True(t, add.ContainsUnsignedTypes())

	listener, _ := ci.CallbackInterface("Listener")
	assert.False(t, listener.ContainsUnsignedTypes())
}

func TestMetadataSelfReferenceThroughContainers(t *testing.T) {
	defs := Definitions{
		Namespace: "tree",
		Records: []Record{
			{Name: "Tree", Fields: []Field{
				{Name: "children", Type: SequenceOf(RecordNamed("Tree"))},
				{Name: "parent", Type: OptionalOf(RecordNamed("Tree"))},
				{Name: "index", Type: MapOf(RecordNamed("Tree"))},
				{Name: "weight", Type: UInt8()},
			}},
		},
	}
	ci, err := New(defs)
	require.NoError(t, err)
	tree, _ := ci.Record("Tree")
	assert.True(t, tree.ContainsUnsignedTypes())
	assert.False(t, tree.ContainsObjectReferences())
}

func TestRecursiveByValue(t *testing.T) {
	defs := Definitions{
		Namespace: "loop",
		Records: []Record{
			{Name: "A", Fields: []Field{{Name: "b", Type: RecordNamed("B")}}},
			{Name: "B", Fields: []Field{{Name: "e", Type: EnumNamed("E")}}},
		},
		Enums: []Enum{
			{Name: "E", Variants: []Variant{{Name: "wrap", Fields: []Field{{Name: "a", Type: RecordNamed("A")}}}}},
		},
	}
	_, err := New(defs)
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindRecursiveType, e.Kind)
	assert.Equal(t, []string{"A", "B", "E", "A"}, e.Path)
}

func TestRecursionThroughObjectIsAllowed(t *testing.T) {
	defs := Definitions{
		Namespace: "ok",
		Records: []Record{
			{Name: "Wrapper", Fields: []Field{{Name: "inner", Type: ObjectNamed("Thing")}}},
		},
		Objects: []Object{
			{Name: "Thing", Methods: []Method{{Name: "wrap", Returns: ptr(RecordNamed("Wrapper"))}}},
		},
	}
	_, err := New(defs)
	assert.NoError(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definitions)
		kind   errors.Kind
	}{
		{"duplicate type across kinds", func(d *Definitions) {
			d.Records = append(d.Records, Record{Name: "Color"})
		}, errors.KindDuplicateName},
		{"duplicate function", func(d *Definitions) {
			d.Functions = append(d.Functions, Function{Name: "add"})
		}, errors.KindDuplicateName},
		{"duplicate field", func(d *Definitions) {
			d.Records[0].Fields = append(d.Records[0].Fields, Field{Name: "x", Type: Int8()})
		}, errors.KindDuplicateName},
		{"duplicate method", func(d *Definitions) {
			d.Objects[0].Methods = append(d.Objects[0].Methods, Method{Name: "new"})
		}, errors.KindDuplicateName},
		{"invalid name", func(d *Definitions) {
			d.Records[0].Name = "bad-name"
		}, errors.KindInvalidName},
		{"empty namespace", func(d *Definitions) {
			d.Namespace = ""
		}, errors.KindInvalidName},
		{"unresolved field type", func(d *Definitions) {
			d.Records[0].Fields[0].Type = RecordNamed("Missing")
		}, errors.KindUnresolvedType},
		{"wrong nominal kind", func(d *Definitions) {
			d.Records[0].Fields[0].Type = OptionalOf(RecordNamed("Color"))
		}, errors.KindUnresolvedType},
		{"throws non-error", func(d *Definitions) {
			d.Functions[0].Throws = "Color"
		}, errors.KindUnresolvedType},
		{"default mismatch", func(d *Definitions) {
			d.Records[0].Fields[0].Default = ptr(StringLiteral("zero"))
		}, errors.KindLiteralMismatch},
		{"unknown enum variant default", func(d *Definitions) {
			d.Functions[1].Arguments[0].Default = ptr(EnumLiteral("blue", EnumNamed("Color")))
		}, errors.KindLiteralMismatch},
		{"empty enum", func(d *Definitions) {
			d.Enums[0].Variants = nil
		}, errors.KindInvalidInput},
		{"missing type", func(d *Definitions) {
			d.Records[0].Fields[0].Type = Type{}
		}, errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := sampleDefinitions()
			tt.mutate(&defs)
			_, err := New(defs)
			require.Error(t, err)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.kind, e.Kind, err.Error())
		})
	}
}

func TestUnresolvedCarriesEntity(t *testing.T) {
	defs := sampleDefinitions()
	defs.Records[0].Fields[1].Type = SequenceOf(EnumNamed("Nope"))
	_, err := New(defs)
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Point", e.Entity)
	assert.Equal(t, []string{"tag"}, e.Path)
	assert.Equal(t, "Nope", e.Type)
}

func TestIterTypes(t *testing.T) {
	ci, err := New(sampleDefinitions())
	require.NoError(t, err)

	var names []string
	seen := make(map[string]bool)
	for _, typ := range ci.IterTypes() {
		name := typ.CanonicalName()
		assert.False(t, seen[name], "duplicate %s", name)
		seen[name] = true
		names = append(names, name)
	}

	assert.Equal(t, "EnumColor", names[0])
	for _, want := range []string{
		"EnumShape", "f64", "RecordPoint", "i32", "Optionalstring", "string",
		"RecordNode", "u32", "OptionalRecordNode", "RecordHolder", "ObjectCounter",
		"Mapi64", "i64", "ErrorArithmeticError", "u64", "CallbackInterfaceListener",
	} {
		assert.True(t, seen[want], "missing %s", want)
	}

	again, err := New(sampleDefinitions())
	require.NoError(t, err)
	assert.Equal(t, ci.IterTypes(), again.IterTypes())
}

func TestFFIFunctions(t *testing.T) {
	ci, err := New(sampleDefinitions())
	require.NoError(t, err)

	var names []string
	for _, f := range ci.FFIFunctions() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"ffi_demo_rustbuffer_alloc",
		"ffi_demo_rustbuffer_from_bytes",
		"ffi_demo_rustbuffer_free",
		"ffi_demo_rustbuffer_reserve",
		"demo_add",
		"demo_paint",
		"ffi_demo_Counter_object_free",
		"demo_Counter_new",
		"demo_Counter_increment",
		"demo_Counter_value",
		"ffi_demo_Listener_init_callback",
	}, names)

	add, _ := ci.Function("add")
	ffi := add.FFIFunc()
	require.NotNil(t, ffi.Returns)
	assert.Equal(t, FFIUInt64, *ffi.Returns)
	assert.Equal(t, []FFIArgument{{Name: "a", Type: FFIUInt64}, {Name: "b", Type: FFIUInt64}}, ffi.Arguments)

	counter, _ := ci.Object("Counter")
	inc := counter.Methods[0].FFIFunc()
	assert.Equal(t, FFIRustArcPtr, inc.Arguments[0].Type)
	assert.False(t, inc.HasReturn())

	ctor, ok := counter.PrimaryConstructor()
	require.True(t, ok)
	assert.Equal(t, FFIRustArcPtr, *ctor.FFIFunc().Returns)

	paint, _ := ci.Function("paint")
	assert.Equal(t, FFIInt32, paint.FFIFunc().Arguments[0].Type)
}

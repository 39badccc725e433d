package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/ffi-bindgen/errors"
)

func witDef(name string, kind wit.TypeDefKind) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: kind}
}

func TestFromWIT(t *testing.T) {
	color := witDef("color", &wit.Enum{Cases: []wit.EnumCase{{Name: "hot-pink"}, {Name: "teal"}}})
	point := witDef("point", &wit.Record{Fields: []wit.Field{
		{Name: "x", Type: wit.S32{}},
		{Name: "label", Type: &wit.TypeDef{Kind: &wit.Option{Type: wit.String{}}}},
	}})
	shape := witDef("shape", &wit.Variant{Cases: []wit.Case{
		{Name: "dot"},
		{Name: "polygon", Type: &wit.TypeDef{Kind: &wit.List{Type: point}}},
	}})
	canvas := witDef("canvas-state", &wit.Record{Fields: []wit.Field{
		{Name: "fill-color", Type: color},
		{Name: "shapes", Type: &wit.TypeDef{Kind: &wit.List{Type: shape}}},
		{Name: "scale", Type: wit.F64{}},
		{Name: "visible", Type: wit.Bool{}},
		{Name: "id", Type: wit.U64{}},
	}})

	ci, err := FromWIT("my-canvas", []*wit.TypeDef{color, point, shape, canvas})
	require.NoError(t, err)

	assert.Equal(t, "my_canvas", ci.Namespace())

	c, ok := ci.Enum("Color")
	require.True(t, ok)
	assert.True(t, c.IsFlat())
	assert.Equal(t, "hot_pink", c.Variants[0].Name)

	s, ok := ci.Enum("Shape")
	require.True(t, ok)
	assert.False(t, s.IsFlat())
	require.Len(t, s.Variants[1].Fields, 1)
	assert.True(t, s.Variants[1].Fields[0].Type.Equal(SequenceOf(RecordNamed("Point"))))

	p, ok := ci.Record("Point")
	require.True(t, ok)
	assert.True(t, p.Fields[1].Type.Equal(OptionalOf(String())))

	cs, ok := ci.Record("CanvasState")
	require.True(t, ok)
	assert.Equal(t, "fill_color", cs.Fields[0].Name)
	assert.True(t, cs.Fields[0].Type.Equal(EnumNamed("Color")))
	assert.True(t, cs.ContainsUnsignedTypes())
}

func TestFromWITUnsupported(t *testing.T) {
	tests := []struct {
		name string
		typ  wit.Type
	}{
		{"char", wit.Char{}},
		{"tuple", &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U8{}}}}},
		{"result", &wit.TypeDef{Kind: &wit.Result{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := witDef("holder", &wit.Record{Fields: []wit.Field{{Name: "v", Type: tt.typ}}})
			_, err := FromWIT("x", []*wit.TypeDef{rec})
			require.Error(t, err)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.KindUnsupported, e.Kind)
			assert.Contains(t, e.Detail, tt.name)
		})
	}
}

package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ffi-bindgen/errors"
)

func TestParseIntegerLiteral(t *testing.T) {
	tests := []struct {
		text   string
		typ    Type
		radix  Radix
		render string
	}{
		{"42", Int32(), Decimal, "42"},
		{"-42", Int64(), Decimal, "-42"},
		{"0x1F", UInt8(), Hexadecimal, "0x1f"},
		{"017", UInt16(), Octal, "0xf"},
		{"0o17", Int32(), Octal, "0xf"},
		{"-0x10", Int16(), Hexadecimal, "-0x10"},
		{"18446744073709551615", UInt64(), Decimal, "18446744073709551615"},
		{"-9223372036854775808", Int64(), Decimal, "-9223372036854775808"},
		{"0", Int8(), Decimal, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			lit, err := ParseIntegerLiteral(tt.text, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.radix, lit.Radix())
			assert.Equal(t, tt.render, lit.FormatInteger())
			assert.True(t, lit.Type().Equal(tt.typ))
		})
	}
}

func TestParseIntegerLiteralOverflow(t *testing.T) {
	tests := []struct {
		text string
		typ  Type
	}{
		{"128", Int8()},
		{"-129", Int8()},
		{"256", UInt8()},
		{"-1", UInt32()},
		{"9223372036854775808", Int64()},
		{"65536", UInt16()},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := ParseIntegerLiteral(tt.text, tt.typ)
			require.Error(t, err)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.KindOverflow, e.Kind)
		})
	}
}

func TestParseIntegerLiteralRejects(t *testing.T) {
	_, err := ParseIntegerLiteral("12", String())
	assert.Error(t, err)
	_, err = ParseIntegerLiteral("0xZZ", Int32())
	assert.Error(t, err)
	_, err = ParseIntegerLiteral("1.5", Int32())
	assert.Error(t, err)
}

func TestParseFloatLiteral(t *testing.T) {
	lit, err := ParseFloatLiteral("2.5", Float32())
	require.NoError(t, err)
	assert.Equal(t, "2.5", lit.Text())
	assert.Equal(t, LiteralFloat, lit.Kind())

	_, err = ParseFloatLiteral("2.5", Int32())
	assert.Error(t, err)
	_, err = ParseFloatLiteral("abc", Float64())
	assert.Error(t, err)
	_, err = ParseFloatLiteral("1e40", Float32())
	assert.Error(t, err)
}

func TestLiteralCheck(t *testing.T) {
	i32 := IntLiteral(1, Decimal, Int32())
	tests := []struct {
		name string
		lit  Literal
		typ  Type
		ok   bool
	}{
		{"bool", BooleanLiteral(true), Bool(), true},
		{"bool on string", BooleanLiteral(true), String(), false},
		{"string", StringLiteral("x"), String(), true},
		{"null on optional", NullLiteral(), OptionalOf(String()), true},
		{"null on string", NullLiteral(), String(), false},
		{"inner literal on optional", StringLiteral("x"), OptionalOf(String()), true},
		{"empty sequence", EmptySequenceLiteral(), SequenceOf(Int8()), true},
		{"empty sequence on map", EmptySequenceLiteral(), MapOf(Int8()), false},
		{"empty map", EmptyMapLiteral(), MapOf(Int8()), true},
		{"int", i32, Int32(), true},
		{"int on optional int", i32, OptionalOf(Int32()), true},
		{"int on wider type", i32, Int64(), false},
		{"numeric on string", i32, String(), false},
		{"enum", EnumLiteral("red", EnumNamed("Color")), EnumNamed("Color"), true},
		{"enum on other enum", EnumLiteral("red", EnumNamed("Color")), EnumNamed("Shade"), false},
		{"float", FloatLiteral("1.0", Float64()), Float64(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lit.Check(tt.typ)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.KindLiteralMismatch, e.Kind)
		})
	}
}

func TestLiteralValidate(t *testing.T) {
	assert.Error(t, IntLiteral(1, Decimal, String()).Validate())
	assert.Error(t, UIntLiteral(300, Decimal, UInt8()).Validate())
	assert.NoError(t, UIntLiteral(255, Hexadecimal, UInt8()).Validate())
	assert.Error(t, FloatLiteral("x", Float32()).Validate())
	assert.Error(t, EnumLiteral("a", RecordNamed("R")).Validate())
	assert.Error(t, Literal{}.Validate())
}

func TestLiteralString(t *testing.T) {
	assert.Equal(t, "true", BooleanLiteral(true).String())
	assert.Equal(t, `"a\"b"`, StringLiteral(`a"b`).String())
	assert.Equal(t, "Color.red", EnumLiteral("red", EnumNamed("Color")).String())
	assert.Equal(t, "0xff", UIntLiteral(255, Octal, UInt8()).String())
	assert.Equal(t, "-5", IntLiteral(-5, Decimal, Int8()).String())
}

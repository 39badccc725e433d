package component

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ffi-bindgen/errors"
)

const arithmeticModel = `
namespace: arithmetic
enums:
  - name: Op
    variants: [add, sub]
  - name: Value
    variants:
      - name: int
        fields:
          - {name: v, type: i64}
      - none
records:
  - name: Settings
    fields:
      - {name: mask, type: u8, default: 0x1F}
      - {name: mode, type: u16, default: 017}
      - {name: scale, type: f32, default: 1.5}
      - {name: op, type: Op, default: sub}
      - {name: label, type: string?, default: null}
      - {name: items, type: "sequence<i32>", default: []}
      - {name: extra, type: "map<string, bool>", default: {}}
      - {name: enabled, type: bool, default: true}
      - {name: name, type: string, default: "calc"}
errors:
  - name: ArithmeticError
    variants: [IntegerOverflow]
functions:
  - name: add
    arguments:
      - {name: a, type: u64}
      - {name: b, type: u64}
    returns: u64
    throws: ArithmeticError
objects:
  - name: Calculator
    constructors:
      - name: new
        arguments: [{name: settings, type: Settings}]
    methods:
      - name: last
        returns: Value?
callback_interfaces:
  - name: Observer
    methods:
      - name: notify
        arguments: [{name: result, type: u64}]
`

func TestParseModel(t *testing.T) {
	ci, err := Parse([]byte(arithmeticModel))
	require.NoError(t, err)

	assert.Equal(t, "arithmetic", ci.Namespace())

	value, ok := ci.Enum("Value")
	require.True(t, ok)
	require.Len(t, value.Variants, 2)
	assert.True(t, value.Variants[0].HasFields())
	assert.Equal(t, "none", value.Variants[1].Name)

	settings, ok := ci.Record("Settings")
	require.True(t, ok)
	defaults := make(map[string]*Literal)
	for _, f := range settings.Fields {
		defaults[f.Name] = f.Default
	}

	require.NotNil(t, defaults["mask"])
	assert.Equal(t, Hexadecimal, defaults["mask"].Radix())
	assert.Equal(t, uint64(31), defaults["mask"].UInt())

	assert.Equal(t, Octal, defaults["mode"].Radix())
	assert.Equal(t, uint64(15), defaults["mode"].UInt())

	assert.Equal(t, LiteralFloat, defaults["scale"].Kind())
	assert.Equal(t, "1.5", defaults["scale"].Text())

	assert.Equal(t, LiteralEnum, defaults["op"].Kind())
	assert.Equal(t, "sub", defaults["op"].Text())

	assert.Equal(t, LiteralNull, defaults["label"].Kind())
	assert.Equal(t, LiteralEmptySequence, defaults["items"].Kind())
	assert.Equal(t, LiteralEmptyMap, defaults["extra"].Kind())
	assert.True(t, defaults["enabled"].Bool())
	assert.Equal(t, "calc", defaults["name"].Text())

	calc, ok := ci.Object("Calculator")
	require.True(t, ok)
	require.NotNil(t, calc.Methods[0].Returns)
	assert.True(t, calc.Methods[0].Returns.Equal(OptionalOf(EnumNamed("Value"))))

	add, _ := ci.Function("add")
	thrown, ok := add.ThrowsType()
	require.True(t, ok)
	assert.True(t, thrown.Equal(ErrorNamed("ArithmeticError")))
}

func TestParseJSONModel(t *testing.T) {
	doc := `{"namespace": "j", "records": [{"name": "P", "fields": [{"name": "x", "type": "i32", "default": -3}]}]}`
	ci, err := Parse([]byte(doc))
	require.NoError(t, err)
	p, _ := ci.Record("P")
	assert.Equal(t, int64(-3), p.Fields[0].Default.Int())
}

func TestParseModelErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind errors.Kind
	}{
		{"numeric default on string", `
namespace: x
records:
  - name: R
    fields: [{name: s, type: string, default: 5}]
`, errors.KindLiteralMismatch},
		{"string default on integer", `
namespace: x
records:
  - name: R
    fields: [{name: n, type: i32, default: "5"}]
`, errors.KindLiteralMismatch},
		{"overflowing default", `
namespace: x
records:
  - name: R
    fields: [{name: n, type: i8, default: 300}]
`, errors.KindOverflow},
		{"unknown type", `
namespace: x
records:
  - name: R
    fields: [{name: n, type: Nope}]
`, errors.KindUnresolvedType},
		{"unknown key", `
namespace: x
recordz: []
`, errors.KindInvalidData},
		{"empty document", ``, errors.KindInvalidInput},
		{"constructor with return", `
namespace: x
objects:
  - name: O
    constructors: [{name: new, returns: i32}]
`, errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.kind, e.Kind, err.Error())
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(arithmeticModel), 0o644))

	ci, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "arithmetic", ci.Namespace())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadReader(t *testing.T) {
	ci, err := Load(strings.NewReader(arithmeticModel))
	require.NoError(t, err)
	assert.Len(t, ci.CallbackInterfaces(), 1)
}

package backend

import (
	"github.com/wippyai/ffi-bindgen/component"
)

// CodeType knows how one logical type is spelled, encoded and rendered in a
// target language. Expressions are returned as target source text.
type CodeType interface {
	// TypeLabel is the target spelling of the type.
	TypeLabel() string
	// CanonicalName is the target helper name, unique per type shape.
	CanonicalName() string
	// Literal renders l as a target expression of this type.
	Literal(l component.Literal) (string, error)
	// Lower converts the value in variable name to its FFI representation.
	Lower(name string) string
	// Write appends the value in variable name to the buffer builder target.
	Write(name, target string) string
	// Lift converts the FFI value in name back into the target type.
	Lift(name string) string
	// Read decodes one value from the buffer reader source.
	Read(source string) string
	// HelperCode is emitted once per run for this type shape; "" when none.
	HelperCode() (string, error)
	// Imports lists target imports the type's code requires.
	Imports() []string
}

// Oracle resolves types to code types and spells names for a target.
// All naming methods are pure and idempotent.
type Oracle interface {
	Find(t component.Type) (CodeType, error)

	ClassName(name string) string
	FunctionName(name string) string
	VariableName(name string) string
	EnumVariantName(name string) string
	ExceptionName(name string) string
	FFITypeLabel(t component.FFIType) string
}

// MemberDeclaration produces the definition of one interface entity.
type MemberDeclaration interface {
	// Name is the model name of the entity.
	Name() string
	// TypeIdentifier is the entity's type; functions have none.
	TypeIdentifier() (component.Type, bool)
	DefinitionCode() (string, error)
	Imports() []string
}

// File is one generated output file, relative to the output directory.
type File struct {
	Path     string
	Contents []byte
}

// Target generates bindings for one language.
type Target interface {
	Name() string
	// DefaultConfig returns the configuration derived from the interface.
	DefaultConfig(ci *component.Interface) Config
	Generate(ci *component.Interface, cfg Config) ([]File, error)
}

package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // model document loading
	PhaseValidate Phase = "validate" // interface model validation
	PhaseResolve  Phase = "resolve"  // type to code type resolution
	PhaseMetadata Phase = "metadata" // transitive metadata computation
	PhaseLiteral  Phase = "literal"  // literal rendering
	PhaseGenerate Phase = "generate" // binding generation
	PhaseRender   Phase = "render"   // template rendering and formatting
	PhaseOutput   Phase = "output"   // writing generated files
	PhaseLower    Phase = "lower"    // Go value to FFI transport
	PhaseLift     Phase = "lift"     // FFI transport to Go value
	PhaseWrite    Phase = "write"    // serialization into a buffer
	PhaseRead     Phase = "read"     // deserialization from a buffer
	PhaseCall     Phase = "call"     // native call
	PhaseRuntime  Phase = "runtime"  // handle and library lifecycle
)

// Kind categorizes the error
type Kind string

const (
	KindUnresolvedType      Kind = "unresolved_type"
	KindLiteralMismatch     Kind = "literal_mismatch"
	KindCanonicalCollision  Kind = "canonical_collision"
	KindNameCollision       Kind = "name_collision"
	KindRecursiveType       Kind = "recursive_type"
	KindDuplicateName       Kind = "duplicate_name"
	KindInvalidName         Kind = "invalid_name"
	KindInvalidData         Kind = "invalid_data"
	KindInvalidInput        Kind = "invalid_input"
	KindShortBuffer         Kind = "short_buffer"
	KindTrailingBytes       Kind = "trailing_bytes"
	KindInvalidDiscriminant Kind = "invalid_discriminant"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindOverflow            Kind = "overflow"
	KindAllocation          Kind = "allocation"
	KindDoubleFree          Kind = "double_free"
	KindDisposed            Kind = "disposed"
	KindNotFound            Kind = "not_found"
	KindNotInitialized      Kind = "not_initialized"
	KindUnsupported         Kind = "unsupported"
	KindCallError           Kind = "call_error"
	KindPanic               Kind = "panic"
	KindTemplate            Kind = "template"
	KindIO                  Kind = "io"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Entity string
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Entity != "" {
		b.WriteString(" in ")
		b.WriteString(e.Entity)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// WithEntity returns a copy of the error attributed to entity.
// An entity already set is kept; the innermost attribution wins.
func (e *Error) WithEntity(entity string) *Error {
	if e.Entity != "" {
		return e
	}
	cp := *e
	cp.Entity = entity
	return &cp
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Entity sets the name of the offending interface entity
func (b *Builder) Entity(name string) *Builder {
	b.err.Entity = name
	return b
}

// Path sets the member path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the logical type involved
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Generation-time constructors. All of these are fatal for a generation run.

// Unresolved creates an error for a type that does not resolve to a declared entity
func Unresolved(entity, typ string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnresolvedType,
		Entity: entity,
		Type:   typ,
		Detail: "no declaration matches this type",
	}
}

// LiteralMismatch creates an error for a literal attached to an incompatible type
func LiteralMismatch(entity, typ, literal string) *Error {
	return &Error{
		Phase:  PhaseLiteral,
		Kind:   KindLiteralMismatch,
		Entity: entity,
		Type:   typ,
		Detail: fmt.Sprintf("literal %s cannot have this type", literal),
		Value:  literal,
	}
}

// Collision creates an error for two distinct types sharing a rendered helper name
func Collision(name, first, second string) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindCanonicalCollision,
		Entity: second,
		Detail: fmt.Sprintf("helper name %q is already used by %s", name, first),
		Value:  name,
	}
}

// NameCollision creates an error for two logical names rendering to the same spelling
func NameCollision(scope, rendered, first, second string) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindNameCollision,
		Entity: second,
		Detail: fmt.Sprintf("%s name %q is already used by %s", scope, rendered, first),
		Value:  rendered,
	}
}

// RecursiveType creates an error for a by-value cycle in the type graph
func RecursiveType(entity string, cycle []string) *Error {
	return &Error{
		Phase:  PhaseMetadata,
		Kind:   KindRecursiveType,
		Entity: entity,
		Path:   cycle,
		Detail: "type contains itself by value; wrap the reference in an optional, sequence or map",
	}
}

// Duplicate creates an error for a name declared twice
func Duplicate(what, name string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindDuplicateName,
		Entity: name,
		Detail: fmt.Sprintf("%s %q declared more than once", what, name),
	}
}

// InvalidName creates an error for an empty or malformed identifier
func InvalidName(entity, what, name string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidName,
		Entity: entity,
		Detail: fmt.Sprintf("invalid %s name %q", what, name),
		Value:  name,
	}
}

// Runtime constructors. These are recoverable and surface from generated bindings.

// ShortBuffer creates an error for a read past the end of a buffer
func ShortBuffer(path []string, need, have int) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindShortBuffer,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", need, have),
	}
}

// TrailingBytes creates an error for bytes left unread after lifting a buffer
func TrailingBytes(n int) *Error {
	return &Error{
		Phase:  PhaseLift,
		Kind:   KindTrailingBytes,
		Detail: fmt.Sprintf("%d bytes remaining in buffer after lifting", n),
		Value:  n,
	}
}

// InvalidDiscriminant creates an invalid discriminant error for enums and errors
func InvalidDiscriminant(path []string, typ string, disc int32, count int) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindInvalidDiscriminant,
		Path:   path,
		Type:   typ,
		Detail: fmt.Sprintf("discriminant %d out of range (1..%d)", disc, count),
		Value:  disc,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Type:   target,
		Detail: fmt.Sprintf("value %v does not fit %s", value, target),
		Value:  value,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// DoubleFree creates an error for releasing a buffer that is not live
func DoubleFree(ptr uint32) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindDoubleFree,
		Detail: fmt.Sprintf("buffer at 0x%x is not allocated", ptr),
		Value:  ptr,
	}
}

// Disposed creates an error for a call on a destroyed object handle
func Disposed(typ string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindDisposed,
		Type:   typ,
		Detail: "object has already been destroyed",
	}
}

// CallFailed creates an error for a native call that reported failure
func CallFailed(symbol string, code int8, cause error) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindCallError,
		Entity: symbol,
		Detail: fmt.Sprintf("call status %d", code),
		Value:  code,
		Cause:  cause,
	}
}

// Panic creates an error for a native call that panicked
func Panic(symbol, message string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindPanic,
		Entity: symbol,
		Detail: message,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Entity: name,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a model loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a type expression parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// Template creates a rendering error for a fragment
func Template(entity string, cause error) *Error {
	return &Error{
		Phase:  PhaseRender,
		Kind:   KindTemplate,
		Entity: entity,
		Cause:  cause,
	}
}

// Attribute attaches entity to err when it is an *Error without one.
// Other errors are wrapped as generation failures of entity.
func Attribute(err error, entity string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e.WithEntity(entity)
	}
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindInvalidData,
		Entity: entity,
		Cause:  err,
	}
}

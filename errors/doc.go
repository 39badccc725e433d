// Package errors provides structured error types for the binding generator and
// the runtime used by generated Go bindings.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending interface entity, a member path, the logical
// type involved and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLiteral, errors.KindLiteralMismatch).
//		Entity("Point").
//		Path("x").
//		Type("string").
//		Detail("numeric literal on a string field").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unresolved("Person", "RecordAddress")
//	err := errors.ShortBuffer(path, 4, 1)
//
// Generation errors (resolve, literal, metadata, generate phases) are fatal and
// always name an entity. Runtime errors (read, lift, call, runtime phases) are
// returned from generated bindings and can be matched with errors.Is:
//
//	if errors.Is(err, ffi.ErrObjectDisposed) { ... }
package errors

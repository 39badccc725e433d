// Package component models the public API of a native component: functions,
// records, enums, errors, objects and callback interfaces over a closed type
// algebra.
//
// Build an Interface with New from Definitions, or load one from a YAML or
// JSON document with Parse, Load or LoadFile. WIT type definitions can be
// imported with FromWIT. Construction validates names and references,
// rejects types that contain themselves by value, and precomputes the
// metadata bindings need: whether an entity reaches unsigned integers or
// object handles, the inventory of types in use (IterTypes) and the native
// symbol table (FFIFunctions).
//
// Every type has a canonical name, a string that identifies its shape and
// is used to emit helper code once per shape:
//
//	optional<sequence<string>>  OptionalSequencestring
//	map<string, Point>          MapRecordPoint
//
// An Interface is immutable once built and safe for concurrent use.
package component

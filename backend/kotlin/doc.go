// Package kotlin generates Kotlin bindings that reach the native library
// through JNA.
//
// The output is one source file per interface holding the runtime helpers
// (buffers, call status handling, object and callback lifecycles), the JNA
// library interface listing every native symbol, one helper block per type
// shape and one definition per entity. Templates live in templates/ and are
// embedded in the binary.
//
//	files, err := kotlin.New().Generate(ci, backend.Config{PackageName: "com.example.math"})
package kotlin

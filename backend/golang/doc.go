// Package golang generates Go bindings that call the native library through
// the ffi runtime package.
//
// The output is one gofmt-formatted file per interface. It holds a runtime
// section binding the package to an ffi.Library, one codec variable per
// compound type shape and one definition per entity: flat enums become int32
// types, enums with data and errors become sealed interfaces over variant
// structs, objects wrap an ffi.ObjectHandle, and callback interfaces are Go
// interfaces dispatched through an ffi.CallbackRegistry. Every call takes a
// context.Context and returns an error.
//
// Declarations are built with jennifer and rendered fragment by fragment so
// the shared aggregation step can order and deduplicate them.
//
//	files, err := golang.New().Generate(ci, backend.Config{PackageName: "example.com/mathbind"})
package golang

// Package bindgen generates foreign-language bindings for native components
// described by an interface model.
//
// A component exposes functions, objects and callback interfaces over a flat
// C ABI. Arguments and results cross that boundary as scalars or as byte
// buffers in a shared wire format; bindgen renders the code on the foreign
// side that converts idiomatic values to and from that format and manages
// object lifetimes.
//
// # Architecture Overview
//
//	bindgen/             Target registry, concurrent generation and file output
//	├── component/       Interface model: types, entities, loading, validation
//	├── backend/         Shared generator machinery: oracle, aggregation, config
//	│   ├── kotlin/      Kotlin target (JNA)
//	│   └── golang/      Go target (ffi runtime)
//	├── ffi/             Runtime used by generated Go code: wire codecs, calls,
//	│                    object handles and callback dispatch
//	├── resource/        Handle tables for objects and callbacks
//	├── errors/          Structured error types
//	└── cmd/bindgen/     Command line interface
//
// # Quick Start
//
//	ci, err := component.LoadFile("math.yaml")
//	if err != nil {
//	    return err
//	}
//	files, err := bindgen.Generate(ci, "kotlin", backend.Config{PackageName: "com.example.math"})
//	if err != nil {
//	    return err
//	}
//	return bindgen.WriteFiles("out", files)
//
// # Concurrency
//
// Targets hold no mutable state. GenerateAll renders independent jobs in
// parallel and returns their files in job order.
package bindgen

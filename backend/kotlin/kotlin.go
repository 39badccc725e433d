package kotlin

import (
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
)

// baseImports are needed by the runtime fragments of every binding.
var baseImports = []string{
	"com.sun.jna.Library",
	"com.sun.jna.Native",
	"com.sun.jna.Pointer",
	"com.sun.jna.Structure",
	"java.nio.ByteBuffer",
	"java.nio.ByteOrder",
	"java.util.concurrent.atomic.AtomicBoolean",
	"java.util.concurrent.atomic.AtomicLong",
	"java.util.concurrent.locks.ReentrantLock",
	"kotlin.concurrent.withLock",
}

// Target generates a single Kotlin source file using JNA to reach the
// native library.
type Target struct{}

func New() *Target { return &Target{} }

var _ backend.Target = (*Target)(nil)

func (*Target) Name() string { return "kotlin" }

func (*Target) DefaultConfig(ci *component.Interface) backend.Config {
	return backend.Config{
		PackageName: "uniffi." + ci.Namespace(),
		CdylibName:  "uniffi_" + ci.Namespace(),
	}
}

type wrapperData struct {
	Package       string
	Namespace     string
	Cdylib        string
	Imports       []string
	BufferAlloc   string
	BufferFree    string
	BufferReserve string
	FFIFunctions  []component.FFIFunction
	Callbacks     []string
	Fragments     []backend.Fragment
}

// Generate renders the bindings of ci. Unset fields of cfg take the
// target defaults.
func (t *Target) Generate(ci *component.Interface, cfg backend.Config) ([]backend.File, error) {
	cfg = cfg.MergeWith(t.DefaultConfig(ci))
	o := NewOracle(ci)
	if err := backend.CheckCollisions(ci, o); err != nil {
		return nil, err
	}
	plan, err := backend.Aggregate(ci, o, o.Members())
	if err != nil {
		return nil, err
	}

	data := wrapperData{
		Package:       cfg.PackageName,
		Namespace:     ci.Namespace(),
		Cdylib:        cfg.CdylibName,
		Imports:       mergeImports(baseImports, plan.Imports),
		BufferAlloc:   ci.FFIRustBufferAlloc().Name,
		BufferFree:    ci.FFIRustBufferFree().Name,
		BufferReserve: ci.FFIRustBufferReserve().Name,
		FFIFunctions:  ci.FFIFunctions(),
		Fragments:     plan.Fragments(),
	}
	for _, cb := range ci.CallbackInterfaces() {
		data.Callbacks = append(data.Callbacks, "CallbackInterface"+o.ClassName(cb.Name))
	}

	code, err := o.render("wrapper.kt", data)
	if err != nil {
		return nil, err
	}
	file := backend.File{
		Path:     OutputPath(cfg.PackageName, ci.Namespace()),
		Contents: []byte(code),
	}
	backend.Logger().Debug("kotlin bindings rendered",
		zap.String("path", file.Path),
		zap.Int("bytes", len(file.Contents)))
	return []backend.File{file}, nil
}

// OutputPath places the file in the directory of its package.
func OutputPath(pkg, namespace string) string {
	return path.Join(strings.ReplaceAll(pkg, ".", "/"), namespace+".kt")
}

func mergeImports(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, imp := range list {
			if _, ok := seen[imp]; ok {
				continue
			}
			seen[imp] = struct{}{}
			out = append(out, imp)
		}
	}
	sort.Strings(out)
	return out
}

package component

// Symbol names follow one scheme across targets. Buffer management symbols
// and object destructors carry an "ffi_" prefix; API symbols are prefixed with
// the namespace only.

func (ci *Interface) FFIRustBufferAlloc() FFIFunction {
	return FFIFunction{
		Name:      "ffi_" + ci.namespace + "_rustbuffer_alloc",
		Arguments: []FFIArgument{{Name: "size", Type: FFIInt32}},
		Returns:   ffiReturn(FFIRustBuffer),
	}
}

func (ci *Interface) FFIRustBufferFromBytes() FFIFunction {
	return FFIFunction{
		Name:      "ffi_" + ci.namespace + "_rustbuffer_from_bytes",
		Arguments: []FFIArgument{{Name: "bytes", Type: FFIForeignBytes}},
		Returns:   ffiReturn(FFIRustBuffer),
	}
}

func (ci *Interface) FFIRustBufferFree() FFIFunction {
	return FFIFunction{
		Name:      "ffi_" + ci.namespace + "_rustbuffer_free",
		Arguments: []FFIArgument{{Name: "buf", Type: FFIRustBuffer}},
	}
}

func (ci *Interface) FFIRustBufferReserve() FFIFunction {
	return FFIFunction{
		Name: "ffi_" + ci.namespace + "_rustbuffer_reserve",
		Arguments: []FFIArgument{
			{Name: "buf", Type: FFIRustBuffer},
			{Name: "additional", Type: FFIInt32},
		},
		Returns: ffiReturn(FFIRustBuffer),
	}
}

func (ci *Interface) ffiArguments(args []Argument) []FFIArgument {
	out := make([]FFIArgument, 0, len(args))
	for _, a := range args {
		out = append(out, FFIArgument{Name: a.Name, Type: ci.FFIType(a.Type)})
	}
	return out
}

func (ci *Interface) ffiReturns(t *Type) *FFIType {
	if t == nil {
		return nil
	}
	return ffiReturn(ci.FFIType(*t))
}

// deriveFFIFunctions assigns each entity its native symbols and returns the
// full symbol table.
func (ci *Interface) deriveFFIFunctions() []FFIFunction {
	out := []FFIFunction{
		ci.FFIRustBufferAlloc(),
		ci.FFIRustBufferFromBytes(),
		ci.FFIRustBufferFree(),
		ci.FFIRustBufferReserve(),
	}

	for _, f := range ci.functions {
		f.ffi = FFIFunction{
			Name:      ci.namespace + "_" + f.Name,
			Arguments: ci.ffiArguments(f.Arguments),
			Returns:   ci.ffiReturns(f.Returns),
		}
		out = append(out, f.ffi)
	}

	for _, o := range ci.objects {
		o.ffiFree = FFIFunction{
			Name:      "ffi_" + ci.namespace + "_" + o.Name + "_object_free",
			Arguments: []FFIArgument{{Name: "ptr", Type: FFIRustArcPtr}},
		}
		out = append(out, o.ffiFree)

		for i := range o.Constructors {
			c := &o.Constructors[i]
			c.ffi = FFIFunction{
				Name:      ci.namespace + "_" + o.Name + "_" + c.Name,
				Arguments: ci.ffiArguments(c.Arguments),
				Returns:   ffiReturn(FFIRustArcPtr),
			}
			out = append(out, c.ffi)
		}
		for i := range o.Methods {
			m := &o.Methods[i]
			args := append([]FFIArgument{{Name: "ptr", Type: FFIRustArcPtr}}, ci.ffiArguments(m.Arguments)...)
			m.ffi = FFIFunction{
				Name:      ci.namespace + "_" + o.Name + "_" + m.Name,
				Arguments: args,
				Returns:   ci.ffiReturns(m.Returns),
			}
			out = append(out, m.ffi)
		}
	}

	for _, c := range ci.callbackInterfaces {
		c.ffiInit = FFIFunction{
			Name:      "ffi_" + ci.namespace + "_" + c.Name + "_init_callback",
			Arguments: []FFIArgument{{Name: "callback_stub", Type: FFIForeignCallback}},
		}
		out = append(out, c.ffiInit)
	}
	return out
}

package component

// Field is a named member of a record or a variant.
type Field struct {
	Default *Literal
	Name    string
	Type    Type
}

// Argument is a named parameter of a function, constructor or method.
type Argument struct {
	Default *Literal
	Name    string
	Type    Type
}

// Variant is one case of an enum or an error.
type Variant struct {
	Name   string
	Fields []Field
}

// HasFields reports whether the variant carries data.
func (v Variant) HasFields() bool { return len(v.Fields) > 0 }

// metadata is derived once when the interface is built.
type metadata struct {
	unsigned bool
	objects  bool
}

// ContainsUnsignedTypes reports whether any type reachable from the entity
// is an unsigned integer.
func (m metadata) ContainsUnsignedTypes() bool { return m.unsigned }

// ContainsObjectReferences reports whether any type reachable from the
// entity is an object handle.
func (m metadata) ContainsObjectReferences() bool { return m.objects }

// Enum is a closed set of variants. A flat enum has no variant with fields.
type Enum struct {
	metadata
	Name     string
	Variants []Variant
}

func (e *Enum) Type() Type { return EnumNamed(e.Name) }

// IsFlat reports whether no variant carries data.
func (e *Enum) IsFlat() bool {
	for _, v := range e.Variants {
		if v.HasFields() {
			return false
		}
	}
	return true
}

// Variant returns the variant named name and its 1-based discriminant.
func (e *Enum) Variant(name string) (Variant, int32, bool) {
	return findVariant(e.Variants, name)
}

// Record is a product of named fields.
type Record struct {
	metadata
	Name   string
	Fields []Field
}

func (r *Record) Type() Type { return RecordNamed(r.Name) }

// Error is an enum whose values are thrown rather than returned.
type Error struct {
	metadata
	Name     string
	Variants []Variant
}

func (e *Error) Type() Type { return ErrorNamed(e.Name) }

// IsFlat reports whether no variant carries data.
func (e *Error) IsFlat() bool {
	for _, v := range e.Variants {
		if v.HasFields() {
			return false
		}
	}
	return true
}

// Variant returns the variant named name and its 1-based discriminant.
func (e *Error) Variant(name string) (Variant, int32, bool) {
	return findVariant(e.Variants, name)
}

func findVariant(variants []Variant, name string) (Variant, int32, bool) {
	for i, v := range variants {
		if v.Name == name {
			return v, int32(i + 1), true
		}
	}
	return Variant{}, 0, false
}

// Function is a namespace-level function.
type Function struct {
	metadata
	Returns   *Type
	ffi       FFIFunction
	Name      string
	Throws    string
	Arguments []Argument
}

// ThrowsType returns the error type the function may raise.
func (f *Function) ThrowsType() (Type, bool) { return throwsType(f.Throws) }

// FFIFunc returns the native symbol backing the function.
func (f *Function) FFIFunc() FFIFunction { return f.ffi }

// Constructor creates an object instance.
type Constructor struct {
	ffi       FFIFunction
	Name      string
	Throws    string
	Arguments []Argument
}

func (c *Constructor) ThrowsType() (Type, bool) { return throwsType(c.Throws) }
func (c *Constructor) FFIFunc() FFIFunction     { return c.ffi }

// IsPrimary reports whether this is the default constructor "new".
func (c *Constructor) IsPrimary() bool { return c.Name == "new" }

// Method is an operation on an object or a callback interface. Methods of
// callback interfaces are implemented by the foreign side and have no
// native symbol.
type Method struct {
	Returns   *Type
	ffi       FFIFunction
	Name      string
	Throws    string
	Arguments []Argument
}

func (m *Method) ThrowsType() (Type, bool) { return throwsType(m.Throws) }
func (m *Method) FFIFunc() FFIFunction     { return m.ffi }

// Object is a native object accessed through a handle.
type Object struct {
	metadata
	ffiFree      FFIFunction
	Name         string
	Constructors []Constructor
	Methods      []Method
}

func (o *Object) Type() Type { return ObjectNamed(o.Name) }

// FFIObjectFree returns the symbol that releases a native instance.
func (o *Object) FFIObjectFree() FFIFunction { return o.ffiFree }

// PrimaryConstructor returns the "new" constructor, if declared.
func (o *Object) PrimaryConstructor() (*Constructor, bool) {
	for i := range o.Constructors {
		if o.Constructors[i].IsPrimary() {
			return &o.Constructors[i], true
		}
	}
	return nil, false
}

// CallbackInterface is an interface implemented by the foreign language and
// invoked from native code.
type CallbackInterface struct {
	metadata
	ffiInit FFIFunction
	Name    string
	Methods []Method
}

func (c *CallbackInterface) Type() Type { return CallbackInterfaceNamed(c.Name) }

// FFIInitCallback returns the symbol that registers the dispatch function.
func (c *CallbackInterface) FFIInitCallback() FFIFunction { return c.ffiInit }

func throwsType(name string) (Type, bool) {
	if name == "" {
		return Type{}, false
	}
	return ErrorNamed(name), true
}

func argumentTypes(args []Argument) []Type {
	out := make([]Type, 0, len(args))
	for _, a := range args {
		out = append(out, a.Type)
	}
	return out
}

func fieldTypes(fields []Field) []Type {
	out := make([]Type, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Type)
	}
	return out
}

func variantTypes(variants []Variant) []Type {
	var out []Type
	for _, v := range variants {
		out = append(out, fieldTypes(v.Fields)...)
	}
	return out
}

func signatureTypes(args []Argument, returns *Type, throws string) []Type {
	out := argumentTypes(args)
	if returns != nil {
		out = append(out, *returns)
	}
	if t, ok := throwsType(throws); ok {
		out = append(out, t)
	}
	return out
}

// memberTypes lists the types an entity mentions directly, in declaration
// order.
func (e *Enum) memberTypes() []Type   { return variantTypes(e.Variants) }
func (r *Record) memberTypes() []Type { return fieldTypes(r.Fields) }
func (e *Error) memberTypes() []Type  { return variantTypes(e.Variants) }

func (f *Function) memberTypes() []Type {
	return signatureTypes(f.Arguments, f.Returns, f.Throws)
}

func (o *Object) memberTypes() []Type {
	var out []Type
	for _, c := range o.Constructors {
		out = append(out, signatureTypes(c.Arguments, nil, c.Throws)...)
	}
	for _, m := range o.Methods {
		out = append(out, signatureTypes(m.Arguments, m.Returns, m.Throws)...)
	}
	return out
}

func (c *CallbackInterface) memberTypes() []Type {
	var out []Type
	for _, m := range c.Methods {
		out = append(out, signatureTypes(m.Arguments, m.Returns, m.Throws)...)
	}
	return out
}

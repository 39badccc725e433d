package component

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/ffi-bindgen/errors"
)

// document is the on-disk shape of an interface model. JSON documents are
// accepted since JSON is a YAML subset.
type document struct {
	Namespace          string        `yaml:"namespace"`
	Functions          []functionDoc `yaml:"functions"`
	Enums              []enumDoc     `yaml:"enums"`
	Records            []recordDoc   `yaml:"records"`
	Errors             []enumDoc     `yaml:"errors"`
	Objects            []objectDoc   `yaml:"objects"`
	CallbackInterfaces []callbackDoc `yaml:"callback_interfaces"`
}

type fieldDoc struct {
	Name    string    `yaml:"name"`
	Type    string    `yaml:"type"`
	Default yaml.Node `yaml:"default"`
}

type variantDoc struct {
	Name   string     `yaml:"name"`
	Fields []fieldDoc `yaml:"fields"`
}

// UnmarshalYAML accepts a bare variant name as shorthand for a variant
// without fields.
func (v *variantDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v.Name = node.Value
		return nil
	}
	type plain variantDoc
	return node.Decode((*plain)(v))
}

type enumDoc struct {
	Name     string       `yaml:"name"`
	Variants []variantDoc `yaml:"variants"`
}

type recordDoc struct {
	Name   string     `yaml:"name"`
	Fields []fieldDoc `yaml:"fields"`
}

type functionDoc struct {
	Name      string     `yaml:"name"`
	Arguments []fieldDoc `yaml:"arguments"`
	Returns   string     `yaml:"returns"`
	Throws    string     `yaml:"throws"`
}

type objectDoc struct {
	Name         string        `yaml:"name"`
	Constructors []functionDoc `yaml:"constructors"`
	Methods      []functionDoc `yaml:"methods"`
}

type callbackDoc struct {
	Name    string        `yaml:"name"`
	Methods []functionDoc `yaml:"methods"`
}

// LoadFile reads and builds the interface model stored at path.
func LoadFile(path string) (*Interface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	ci, err := Parse(data)
	if err != nil {
		return nil, errors.Load(path, err)
	}
	return ci, nil
}

// Load reads an interface model from r.
func Load(r io.Reader) (*Interface, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Load("read model", err)
	}
	return Parse(data)
}

// Parse builds an interface from a YAML or JSON model document. Unknown keys
// are rejected.
func Parse(data []byte) (*Interface, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidInput(errors.PhaseLoad, "empty model document")
		}
		return nil, errors.ParseFailed("model document", err)
	}
	defs, err := doc.definitions()
	if err != nil {
		return nil, err
	}
	return New(defs)
}

func (d *document) definitions() (Definitions, error) {
	kinds := make(map[string]Kind)
	for _, e := range d.Enums {
		kinds[e.Name] = KindEnum
	}
	for _, r := range d.Records {
		kinds[r.Name] = KindRecord
	}
	for _, e := range d.Errors {
		kinds[e.Name] = KindError
	}
	for _, o := range d.Objects {
		kinds[o.Name] = KindObject
	}
	for _, c := range d.CallbackInterfaces {
		kinds[c.Name] = KindCallbackInterface
	}
	b := &builder{resolve: func(name string) (Kind, bool) {
		k, ok := kinds[name]
		return k, ok
	}}

	defs := Definitions{Namespace: d.Namespace}
	for _, e := range d.Enums {
		vs, err := b.variants(e.Name, e.Variants)
		if err != nil {
			return Definitions{}, err
		}
		defs.Enums = append(defs.Enums, Enum{Name: e.Name, Variants: vs})
	}
	for _, r := range d.Records {
		fs, err := b.fields(r.Name, r.Fields)
		if err != nil {
			return Definitions{}, err
		}
		defs.Records = append(defs.Records, Record{Name: r.Name, Fields: fs})
	}
	for _, e := range d.Errors {
		vs, err := b.variants(e.Name, e.Variants)
		if err != nil {
			return Definitions{}, err
		}
		defs.Errors = append(defs.Errors, Error{Name: e.Name, Variants: vs})
	}
	for _, f := range d.Functions {
		args, returns, err := b.signature(f.Name, f)
		if err != nil {
			return Definitions{}, err
		}
		defs.Functions = append(defs.Functions, Function{
			Name:      f.Name,
			Arguments: args,
			Returns:   returns,
			Throws:    f.Throws,
		})
	}
	for _, o := range d.Objects {
		obj := Object{Name: o.Name}
		for _, c := range o.Constructors {
			if c.Returns != "" {
				return Definitions{}, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
					Entity(o.Name).
					Path(c.Name).
					Detail("constructors cannot declare a return type").
					Build()
			}
			args, _, err := b.signature(o.Name, c)
			if err != nil {
				return Definitions{}, err
			}
			obj.Constructors = append(obj.Constructors, Constructor{Name: c.Name, Arguments: args, Throws: c.Throws})
		}
		ms, err := b.methods(o.Name, o.Methods)
		if err != nil {
			return Definitions{}, err
		}
		obj.Methods = ms
		defs.Objects = append(defs.Objects, obj)
	}
	for _, c := range d.CallbackInterfaces {
		ms, err := b.methods(c.Name, c.Methods)
		if err != nil {
			return Definitions{}, err
		}
		defs.CallbackInterfaces = append(defs.CallbackInterfaces, CallbackInterface{Name: c.Name, Methods: ms})
	}
	return defs, nil
}

type builder struct {
	resolve Resolver
}

func (b *builder) typ(entity string, path []string, expr string) (Type, error) {
	t, err := ParseType(expr, b.resolve)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e = e.WithEntity(entity)
			e.Path = path
			return Type{}, e
		}
		return Type{}, err
	}
	return t, nil
}

func (b *builder) fields(entity string, docs []fieldDoc) ([]Field, error) {
	out := make([]Field, 0, len(docs))
	for _, fd := range docs {
		t, err := b.typ(entity, []string{fd.Name}, fd.Type)
		if err != nil {
			return nil, err
		}
		def, err := defaultLiteral(entity, fd.Name, &fd.Default, t)
		if err != nil {
			return nil, err
		}
		out = append(out, Field{Name: fd.Name, Type: t, Default: def})
	}
	return out, nil
}

func (b *builder) variants(entity string, docs []variantDoc) ([]Variant, error) {
	out := make([]Variant, 0, len(docs))
	for _, vd := range docs {
		fs, err := b.fields(entity, vd.Fields)
		if err != nil {
			return nil, err
		}
		out = append(out, Variant{Name: vd.Name, Fields: fs})
	}
	return out, nil
}

func (b *builder) signature(entity string, fd functionDoc) ([]Argument, *Type, error) {
	fs, err := b.fields(entity, fd.Arguments)
	if err != nil {
		return nil, nil, err
	}
	args := make([]Argument, 0, len(fs))
	for _, f := range fs {
		args = append(args, Argument{Name: f.Name, Type: f.Type, Default: f.Default})
	}
	if fd.Returns == "" {
		return args, nil, nil
	}
	ret, err := b.typ(entity, []string{fd.Name}, fd.Returns)
	if err != nil {
		return nil, nil, err
	}
	return args, &ret, nil
}

func (b *builder) methods(entity string, docs []functionDoc) ([]Method, error) {
	out := make([]Method, 0, len(docs))
	for _, md := range docs {
		args, returns, err := b.signature(entity, md)
		if err != nil {
			return nil, err
		}
		out = append(out, Method{Name: md.Name, Arguments: args, Returns: returns, Throws: md.Throws})
	}
	return out, nil
}

// defaultLiteral converts a YAML default value into a literal for type t.
// The node tag decides the literal variant; numeric text keeps its radix. An
// explicit null is kept as a null literal; an absent key has no default.
func defaultLiteral(entity, field string, node *yaml.Node, t Type) (*Literal, error) {
	if node.IsZero() {
		return nil, nil
	}
	mismatch := func() error {
		return errors.New(errors.PhaseLiteral, errors.KindLiteralMismatch).
			Entity(entity).
			Path(field).
			Type(t.String()).
			Value(node.Value).
			Detail("default %q cannot have this type", node.Value).
			Build()
	}

	switch node.Kind {
	case yaml.SequenceNode:
		if len(node.Content) != 0 {
			return nil, errors.Unsupported(errors.PhaseLoad, "non-empty sequence default")
		}
		lit := EmptySequenceLiteral()
		return &lit, nil
	case yaml.MappingNode:
		if len(node.Content) != 0 {
			return nil, errors.Unsupported(errors.PhaseLoad, "non-empty map default")
		}
		lit := EmptyMapLiteral()
		return &lit, nil
	case yaml.ScalarNode:
	default:
		return nil, mismatch()
	}

	if node.ShortTag() == "!!null" {
		lit := NullLiteral()
		return &lit, nil
	}

	target := t
	for target.kind == KindOptional {
		target = *target.inner
	}

	var (
		lit Literal
		err error
	)
	switch tag := node.ShortTag(); {
	case tag == "!!bool":
		v, perr := strconv.ParseBool(node.Value)
		if perr != nil {
			return nil, mismatch()
		}
		lit = BooleanLiteral(v)
	case target.kind.IsInteger():
		if tag != "!!int" {
			return nil, mismatch()
		}
		lit, err = ParseIntegerLiteral(node.Value, target)
	case target.kind.IsFloat():
		if tag != "!!int" && tag != "!!float" {
			return nil, mismatch()
		}
		lit, err = ParseFloatLiteral(node.Value, target)
	case tag == "!!int" || tag == "!!float":
		return nil, mismatch()
	case target.kind == KindEnum:
		lit = EnumLiteral(node.Value, target)
	default:
		lit = StringLiteral(node.Value)
	}
	if err != nil {
		return nil, errors.Attribute(err, entity)
	}
	if err := lit.Check(t); err != nil {
		return nil, errors.Attribute(err, entity)
	}
	return &lit, nil
}

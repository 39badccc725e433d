package component

import (
	"math"
	"strconv"

	"github.com/wippyai/ffi-bindgen/errors"
)

// Radix records how a numeric literal was written in the model.
type Radix uint8

const (
	Decimal Radix = iota
	Octal
	Hexadecimal
)

func (r Radix) String() string {
	switch r {
	case Octal:
		return "octal"
	case Hexadecimal:
		return "hexadecimal"
	default:
		return "decimal"
	}
}

// LiteralKind identifies a literal variant.
type LiteralKind uint8

const (
	LiteralBoolean LiteralKind = iota + 1
	LiteralString
	LiteralNull
	LiteralEmptySequence
	LiteralEmptyMap
	LiteralEnum
	LiteralInt
	LiteralUInt
	LiteralFloat
)

var literalKindNames = [...]string{
	LiteralBoolean:       "boolean",
	LiteralString:        "string",
	LiteralNull:          "null",
	LiteralEmptySequence: "empty sequence",
	LiteralEmptyMap:      "empty map",
	LiteralEnum:          "enum",
	LiteralInt:           "int",
	LiteralUInt:          "uint",
	LiteralFloat:         "float",
}

func (k LiteralKind) String() string {
	if int(k) < len(literalKindNames) && literalKindNames[k] != "" {
		return literalKindNames[k]
	}
	return "unknown"
}

// Literal is a typed constant used for field and argument defaults.
// Numeric and enum literals carry the type they were declared with.
type Literal struct {
	typ   Type
	text  string
	i     int64
	u     uint64
	kind  LiteralKind
	radix Radix
	b     bool
}

func BooleanLiteral(v bool) Literal  { return Literal{kind: LiteralBoolean, b: v} }
func StringLiteral(v string) Literal { return Literal{kind: LiteralString, text: v} }
func NullLiteral() Literal           { return Literal{kind: LiteralNull} }
func EmptySequenceLiteral() Literal  { return Literal{kind: LiteralEmptySequence} }
func EmptyMapLiteral() Literal       { return Literal{kind: LiteralEmptyMap} }

// EnumLiteral names variant of the enum type t.
func EnumLiteral(variant string, t Type) Literal {
	return Literal{kind: LiteralEnum, text: variant, typ: t}
}

// IntLiteral is a signed integer written in radix r for numeric type t.
func IntLiteral(v int64, r Radix, t Type) Literal {
	return Literal{kind: LiteralInt, i: v, radix: r, typ: t}
}

// UIntLiteral is an unsigned integer written in radix r for numeric type t.
func UIntLiteral(v uint64, r Radix, t Type) Literal {
	return Literal{kind: LiteralUInt, u: v, radix: r, typ: t}
}

// FloatLiteral keeps the source text of a float so rendering is exact.
func FloatLiteral(text string, t Type) Literal {
	return Literal{kind: LiteralFloat, text: text, typ: t}
}

func (l Literal) Kind() LiteralKind { return l.kind }
func (l Literal) Type() Type        { return l.typ }
func (l Literal) Radix() Radix      { return l.radix }
func (l Literal) Bool() bool        { return l.b }
func (l Literal) Int() int64        { return l.i }
func (l Literal) UInt() uint64      { return l.u }

// Text returns the string value, the enum variant or the float text.
func (l Literal) Text() string { return l.text }

func (l Literal) String() string {
	switch l.kind {
	case LiteralBoolean:
		return strconv.FormatBool(l.b)
	case LiteralString:
		return strconv.Quote(l.text)
	case LiteralNull:
		return "null"
	case LiteralEmptySequence:
		return "[]"
	case LiteralEmptyMap:
		return "{}"
	case LiteralEnum:
		return l.typ.Name() + "." + l.text
	case LiteralInt, LiteralUInt:
		return l.FormatInteger()
	case LiteralFloat:
		return l.text
	}
	return "<invalid literal>"
}

// FormatInteger renders the magnitude of a numeric literal in its radix.
// Decimal stays decimal; octal and hexadecimal both use a 0x prefix, so
// generated sources never depend on a target's octal syntax.
func (l Literal) FormatInteger() string {
	switch l.kind {
	case LiteralInt:
		if l.i < 0 {
			return formatRadix(uint64(-l.i), true, l.radix)
		}
		return formatRadix(uint64(l.i), false, l.radix)
	case LiteralUInt:
		return formatRadix(l.u, false, l.radix)
	}
	return l.text
}

func formatRadix(mag uint64, neg bool, r Radix) string {
	var s string
	if r == Decimal {
		s = strconv.FormatUint(mag, 10)
	} else {
		s = "0x" + strconv.FormatUint(mag, 16)
	}
	if neg {
		return "-" + s
	}
	return s
}

// Validate checks the literal's own consistency: numeric literals must carry a
// numeric type wide enough for their value.
func (l Literal) Validate() error {
	switch l.kind {
	case LiteralInt, LiteralUInt:
		if !l.typ.Kind().IsInteger() {
			return errors.LiteralMismatch("", l.typ.String(), l.String())
		}
		if !l.fits() {
			return errors.Overflow(errors.PhaseLiteral, nil, l.String(), l.typ.String())
		}
	case LiteralFloat:
		if !l.typ.Kind().IsFloat() {
			return errors.LiteralMismatch("", l.typ.String(), l.String())
		}
		if _, err := strconv.ParseFloat(l.text, 64); err != nil {
			return errors.New(errors.PhaseLiteral, errors.KindLiteralMismatch).
				Type(l.typ.String()).
				Detail("malformed float %q", l.text).
				Cause(err).
				Build()
		}
	case LiteralEnum:
		if l.typ.Kind() != KindEnum {
			return errors.LiteralMismatch("", l.typ.String(), l.String())
		}
	case LiteralBoolean, LiteralString, LiteralNull, LiteralEmptySequence, LiteralEmptyMap:
	default:
		return errors.InvalidInput(errors.PhaseLiteral, "invalid literal")
	}
	return nil
}

// Check reports whether the literal may default a member of type t.
// Optional members accept null or a literal for their inner type.
func (l Literal) Check(t Type) error {
	if err := l.Validate(); err != nil {
		return err
	}
	mismatch := func() error {
		return errors.LiteralMismatch("", t.String(), l.String())
	}

	switch l.kind {
	case LiteralNull:
		if t.Kind() != KindOptional {
			return mismatch()
		}
		return nil
	case LiteralEmptySequence:
		if t.Kind() != KindSequence {
			return mismatch()
		}
		return nil
	case LiteralEmptyMap:
		if t.Kind() != KindMap {
			return mismatch()
		}
		return nil
	}

	if t.Kind() == KindOptional {
		inner, _ := t.Inner()
		return l.Check(inner)
	}

	switch l.kind {
	case LiteralBoolean:
		if t.Kind() != KindBool {
			return mismatch()
		}
	case LiteralString:
		if t.Kind() != KindString {
			return mismatch()
		}
	case LiteralEnum, LiteralInt, LiteralUInt, LiteralFloat:
		if !l.typ.Equal(t) {
			return mismatch()
		}
	}
	return nil
}

func (l Literal) fits() bool {
	bits := l.typ.Kind().Bits()
	if l.kind == LiteralUInt {
		if l.typ.IsUnsigned() {
			return bits == 64 || l.u <= uint64(1)<<bits-1
		}
		return l.u <= uint64(1)<<(bits-1)-1
	}
	if l.typ.IsUnsigned() {
		return l.i >= 0 && (bits == 64 || uint64(l.i) <= uint64(1)<<bits-1)
	}
	if bits == 64 {
		return true
	}
	limit := int64(1) << (bits - 1)
	return l.i >= -limit && l.i < limit
}

// ParseFloatLiteral parses text for use as a float literal of type t.
func ParseFloatLiteral(text string, t Type) (Literal, error) {
	bits := t.Kind().Bits()
	if !t.Kind().IsFloat() {
		return Literal{}, errors.LiteralMismatch("", t.String(), text)
	}
	v, err := strconv.ParseFloat(text, bits)
	if err != nil || math.IsInf(v, 0) {
		return Literal{}, errors.New(errors.PhaseLiteral, errors.KindLiteralMismatch).
			Type(t.String()).
			Detail("malformed float %q", text).
			Cause(err).
			Build()
	}
	return FloatLiteral(text, t), nil
}

// ParseIntegerLiteral parses text written in decimal, 0x hexadecimal or
// 0o / leading-zero octal for integer type t, keeping the radix.
func ParseIntegerLiteral(text string, t Type) (Literal, error) {
	if !t.Kind().IsInteger() {
		return Literal{}, errors.LiteralMismatch("", t.String(), text)
	}
	neg := false
	digits := text
	switch {
	case len(digits) > 0 && digits[0] == '-':
		neg = true
		digits = digits[1:]
	case len(digits) > 0 && digits[0] == '+':
		digits = digits[1:]
	}

	radix, base := Decimal, 10
	switch {
	case len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X"):
		radix, base, digits = Hexadecimal, 16, digits[2:]
	case len(digits) > 2 && (digits[:2] == "0o" || digits[:2] == "0O"):
		radix, base, digits = Octal, 8, digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		radix, base, digits = Octal, 8, digits[1:]
	}

	mag, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return Literal{}, errors.New(errors.PhaseLiteral, errors.KindLiteralMismatch).
			Type(t.String()).
			Detail("malformed integer %q", text).
			Cause(err).
			Build()
	}

	var lit Literal
	switch {
	case t.IsUnsigned():
		if neg {
			return Literal{}, errors.Overflow(errors.PhaseLiteral, nil, text, t.String())
		}
		lit = UIntLiteral(mag, radix, t)
	case neg:
		if mag > uint64(math.MaxInt64)+1 {
			return Literal{}, errors.Overflow(errors.PhaseLiteral, nil, text, t.String())
		}
		lit = IntLiteral(int64(-mag), radix, t)
	default:
		if mag > math.MaxInt64 {
			return Literal{}, errors.Overflow(errors.PhaseLiteral, nil, text, t.String())
		}
		lit = IntLiteral(int64(mag), radix, t)
	}
	if err := lit.Validate(); err != nil {
		return Literal{}, err
	}
	return lit, nil
}

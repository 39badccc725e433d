package kotlin

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// typedNumber appends the suffix Kotlin needs to give a numeric literal the
// declared type. Byte, Short and Int are inferred from the context.
func typedNumber(t component.Type, num string) (string, error) {
	switch t.Kind() {
	case component.KindInt8, component.KindInt16, component.KindInt32, component.KindFloat64:
		return num, nil
	case component.KindInt64:
		return num + "L", nil
	case component.KindUInt8, component.KindUInt16, component.KindUInt32:
		return num + "u", nil
	case component.KindUInt64:
		return num + "uL", nil
	case component.KindFloat32:
		return num + "f", nil
	}
	return "", errors.LiteralMismatch("", t.String(), num)
}

// numberLiteral renders an int, uint or float literal checked against t.
func numberLiteral(t component.Type, l component.Literal) (string, error) {
	if err := l.Check(t); err != nil {
		return "", err
	}
	switch l.Kind() {
	case component.LiteralInt, component.LiteralUInt:
		if name, ok := minimum(t, l); ok {
			return name, nil
		}
		return typedNumber(t, l.FormatInteger())
	case component.LiteralFloat:
		return typedNumber(t, floatText(l.Text()))
	}
	return "", errors.LiteralMismatch("", t.String(), l.String())
}

// minimum names the smallest Int and Long. Kotlin reads their magnitude as
// a literal of the next wider type, so the negated form does not compile.
func minimum(t component.Type, l component.Literal) (string, bool) {
	if l.Kind() != component.LiteralInt {
		return "", false
	}
	switch {
	case t.Kind() == component.KindInt32 && l.Int() == math.MinInt32:
		return "Int.MIN_VALUE", true
	case t.Kind() == component.KindInt64 && l.Int() == math.MinInt64:
		return "Long.MIN_VALUE", true
	}
	return "", false
}

// floatText gives integral float text a fraction; Kotlin types "1" as Int.
func floatText(s string) string {
	digits := strings.TrimLeft(s, "+-")
	if digits == "" {
		return s
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return s
		}
	}
	return s + ".0"
}

// quote renders s as a Kotlin string literal. "$" starts a string template
// in Kotlin and is escaped as well.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '$':
			b.WriteString(`\$`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		default:
			if r < 0x20 || !unicode.IsPrint(r) {
				if r > 0xffff {
					hi, lo := utf16Pair(r)
					fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
				} else {
					fmt.Fprintf(&b, `\u%04x`, r)
				}
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func utf16Pair(r rune) (rune, rune) {
	r -= 0x10000
	return 0xd800 + (r>>10)&0x3ff, 0xdc00 + r&0x3ff
}

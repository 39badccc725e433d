package golang

import (
	"strconv"

	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

// scalarLiteral renders numbers and bools as untyped constants; the field
// or argument they initialize supplies the type.
func scalarLiteral(t component.Type, l component.Literal) (string, error) {
	if err := l.Check(t); err != nil {
		return "", err
	}
	switch l.Kind() {
	case component.LiteralBoolean:
		return strconv.FormatBool(l.Bool()), nil
	case component.LiteralInt, component.LiteralUInt:
		return l.FormatInteger(), nil
	case component.LiteralFloat:
		return l.Text(), nil
	}
	return "", errors.LiteralMismatch("", t.String(), l.String())
}

func stringLiteral(l component.Literal) (string, error) {
	if err := l.Check(component.String()); err != nil {
		return "", err
	}
	return strconv.Quote(l.Text()), nil
}

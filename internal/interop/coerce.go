package interop

import (
	"fmt"
	"unicode/utf16"

	"github.com/spf13/cast"
	"go.dw1.io/safemath"

	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

// integer matches types that are both cast.Basic and safemath.Integer.
type integer interface {
	cast.Basic
	safemath.Integer
}

// toInteger converts a host value to I. Integer inputs in a checked context go
// through safemath; everything else (strings, floats, unchecked) through cast.
func toInteger[I integer](v any, checked bool) (I, error) {
	if checked && isIntVal(v) {
		return safemath.ConvertAny[I](v)
	}
	return cast.ToE[I](v)
}

func isIntVal(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return true
	default:
		return false
	}
}

func signed[I integer](v any, t *typesystem.Type, checked bool) (object.Object, error) {
	n, err := toInteger[I](v, checked)
	if err != nil {
		return nil, err
	}
	return object.NewInteger(t, int64(n)), nil
}

func unsigned[I integer](v any, t *typesystem.Type, checked bool) (object.Object, error) {
	n, err := toInteger[I](v, checked)
	if err != nil {
		return nil, err
	}
	return object.NewUnsigned(t, uint64(n)), nil
}

// coerceNumber converts a host value to a numeric or char object of type t.
func coerceNumber(v any, t *typesystem.Type, checked bool) (object.Object, error) {
	switch t.Num {
	case typesystem.NumInt8:
		return signed[int8](v, t, checked)
	case typesystem.NumInt16:
		return signed[int16](v, t, checked)
	case typesystem.NumInt32:
		return signed[int32](v, t, checked)
	case typesystem.NumInt64:
		return signed[int64](v, t, checked)
	case typesystem.NumUInt8:
		return unsigned[uint8](v, t, checked)
	case typesystem.NumUInt16:
		return unsigned[uint16](v, t, checked)
	case typesystem.NumUInt32:
		return unsigned[uint32](v, t, checked)
	case typesystem.NumUInt64:
		return unsigned[uint64](v, t, checked)
	case typesystem.NumFloat32, typesystem.NumFloat64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		return object.NewFloat(t, f), nil
	case typesystem.NumChar:
		if s, ok := v.(string); ok {
			units := utf16.Encode([]rune(s))
			if len(units) != 1 {
				return nil, fmt.Errorf("%q is not a single UTF-16 code unit", s)
			}
			return object.NewChar(units[0]), nil
		}
		n, err := toInteger[uint16](v, checked)
		if err != nil {
			return nil, err
		}
		return object.NewChar(n), nil
	}
	return nil, fmt.Errorf("%s is not numeric", t)
}

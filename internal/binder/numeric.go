package binder

import (
	"fmt"
	"math"

	"go.dw1.io/safemath"

	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

// convertNumeric converts a numeric or char value to the numeric type to.
// In a checked context an integral result that does not fit raises *OverflowError;
// otherwise the value wraps to the width of the target.
func convertNumeric(v object.Object, to *typesystem.Type, checked bool) (object.Object, error) {
	raw, ok := object.Raw(v)
	if !ok {
		return nil, NewInvalidCastError(v.RuntimeType(), to)
	}

	var (
		result any
		err    error
	)
	switch to.Num {
	case typesystem.NumFloat32, typesystem.NumFloat64:
		return object.NewFloat(to, toFloat(raw)), nil
	case typesystem.NumInt8:
		result, err = widen[int8, int64](raw, to.Num, checked)
	case typesystem.NumInt16:
		result, err = widen[int16, int64](raw, to.Num, checked)
	case typesystem.NumInt32:
		result, err = widen[int32, int64](raw, to.Num, checked)
	case typesystem.NumInt64:
		result, err = widen[int64, int64](raw, to.Num, checked)
	case typesystem.NumUInt8:
		result, err = widen[uint8, uint64](raw, to.Num, checked)
	case typesystem.NumUInt16:
		result, err = widen[uint16, uint64](raw, to.Num, checked)
	case typesystem.NumUInt32:
		result, err = widen[uint32, uint64](raw, to.Num, checked)
	case typesystem.NumUInt64:
		result, err = widen[uint64, uint64](raw, to.Num, checked)
	case typesystem.NumChar:
		var c uint16
		c, err = toIntegral[uint16](raw, to.Num, checked)
		result = c
	default:
		return nil, NewInvalidCastError(v.RuntimeType(), to)
	}
	if err != nil {
		return nil, NewOverflowError(v.Inspect(), v.RuntimeType(), to, err)
	}
	return object.NewNumber(to, result)
}

// widen converts raw to I and stores it in the object payload type W.
func widen[I, W safemath.Integer](raw any, num typesystem.NumKind, checked bool) (any, error) {
	n, err := toIntegral[I](raw, num, checked)
	if err != nil {
		return nil, err
	}
	return W(n), nil
}

func toIntegral[I safemath.Integer](raw any, num typesystem.NumKind, checked bool) (I, error) {
	if f, ok := raw.(float64); ok {
		t := math.Trunc(f)
		if !floatFits(t, num) {
			if checked {
				return 0, fmt.Errorf("%g: %w", f, safemath.ErrTruncation)
			}
			raw = outOfRange(t)
		} else if t < 0 {
			raw = int64(t)
		} else {
			raw = uint64(t)
		}
	}
	if checked {
		return safemath.ConvertAny[I](raw)
	}
	return wrapInteger[I](raw), nil
}

func wrapInteger[I safemath.Integer](raw any) I {
	switch x := raw.(type) {
	case int64:
		return I(x)
	case uint64:
		return I(x)
	case uint16:
		return I(x)
	}
	return 0
}

// floatFits reports whether the truncated value t is representable in num.
func floatFits(t float64, num typesystem.NumKind) bool {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return false
	}
	bits := num.Bits()
	if num.Signed() {
		limit := math.Ldexp(1, bits-1)
		return t >= -limit && t < limit
	}
	return t > -1 && t < math.Ldexp(1, bits)
}

// outOfRange maps an unrepresentable float for an unchecked conversion.
// Values that still fit 64 bits wrap like integers; everything else is zero.
func outOfRange(t float64) any {
	switch {
	case floatFits(t, typesystem.NumInt64):
		return int64(t)
	case floatFits(t, typesystem.NumUInt64):
		return uint64(t)
	}
	return int64(0)
}

func toFloat(raw any) float64 {
	switch x := raw.(type) {
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case uint16:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

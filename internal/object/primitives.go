package object

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"

	"github.com/funvibe/dynconv/internal/typesystem"
)

// Integer holds any signed integral type. Value is always within the range of T.
type Integer struct {
	T     *typesystem.Type
	Value int64
}

func NewInteger(t *typesystem.Type, v int64) *Integer { return &Integer{T: t, Value: v} }

func (i *Integer) Type() ObjectType              { return INTEGER_OBJ }
func (i *Integer) Inspect() string               { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) RuntimeType() *typesystem.Type { return i.T }
func (i *Integer) Hash() uint32                  { return uint32(i.Value ^ (i.Value >> 32)) }

// Unsigned holds any unsigned integral type.
type Unsigned struct {
	T     *typesystem.Type
	Value uint64
}

func NewUnsigned(t *typesystem.Type, v uint64) *Unsigned { return &Unsigned{T: t, Value: v} }

func (u *Unsigned) Type() ObjectType              { return UNSIGNED_OBJ }
func (u *Unsigned) Inspect() string               { return strconv.FormatUint(u.Value, 10) }
func (u *Unsigned) RuntimeType() *typesystem.Type { return u.T }
func (u *Unsigned) Hash() uint32                  { return uint32(u.Value ^ (u.Value >> 32)) }

// Float holds Float32 or Float64. Float32 values are stored already rounded.
type Float struct {
	T     *typesystem.Type
	Value float64
}

func NewFloat(t *typesystem.Type, v float64) *Float {
	if t == typesystem.Float32 {
		v = float64(float32(v))
	}
	return &Float{T: t, Value: v}
}

func (f *Float) Type() ObjectType              { return FLOAT_OBJ }
func (f *Float) Inspect() string               { return fmt.Sprintf("%g", f.Value) }
func (f *Float) RuntimeType() *typesystem.Type { return f.T }
func (f *Float) Hash() uint32 {
	bits := math.Float64bits(f.Value)
	return uint32(bits ^ (bits >> 32))
}

// Char is a UTF-16 code unit.
type Char struct {
	Value uint16
}

func NewChar(v uint16) *Char { return &Char{Value: v} }

func (c *Char) Type() ObjectType              { return CHAR_OBJ }
func (c *Char) RuntimeType() *typesystem.Type { return typesystem.Char }
func (c *Char) Hash() uint32                  { return uint32(c.Value) }
func (c *Char) Inspect() string {
	if utf16.IsSurrogate(rune(c.Value)) {
		return fmt.Sprintf("'\\u%04x'", c.Value)
	}
	return strconv.QuoteRune(rune(c.Value))
}

// Boolean
type Boolean struct {
	Value bool
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func NewBoolean(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}

func (b *Boolean) Type() ObjectType              { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string               { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) RuntimeType() *typesystem.Type { return typesystem.Bool }
func (b *Boolean) Hash() uint32 {
	if b.Value {
		return 1
	}
	return 0
}

// String
type String struct {
	Value string
}

func NewString(v string) *String { return &String{Value: v} }

func (s *String) Type() ObjectType              { return STRING_OBJ }
func (s *String) Inspect() string               { return strconv.Quote(s.Value) }
func (s *String) RuntimeType() *typesystem.Type { return typesystem.String }
func (s *String) Hash() uint32                  { return hashString(s.Value) }

// Null is the null reference.
type Null struct{}

var NULL = &Null{}

func (n *Null) Type() ObjectType              { return NULL_OBJ }
func (n *Null) Inspect() string               { return "null" }
func (n *Null) RuntimeType() *typesystem.Type { return typesystem.Null }
func (n *Null) Hash() uint32                  { return 0 }

// NewNumber builds the object for a numeric type from its raw value.
// raw must be int64, uint64, float64 or uint16 (char).
func NewNumber(t *typesystem.Type, raw any) (Object, error) {
	switch t.Num {
	case typesystem.NumChar:
		if v, ok := raw.(uint16); ok {
			return NewChar(v), nil
		}
	case typesystem.NumFloat32, typesystem.NumFloat64:
		if v, ok := raw.(float64); ok {
			return NewFloat(t, v), nil
		}
	case typesystem.NumNone:
		return nil, fmt.Errorf("%s is not numeric", t)
	default:
		if t.Num.Signed() {
			if v, ok := raw.(int64); ok {
				return NewInteger(t, v), nil
			}
		} else if v, ok := raw.(uint64); ok {
			return NewUnsigned(t, v), nil
		}
	}
	return nil, fmt.Errorf("raw %T does not fit %s", raw, t)
}

// Raw returns the native payload of a numeric or char object.
func Raw(o Object) (any, bool) {
	switch v := o.(type) {
	case *Integer:
		return v.Value, true
	case *Unsigned:
		return v.Value, true
	case *Float:
		return v.Value, true
	case *Char:
		return v.Value, true
	}
	return nil, false
}

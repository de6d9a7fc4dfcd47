package typesystem

import (
	"fmt"
	"strings"

	"github.com/funvibe/dynconv/internal/config"
)

// Value is anything that knows its most-derived runtime type.
type Value interface {
	RuntimeType() *Type
}

// ConvertFunc implements a user-defined conversion operator.
type ConvertFunc func(v Value) (Value, error)

// Type is a nominal type. Type identity is pointer identity.
type Type struct {
	Name       string
	Package    string
	Kind       Kind
	Num        NumKind
	Visibility Visibility
	Sealed     bool

	// Base is the base class of a class; nil means Object.
	Base *Type
	// Interfaces lists directly implemented (or, for interfaces, inherited) interfaces.
	Interfaces []*Type
	// Elem is the element type of an array.
	Elem *Type
	// Fields lists instance field names with their declared types.
	Fields []Field

	// Operators are the user-defined conversions declared on this type.
	Operators []*Operator
}

// Field is a named instance slot.
type Field struct {
	Name string
	Type *Type
}

// Operator is a user-defined conversion operator declared on a type.
type Operator struct {
	Declaring  *Type
	Source     *Type
	Target     *Type
	Explicit   bool
	Visibility Visibility

	Fn ConvertFunc
	// CheckedFn is the variant used in a checked context; falls back to Fn.
	CheckedFn ConvertFunc
}

func (o *Operator) String() string {
	mode := "implicit"
	if o.Explicit {
		mode = "explicit"
	}
	return fmt.Sprintf("%s operator %s(%s) on %s", mode, o.Target, o.Source, o.Declaring)
}

// Impl returns the implementation to run in the given context.
func (o *Operator) Impl(checked bool) ConvertFunc {
	if checked && o.CheckedFn != nil {
		return o.CheckedFn
	}
	return o.Fn
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind == KindArray {
		return t.Elem.String() + config.ArraySuffix
	}
	return t.Name
}

// QualifiedName includes the declaring package, if any.
func (t *Type) QualifiedName() string {
	if t.Kind == KindArray {
		return t.Elem.QualifiedName() + config.ArraySuffix
	}
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// IsReference reports whether values of t are references.
func (t *Type) IsReference() bool {
	switch t.Kind {
	case KindObject, KindString, KindClass, KindInterface, KindArray, KindHost:
		return true
	}
	return false
}

// IsValue reports whether values of t are copied by value.
func (t *Type) IsValue() bool {
	switch t.Kind {
	case KindBool, KindChar, KindNumeric, KindStruct:
		return true
	}
	return false
}

// IsNumeric reports whether t takes part in numeric conversions (char included).
func (t *Type) IsNumeric() bool {
	return t.Num != NumNone
}

// BaseChain returns t followed by its base classes, nearest first.
func (t *Type) BaseChain() []*Type {
	chain := []*Type{t}
	for b := t.Base; b != nil; b = b.Base {
		chain = append(chain, b)
	}
	return chain
}

// IsSubclassOf reports whether other is a proper base class of t.
func (t *Type) IsSubclassOf(other *Type) bool {
	if t == other || t.Kind != KindClass {
		return false
	}
	if other.Kind == KindObject {
		return true
	}
	for b := t.Base; b != nil; b = b.Base {
		if b == other {
			return true
		}
	}
	return false
}

// Implements reports whether t (or one of its bases) implements iface,
// directly or through interface inheritance.
func (t *Type) Implements(iface *Type) bool {
	if iface.Kind != KindInterface || t == iface {
		return false
	}
	for _, c := range t.BaseChain() {
		for _, i := range c.Interfaces {
			if i == iface || i.Implements(iface) {
				return true
			}
		}
	}
	return false
}

// Field returns the declared field with the given name.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Declare attaches a user-defined conversion operator to t.
func (t *Type) Declare(op *Operator) error {
	if t.Kind != KindClass && t.Kind != KindStruct {
		return fmt.Errorf("operator on %s: only classes and structs declare conversions", t)
	}
	if op.Source == nil || op.Target == nil {
		return fmt.Errorf("operator on %s: source and target are required", t)
	}
	if op.Source != t && op.Target != t {
		return fmt.Errorf("operator %s(%s) on %s: either source or target must be the declaring type", op.Target, op.Source, t)
	}
	if op.Source == op.Target {
		return fmt.Errorf("operator on %s: source and target are the same type", t)
	}
	if op.Source.Kind == KindObject || op.Target.Kind == KindObject {
		return fmt.Errorf("operator %s(%s) on %s: conversions from or to %s cannot be user-defined", op.Target, op.Source, t, Object)
	}
	if op.Fn == nil {
		return fmt.Errorf("operator %s(%s) on %s: implementation is missing", op.Target, op.Source, t)
	}
	op.Declaring = t
	t.Operators = append(t.Operators, op)
	return nil
}

// Predeclared types shared by every universe.
var (
	Object  = &Type{Name: config.ObjectTypeName, Kind: KindObject}
	Null    = &Type{Name: config.NullTypeName, Kind: KindNull}
	Bool    = &Type{Name: config.BoolTypeName, Kind: KindBool, Sealed: true}
	Char    = &Type{Name: config.CharTypeName, Kind: KindChar, Num: NumChar, Sealed: true}
	String  = &Type{Name: config.StringTypeName, Kind: KindString, Sealed: true}
	Int8    = numeric(config.Int8TypeName, NumInt8)
	UInt8   = numeric(config.UInt8TypeName, NumUInt8)
	Int16   = numeric(config.Int16TypeName, NumInt16)
	UInt16  = numeric(config.UInt16TypeName, NumUInt16)
	Int32   = numeric(config.Int32TypeName, NumInt32)
	UInt32  = numeric(config.UInt32TypeName, NumUInt32)
	Int64   = numeric(config.Int64TypeName, NumInt64)
	UInt64  = numeric(config.UInt64TypeName, NumUInt64)
	Float32 = numeric(config.Float32TypeName, NumFloat32)
	Float64 = numeric(config.Float64TypeName, NumFloat64)
	Host    = &Type{Name: config.HostTypeName, Kind: KindHost, Sealed: true}
)

// Predeclared lists the predeclared types in declaration order.
var Predeclared = []*Type{
	Object, Null, Bool, Char, String,
	Int8, UInt8, Int16, UInt16, Int32, UInt32, Int64, UInt64,
	Float32, Float64, Host,
}

// IndexTypes are the integral types an array size may be expressed in, in probe order.
var IndexTypes = []*Type{Int32, UInt32, Int64, UInt64}

func numeric(name string, n NumKind) *Type {
	return &Type{Name: name, Kind: KindNumeric, Num: n, Sealed: true}
}

// isArrayName splits "T[]" into "T".
func isArrayName(name string) (string, bool) {
	if strings.HasSuffix(name, config.ArraySuffix) {
		return strings.TrimSuffix(name, config.ArraySuffix), true
	}
	return name, false
}

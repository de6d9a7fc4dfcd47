package binder

import (
	"fmt"

	"github.com/funvibe/dynconv/internal/typesystem"
)

// Scope is the place a conversion is requested from.
// The zero Scope sees public declarations only.
type Scope struct {
	Package string
	// Type is the enclosing type, if any; private operators are visible inside it.
	Type *typesystem.Type
}

func (s Scope) String() string {
	switch {
	case s.Type != nil:
		return s.Type.QualifiedName()
	case s.Package != "":
		return s.Package
	}
	return "<global>"
}

func (s Scope) seesType(t *typesystem.Type) bool {
	if t.Kind == typesystem.KindArray {
		return s.seesType(t.Elem)
	}
	switch t.Visibility {
	case typesystem.Public:
		return true
	case typesystem.Private:
		if s.Type == t {
			return true
		}
	}
	return s.Package != "" && s.Package == t.Package
}

// Sees reports whether op is accessible from s.
func (s Scope) Sees(op *typesystem.Operator) bool {
	if !s.seesType(op.Declaring) {
		return false
	}
	switch op.Visibility {
	case typesystem.Public:
		return true
	case typesystem.Internal:
		return s.Package != "" && s.Package == op.Declaring.Package
	case typesystem.Private:
		return s.Type != nil && s.Type == op.Declaring
	}
	return false
}

// Descriptor is the static part of a conversion site.
type Descriptor struct {
	Target  *typesystem.Type
	Kind    Kind
	Checked bool
	Scope   Scope
}

// Explicit reports whether explicit conversions are eligible.
func (d Descriptor) Explicit() bool {
	return d.Kind.IsExplicit()
}

func (d Descriptor) String() string {
	mode := "unchecked"
	if d.Checked {
		mode = "checked"
	}
	return fmt.Sprintf("convert to %s (%s, %s) from %s", d.Target, d.Kind, mode, d.Scope)
}

func (d Descriptor) validate() error {
	if d.Target == nil {
		return fmt.Errorf("descriptor: target type is required")
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("descriptor: invalid conversion kind %d", int(d.Kind))
	}
	if d.Target.Kind == typesystem.KindNull {
		return fmt.Errorf("descriptor: %s is not a conversion target", d.Target)
	}
	if d.Kind == ArrayConversion && !d.Target.IsNumeric() {
		return fmt.Errorf("descriptor: array size target %s is not numeric", d.Target)
	}
	return nil
}

package binder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/funvibe/dynconv/internal/typesystem"
)

var (
	ErrNoConversion = errors.New("no conversion")
	ErrAmbiguous    = errors.New("ambiguous conversion")
	ErrInaccessible = errors.New("inaccessible conversion")
	ErrOverflow     = errors.New("arithmetic overflow")
	ErrInvalidCast  = errors.New("invalid cast")
)

// Reason classifies a resolution failure.
type Reason int

const (
	NoConversion Reason = iota + 1
	Ambiguous
	Inaccessible
)

func (r Reason) String() string {
	switch r {
	case NoConversion:
		return "NoConversion"
	case Ambiguous:
		return "Ambiguous"
	case Inaccessible:
		return "Inaccessible"
	}
	return "None"
}

// ParseReason maps a reason name, as printed by String, to a Reason.
func ParseReason(s string) (Reason, bool) {
	for _, r := range []Reason{NoConversion, Ambiguous, Inaccessible} {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// BindingError is raised when a site has no conversion for an operand's runtime type.
type BindingError struct {
	Source     *typesystem.Type
	Target     *typesystem.Type
	Kind       Kind
	Checked    bool
	Scope      Scope
	Reason     Reason
	Candidates []string
}

func (e *BindingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot convert type '%s' to '%s' (%s)", e.Source, e.Target, e.Kind)
	switch e.Reason {
	case Ambiguous:
		fmt.Fprintf(&b, ": ambiguous user-defined conversions: %s", strings.Join(e.Candidates, "; "))
	case Inaccessible:
		fmt.Fprintf(&b, ": conversion is inaccessible from %s", e.Scope)
	default:
		b.WriteString(": no conversion exists")
	}
	return b.String()
}

// Is lets errors.Is match the reason sentinels. Inaccessible also matches ErrNoConversion.
func (e *BindingError) Is(target error) bool {
	switch target {
	case ErrNoConversion:
		return e.Reason == NoConversion || e.Reason == Inaccessible
	case ErrAmbiguous:
		return e.Reason == Ambiguous
	case ErrInaccessible:
		return e.Reason == Inaccessible
	}
	return false
}

func NewBindingError(d Descriptor, source *typesystem.Type, reason Reason, candidates []*typesystem.Operator) *BindingError {
	names := make([]string, len(candidates))
	for i, op := range candidates {
		names[i] = op.String()
	}
	return &BindingError{
		Source:     source,
		Target:     d.Target,
		Kind:       d.Kind,
		Checked:    d.Checked,
		Scope:      d.Scope,
		Reason:     reason,
		Candidates: names,
	}
}

// OverflowError is raised by a checked numeric conversion whose value does not fit.
type OverflowError struct {
	Value  string
	Source *typesystem.Type
	Target *typesystem.Type
	Err    error
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("arithmetic overflow converting %s %s to %s", e.Source, e.Value, e.Target)
}

func (e *OverflowError) Unwrap() error { return e.Err }

func (e *OverflowError) Is(target error) bool { return target == ErrOverflow }

func NewOverflowError(value string, source, target *typesystem.Type, err error) *OverflowError {
	return &OverflowError{Value: value, Source: source, Target: target, Err: err}
}

// InvalidCastError is raised when an explicit reference or unboxing test fails.
type InvalidCastError struct {
	Source *typesystem.Type
	Target *typesystem.Type
}

func (e *InvalidCastError) Error() string {
	return fmt.Sprintf("unable to cast object of type '%s' to type '%s'", e.Source, e.Target)
}

func (e *InvalidCastError) Is(target error) bool { return target == ErrInvalidCast }

func NewInvalidCastError(source, target *typesystem.Type) *InvalidCastError {
	return &InvalidCastError{Source: source, Target: target}
}

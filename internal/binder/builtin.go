package binder

import (
	"fmt"
	"strings"

	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

// StepKind is one primitive conversion of a path.
type StepKind int

const (
	StepIdentity StepKind = iota
	StepNumeric
	StepReference
	StepBox
	StepDowncast
	StepUnbox
	StepOperator
)

func (k StepKind) String() string {
	switch k {
	case StepIdentity:
		return "identity"
	case StepNumeric:
		return "numeric"
	case StepReference:
		return "reference"
	case StepBox:
		return "box"
	case StepDowncast:
		return "downcast"
	case StepUnbox:
		return "unbox"
	case StepOperator:
		return "operator"
	}
	return "unknown"
}

// Step converts a value of From into a value of To.
type Step struct {
	Kind     StepKind
	From, To *typesystem.Type
	Operator *typesystem.Operator
}

func (s Step) String() string {
	if s.Kind == StepOperator {
		return s.Operator.String()
	}
	return fmt.Sprintf("%s %s -> %s", s.Kind, s.From, s.To)
}

// Path is a resolved conversion: a chain of steps from the operand's
// runtime type to the target type.
type Path struct {
	Steps []Step
}

func (p *Path) String() string {
	parts := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// UserDefined returns the operator the path goes through, if any.
func (p *Path) UserDefined() *typesystem.Operator {
	for _, s := range p.Steps {
		if s.Kind == StepOperator {
			return s.Operator
		}
	}
	return nil
}

// standard finds a built-in conversion from -> to. Explicit conversions
// are considered only when explicit is set.
func standard(from, to *typesystem.Type, explicit bool) []Step {
	switch {
	case from == to:
		return []Step{{Kind: StepIdentity, From: from, To: to}}
	case typesystem.HasImplicitNumeric(from, to):
		return []Step{{Kind: StepNumeric, From: from, To: to}}
	case typesystem.HasImplicitReference(from, to):
		return []Step{{Kind: StepReference, From: from, To: to}}
	case typesystem.HasBoxing(from, to):
		return []Step{{Kind: StepBox, From: from, To: to}}
	case !explicit:
		return nil
	case typesystem.HasExplicitNumeric(from, to):
		return []Step{{Kind: StepNumeric, From: from, To: to}}
	case typesystem.HasExplicitReference(from, to):
		return []Step{{Kind: StepDowncast, From: from, To: to}}
	case typesystem.HasUnboxing(from, to):
		return []Step{{Kind: StepUnbox, From: from, To: to}}
	}
	return nil
}

type action func(v object.Object) (object.Object, error)

// compilePath turns a path into a single closure. Checked-ness is fixed here.
func compilePath(p *Path, checked bool) action {
	actions := make([]action, 0, len(p.Steps))
	for _, s := range p.Steps {
		if s.Kind == StepIdentity {
			continue
		}
		actions = append(actions, compileStep(s, checked))
	}
	switch len(actions) {
	case 0:
		return func(v object.Object) (object.Object, error) { return v, nil }
	case 1:
		return actions[0]
	}
	return func(v object.Object) (object.Object, error) {
		var err error
		for _, a := range actions {
			if v, err = a(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}

func compileStep(s Step, checked bool) action {
	to := s.To
	switch s.Kind {
	case StepNumeric:
		return func(v object.Object) (object.Object, error) {
			return convertNumeric(v, to, checked)
		}
	case StepReference:
		return func(v object.Object) (object.Object, error) { return v, nil }
	case StepBox:
		return func(v object.Object) (object.Object, error) {
			if inst, ok := v.(*object.Instance); ok {
				return inst.Copy(), nil
			}
			return v, nil
		}
	case StepDowncast:
		return func(v object.Object) (object.Object, error) {
			rt := v.RuntimeType()
			if rt.Kind != typesystem.KindNull && !typesystem.IsInstanceOf(rt, to) {
				return nil, NewInvalidCastError(rt, to)
			}
			return v, nil
		}
	case StepUnbox:
		return func(v object.Object) (object.Object, error) {
			if v.RuntimeType() != to {
				return nil, NewInvalidCastError(v.RuntimeType(), to)
			}
			if inst, ok := v.(*object.Instance); ok {
				return inst.Copy(), nil
			}
			return v, nil
		}
	case StepOperator:
		impl := s.Operator.Impl(checked)
		op := s.Operator
		return func(v object.Object) (object.Object, error) {
			out, err := impl(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			result, ok := object.From(out)
			if !ok {
				return nil, fmt.Errorf("%s: returned %T, not a runtime value", op, out)
			}
			return result, nil
		}
	}
	return func(v object.Object) (object.Object, error) { return v, nil }
}

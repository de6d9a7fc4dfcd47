package binder

import (
	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

// Rule is the compiled decision for one runtime type at one site.
// A rule is immutable once compiled and applies only to operands whose
// runtime type is exactly Type.
type Rule struct {
	Type    *typesystem.Type
	Path    *Path
	Failure *BindingError

	action action
}

// Fallback replaces a resolution failure for a single call.
type Fallback func(operand object.Object, failure *BindingError) (object.Object, error)

// Matches reports whether the rule was compiled for t.
func (r *Rule) Matches(t *typesystem.Type) bool {
	return r.Type == t
}

// Failed reports whether the rule always raises a binding failure.
func (r *Rule) Failed() bool {
	return r.Failure != nil
}

// Execute runs the rule against an operand of the rule's type.
func (r *Rule) Execute(operand object.Object) (object.Object, error) {
	return r.action(operand)
}

// compile builds the rule for an outcome. Successful paths do not re-test
// the operand type; the cache key guarantees it.
func compile(d Descriptor, source *typesystem.Type, outcome Outcome) *Rule {
	if outcome.Succeeded() {
		return &Rule{
			Type:   source,
			Path:   outcome.Path,
			action: compilePath(outcome.Path, d.Checked),
		}
	}
	failure := NewBindingError(d, source, outcome.Reason, outcome.Candidates)
	return &Rule{
		Type:    source,
		Failure: failure,
		action: func(object.Object) (object.Object, error) {
			return nil, failure
		},
	}
}

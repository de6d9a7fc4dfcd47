package binder

import (
	"github.com/funvibe/dynconv/internal/typesystem"
)

// Candidate is a user-defined operator applicable to a (source, target) pair.
type Candidate struct {
	Operator  *typesystem.Operator
	Declaring *typesystem.Type
	Source    *typesystem.Type
	Target    *typesystem.Type
	Explicit  bool
	// Checked is set when the operator has a checked variant.
	Checked bool
}

// Candidates is the result of a catalog query. Hidden counts operators
// that would have applied but are not accessible from the scope.
type Candidates struct {
	List   []Candidate
	Hidden int
}

// Catalog finds user-defined conversion operators.
type Catalog interface {
	FindCandidates(source, target *typesystem.Type, d Descriptor) Candidates
}

// Declared is the catalog of operators declared on the types themselves.
// It scans the source and target along with their base classes.
type Declared struct{}

func (Declared) FindCandidates(source, target *typesystem.Type, d Descriptor) Candidates {
	var result Candidates
	explicit := d.Explicit()
	seen := make(map[*typesystem.Operator]bool)

	scan := func(t *typesystem.Type) {
		for _, c := range t.BaseChain() {
			for _, op := range c.Operators {
				if seen[op] {
					continue
				}
				seen[op] = true
				if op.Explicit && !explicit {
					continue
				}
				if !StandardConvertible(source, op.Source, explicit) || !StandardConvertible(op.Target, target, explicit) {
					continue
				}
				if !d.Scope.Sees(op) {
					result.Hidden++
					continue
				}
				result.List = append(result.List, Candidate{
					Operator:  op,
					Declaring: op.Declaring,
					Source:    op.Source,
					Target:    op.Target,
					Explicit:  op.Explicit,
					Checked:   op.CheckedFn != nil,
				})
			}
		}
	}

	scan(source)
	if target != source {
		scan(target)
	}
	return result
}

// StandardConvertible reports whether a standard conversion from -> to exists
// in an implicit or explicit context.
func StandardConvertible(from, to *typesystem.Type, explicit bool) bool {
	if explicit {
		return typesystem.HasStandardExplicit(from, to)
	}
	return typesystem.HasStandardImplicit(from, to)
}

// Operators returns the operators of a candidate list.
func (c Candidates) Operators() []*typesystem.Operator {
	ops := make([]*typesystem.Operator, len(c.List))
	for i, cand := range c.List {
		ops[i] = cand.Operator
	}
	return ops
}

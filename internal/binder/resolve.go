package binder

import (
	"github.com/funvibe/dynconv/internal/typesystem"
)

// Outcome is the result of resolving one (descriptor, runtime type) pair:
// either a Path or a failure Reason.
type Outcome struct {
	Path       *Path
	Reason     Reason
	Candidates []*typesystem.Operator
}

// Succeeded reports whether a conversion path was found.
func (o Outcome) Succeeded() bool { return o.Path != nil }

func succeed(steps ...Step) Outcome {
	return Outcome{Path: &Path{Steps: steps}}
}

func fail(reason Reason, candidates []*typesystem.Operator) Outcome {
	return Outcome{Reason: reason, Candidates: candidates}
}

// Resolver decides how a runtime type converts under a descriptor.
type Resolver struct {
	catalog Catalog
}

func NewResolver(catalog Catalog) *Resolver {
	if catalog == nil {
		catalog = Declared{}
	}
	return &Resolver{catalog: catalog}
}

// Resolve runs the static conversion rules against the operand's runtime type.
func (r *Resolver) Resolve(d Descriptor, source *typesystem.Type) Outcome {
	switch d.Kind {
	case Identity, ImplicitNumeric, ImplicitReference, Boxing, ImplicitUserDefined, AssignmentConversion:
		return r.resolve(d, source, d.Target, false)
	case Unboxing, ExplicitNumeric, ExplicitReference, ExplicitUserDefined:
		return r.resolve(d, source, d.Target, true)
	case UnboxingWithCheck:
		return r.resolveUnboxWithCheck(d, source)
	case ArrayConversion:
		return r.resolveArraySize(d, source)
	}
	return fail(NoConversion, nil)
}

func (r *Resolver) resolve(d Descriptor, source, target *typesystem.Type, explicit bool) Outcome {
	if steps := standard(source, target, explicit); steps != nil {
		return succeed(steps...)
	}
	return r.resolveUserDefined(d, source, target, explicit)
}

// resolveUnboxWithCheck admits only a value that is exactly the target value type.
func (r *Resolver) resolveUnboxWithCheck(d Descriptor, source *typesystem.Type) Outcome {
	if source == d.Target && source.IsValue() {
		return succeed(Step{Kind: StepUnbox, From: source, To: d.Target})
	}
	return fail(NoConversion, nil)
}

// resolveArraySize converts an array size to the target or, failing that,
// to the first index type reachable implicitly.
func (r *Resolver) resolveArraySize(d Descriptor, source *typesystem.Type) Outcome {
	first := r.resolve(d, source, d.Target, false)
	if first.Succeeded() {
		return first
	}
	for _, t := range typesystem.IndexTypes {
		if t == d.Target {
			continue
		}
		if o := r.resolve(d, source, t, false); o.Succeeded() {
			return o
		}
	}
	return first
}

func (r *Resolver) resolveUserDefined(d Descriptor, source, target *typesystem.Type, explicit bool) Outcome {
	found := r.catalog.FindCandidates(source, target, d)
	switch len(found.List) {
	case 0:
		if found.Hidden > 0 {
			return fail(Inaccessible, nil)
		}
		return fail(NoConversion, nil)
	case 1:
		return r.userDefinedPath(source, target, found.List[0], explicit)
	}

	sx := mostSpecificSource(source, found.List)
	tx := mostSpecificTarget(target, found.List)
	if sx == nil || tx == nil {
		return fail(Ambiguous, found.Operators())
	}
	var winner *Candidate
	for i := range found.List {
		c := &found.List[i]
		if c.Source != sx || c.Target != tx {
			continue
		}
		if winner != nil {
			return fail(Ambiguous, found.Operators())
		}
		winner = c
	}
	if winner == nil {
		return fail(Ambiguous, found.Operators())
	}
	return r.userDefinedPath(source, target, *winner, explicit)
}

func (r *Resolver) userDefinedPath(source, target *typesystem.Type, c Candidate, explicit bool) Outcome {
	pre := standard(source, c.Source, explicit)
	post := standard(c.Target, target, explicit)
	if pre == nil || post == nil {
		return fail(NoConversion, nil)
	}
	steps := make([]Step, 0, len(pre)+len(post)+1)
	steps = append(steps, pre...)
	steps = append(steps, Step{Kind: StepOperator, From: c.Source, To: c.Target, Operator: c.Operator})
	steps = append(steps, post...)
	return succeed(steps...)
}

// mostSpecificSource is the exact source if some candidate takes it,
// otherwise the unique candidate source that converts to every other one.
func mostSpecificSource(source *typesystem.Type, list []Candidate) *typesystem.Type {
	sources := distinct(list, func(c Candidate) *typesystem.Type { return c.Source })
	for _, s := range sources {
		if s == source {
			return s
		}
	}
	return unique(sources, func(s, other *typesystem.Type) bool {
		return typesystem.HasStandardImplicit(s, other)
	})
}

// mostSpecificTarget is the exact target if some candidate produces it,
// otherwise the unique candidate target every other one converts to.
func mostSpecificTarget(target *typesystem.Type, list []Candidate) *typesystem.Type {
	targets := distinct(list, func(c Candidate) *typesystem.Type { return c.Target })
	for _, t := range targets {
		if t == target {
			return t
		}
	}
	return unique(targets, func(t, other *typesystem.Type) bool {
		return typesystem.HasStandardImplicit(other, t)
	})
}

func distinct(list []Candidate, key func(Candidate) *typesystem.Type) []*typesystem.Type {
	var result []*typesystem.Type
	seen := make(map[*typesystem.Type]bool, len(list))
	for _, c := range list {
		if t := key(c); !seen[t] {
			seen[t] = true
			result = append(result, t)
		}
	}
	return result
}

// unique returns the only type that relates to all others, or nil.
func unique(types []*typesystem.Type, relates func(t, other *typesystem.Type) bool) *typesystem.Type {
	var found *typesystem.Type
	for _, t := range types {
		all := true
		for _, other := range types {
			if other != t && !relates(t, other) {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		if found != nil {
			return nil
		}
		found = t
	}
	return found
}

package scenario

import (
	"errors"
	"fmt"

	"github.com/funvibe/dynconv/internal/binder"
	"github.com/funvibe/dynconv/internal/object"
)

var expectedErrors = map[string]error{
	"NoConversion": binder.ErrNoConversion,
	"Ambiguous":    binder.ErrAmbiguous,
	"Inaccessible": binder.ErrInaccessible,
	"Overflow":     binder.ErrOverflow,
	"InvalidCast":  binder.ErrInvalidCast,
}

// Result is the outcome of one call.
type Result struct {
	Index   int
	Site    string
	Operand string
	Value   object.Object
	Err     error
	State   binder.State
	// Mismatch describes how the call departed from its expectation; empty on success.
	Mismatch string
}

func (r *Result) Passed() bool { return r.Mismatch == "" }

// SiteReport is the final state of an attached site.
type SiteReport struct {
	Name string
	Site *binder.CallSite
}

// Report collects the results of a run.
type Report struct {
	Results []*Result
	Sites   []SiteReport
}

// Failures counts the calls that did not meet their expectation.
func (r *Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Run attaches every declared site to b and performs the calls in order.
// Errors in the document itself abort the run; binding failures are results.
func (s *Scenario) Run(b *binder.Binder) (*Report, error) {
	report := &Report{}
	sites := make(map[string]*binder.CallSite, len(s.Document.Sites))
	for _, decl := range s.Document.Sites {
		d, err := s.Descriptor(decl)
		if err != nil {
			return nil, err
		}
		site, err := b.Attach(d)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", decl.Name, err)
		}
		sites[decl.Name] = site
		report.Sites = append(report.Sites, SiteReport{Name: decl.Name, Site: site})
	}

	for i, call := range s.Document.Calls {
		result, err := s.call(b, sites[call.Site], call)
		if err != nil {
			return nil, fmt.Errorf("call %d: %w", i+1, err)
		}
		result.Index = i + 1
		result.Site = call.Site
		report.Results = append(report.Results, result)
	}
	return report, nil
}

func (s *Scenario) call(b *binder.Binder, site *binder.CallSite, call CallDecl) (*Result, error) {
	operand, err := s.Literal(call.Operand, nil)
	if err != nil {
		return nil, fmt.Errorf("operand: %w", err)
	}
	var fallback binder.Fallback
	if call.Fallback != nil {
		value, err := s.Literal(call.Fallback, site.Descriptor().Target)
		if err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
		fallback = func(object.Object, *binder.BindingError) (object.Object, error) {
			return value, nil
		}
	}
	var expect object.Object
	if call.Expect != nil {
		if expect, err = s.Literal(call.Expect, site.Descriptor().Target); err != nil {
			return nil, fmt.Errorf("expect: %w", err)
		}
	}

	result := &Result{Operand: operand.Inspect()}
	result.Value, result.Err = b.Bind(site, operand, fallback)
	result.State = site.State()
	result.Mismatch = check(result, call, expect)
	return result, nil
}

func check(r *Result, call CallDecl, expect object.Object) string {
	switch {
	case call.Error != "":
		if r.Err == nil {
			return fmt.Sprintf("expected %s error, got %s", call.Error, r.Value.Inspect())
		}
		if !errors.Is(r.Err, expectedErrors[call.Error]) {
			return fmt.Sprintf("expected %s error, got: %v", call.Error, r.Err)
		}
	case r.Err != nil:
		return fmt.Sprintf("unexpected error: %v", r.Err)
	case expect != nil && !object.Equal(expect, r.Value):
		return fmt.Sprintf("expected %s, got %s", describe(expect), describe(r.Value))
	}
	if call.State != "" {
		if want, _ := binder.ParseState(call.State); want != r.State {
			return fmt.Sprintf("expected site state %s, got %s", want, r.State)
		}
	}
	return ""
}

func describe(o object.Object) string {
	return fmt.Sprintf("%s %s", o.RuntimeType(), o.Inspect())
}

package binder

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/funvibe/dynconv/internal/typesystem"
)

// State is the cache state of a call site.
type State int

const (
	Empty State = iota
	Monomorphic
	Polymorphic
	Megamorphic
)

var stateNames = [...]string{
	Empty:       "Empty",
	Monomorphic: "Monomorphic",
	Polymorphic: "Polymorphic",
	Megamorphic: "Megamorphic",
}

func (s State) String() string {
	if s >= Empty && s <= Megamorphic {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState maps a state name, as printed by String, to a State.
func ParseState(s string) (State, bool) {
	for st, name := range stateNames {
		if name == s {
			return State(st), true
		}
	}
	return 0, false
}

// siteState is an immutable snapshot; writers replace it wholesale.
type siteState struct {
	state State
	rules []*Rule
}

var emptyState = &siteState{state: Empty}

// CallSite is one conversion use site with its rule cache.
// Lookups are lock-free; installs copy the snapshot and compare-and-swap.
type CallSite struct {
	ID         uuid.UUID
	descriptor Descriptor
	limit      int

	state  atomic.Pointer[siteState]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func newCallSite(d Descriptor, limit int) *CallSite {
	site := &CallSite{ID: uuid.New(), descriptor: d, limit: limit}
	site.state.Store(emptyState)
	return site
}

func (s *CallSite) Descriptor() Descriptor { return s.descriptor }

// State returns the current cache state.
func (s *CallSite) State() State {
	return s.state.Load().state
}

// Rules returns a copy of the cached rules.
func (s *CallSite) Rules() []*Rule {
	rules := s.state.Load().rules
	return append([]*Rule(nil), rules...)
}

// Stats is a point-in-time summary of a site.
type Stats struct {
	State  State
	Rules  int
	Hits   uint64
	Misses uint64
}

func (s *CallSite) Stats() Stats {
	cur := s.state.Load()
	return Stats{State: cur.state, Rules: len(cur.rules), Hits: s.hits.Load(), Misses: s.misses.Load()}
}

func (s *CallSite) lookup(t *typesystem.Type) *Rule {
	for _, r := range s.state.Load().rules {
		if r.Matches(t) {
			s.hits.Add(1)
			return r
		}
	}
	s.misses.Add(1)
	return nil
}

// install adds a freshly compiled rule. If another caller already installed a
// rule for the same type, that rule wins and is returned. Growing past the
// limit drops every rule and makes the site megamorphic for good.
func (s *CallSite) install(rule *Rule) (*Rule, State) {
	for {
		cur := s.state.Load()
		if cur.state == Megamorphic {
			return rule, Megamorphic
		}
		for _, r := range cur.rules {
			if r.Matches(rule.Type) {
				return r, cur.state
			}
		}

		var next *siteState
		switch n := len(cur.rules) + 1; {
		case n > s.limit:
			next = &siteState{state: Megamorphic}
		case n == 1:
			next = &siteState{state: Monomorphic, rules: []*Rule{rule}}
		default:
			rules := make([]*Rule, 0, n)
			rules = append(rules, cur.rules...)
			next = &siteState{state: Polymorphic, rules: append(rules, rule)}
		}
		if s.state.CompareAndSwap(cur, next) {
			return rule, next.state
		}
	}
}

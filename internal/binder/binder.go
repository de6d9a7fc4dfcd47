package binder

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/dynconv/internal/config"
	"github.com/funvibe/dynconv/internal/object"
)

// Interop converts foreign operands outside the cache. When it opts in
// (ok is true) its result is final. An error returned with ok false is
// logged and the bind continues through the cache.
type Interop interface {
	TryConvert(d Descriptor, operand object.Object) (result object.Object, ok bool, err error)
}

// Trace describes one bind.
type Trace struct {
	Site    uuid.UUID
	Source  string
	Target  string
	Kind    Kind
	Checked bool
	Hit     bool
	State   State
	Event   Event
	Error   string
	Time    time.Time
	Elapsed time.Duration
}

// Tracer receives a Trace for every bind. Tracer errors are logged, not returned.
type Tracer interface {
	Record(t *Trace) error
}

// Log is a printf-style logging hook.
type Log func(format string, args ...interface{})

type Option func(b *Binder)

func WithInterop(interop Interop) Option {
	return func(b *Binder) { b.interop = interop }
}

func WithPolymorphicLimit(limit int) Option {
	return func(b *Binder) { b.limit = limit }
}

func WithCounter(counter Counter) Option {
	return func(b *Binder) { b.metrics.counter = counter }
}

func WithTracer(tracer Tracer) Option {
	return func(b *Binder) { b.tracer = tracer }
}

func WithLog(log Log) Option {
	return func(b *Binder) { b.log = log }
}

// Binder binds conversion sites to runtime operands.
type Binder struct {
	resolver *Resolver
	interop  Interop
	limit    int
	metrics  metrics
	tracer   Tracer
	log      Log
}

// New creates a binder over a catalog; a nil catalog means Declared.
func New(catalog Catalog, opts ...Option) *Binder {
	b := &Binder{
		resolver: NewResolver(catalog),
		limit:    config.DefaultPolymorphicLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.limit < 1 {
		b.limit = config.DefaultPolymorphicLimit
	}
	return b
}

// Attach creates a call site for a descriptor.
func (b *Binder) Attach(d Descriptor) (*CallSite, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	site := newCallSite(d, b.limit)
	b.logf("attach %s: %s", site.ID, d)
	return site, nil
}

// Resolve resolves without touching any cache.
func (b *Binder) Resolve(d Descriptor, operand object.Object) Outcome {
	return b.resolver.Resolve(d, operand.RuntimeType())
}

// Bind converts operand at site. A fallback, when given, replaces a
// resolution failure for this call only.
func (b *Binder) Bind(site *CallSite, operand object.Object, fallback Fallback) (object.Object, error) {
	if site == nil {
		return nil, fmt.Errorf("bind: call site is nil")
	}
	if operand == nil {
		operand = object.NULL
	}
	started := time.Now()
	onDone := b.metrics.begin(started)
	d := site.descriptor

	if b.interop != nil {
		result, ok, err := b.interop.TryConvert(d, operand)
		if ok {
			b.finish(site, operand, started, onDone, false, site.State(), EventInterop, err)
			return result, err
		}
		if err != nil {
			b.logf("%s: interop declined: %v", site.ID, err)
		}
	}

	rt := operand.RuntimeType()
	rule := site.lookup(rt)
	hit := rule != nil
	state := site.State()
	if !hit {
		done := b.metrics.pending(EventResolving)
		outcome := b.resolver.Resolve(d, rt)
		rule, state = site.install(compile(d, rt, outcome))
		done()
		if outcome.Succeeded() {
			b.logf("%s: resolved %s via %s (%s)", site.ID, rt, outcome.Path, state)
		} else {
			b.logf("%s: %s for %s (%s)", site.ID, outcome.Reason, rt, state)
		}
	}

	event := EventMiss
	switch {
	case hit:
		event = EventHit
	case state == Megamorphic:
		event = EventMegamorphic
	}

	var (
		result object.Object
		err    error
	)
	if rule.Failed() && fallback != nil {
		event = EventFallback
		result, err = fallback(operand, rule.Failure)
	} else {
		result, err = rule.Execute(operand)
		if err != nil {
			event = EventFailure
		}
	}
	b.finish(site, operand, started, onDone, hit, state, event, err)
	return result, err
}

func (b *Binder) finish(site *CallSite, operand object.Object, started time.Time, onDone func(time.Time, ...interface{}) int64, hit bool, state State, event Event, err error) {
	end := time.Now()
	onDone(end, event)
	if b.tracer == nil {
		return
	}
	trace := &Trace{
		Site:    site.ID,
		Source:  operand.RuntimeType().String(),
		Target:  site.descriptor.Target.String(),
		Kind:    site.descriptor.Kind,
		Checked: site.descriptor.Checked,
		Hit:     hit,
		State:   state,
		Event:   event,
		Time:    started,
		Elapsed: end.Sub(started),
	}
	if err != nil {
		trace.Error = err.Error()
	}
	if tErr := b.tracer.Record(trace); tErr != nil {
		b.logf("trace %s: %v", site.ID, tErr)
	}
}

func (b *Binder) logf(format string, args ...interface{}) {
	if b.log != nil {
		b.log(format, args...)
	}
}

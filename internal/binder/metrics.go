package binder

import (
	"time"

	"github.com/viant/gmetric"
	"github.com/viant/gmetric/counter"
	"github.com/viant/gmetric/stat"
)

// Counter is the subset of a gmetric operation counter the binder uses.
type Counter interface {
	Begin(started time.Time) counter.OnDone
	DecrementValue(value interface{}) int64
	IncrementValue(value interface{}) int64
}

// Event labels a bind for metrics and traces.
type Event string

const (
	EventHit         Event = "Hit"
	EventMiss        Event = "Miss"
	EventMegamorphic Event = "Megamorphic"
	EventFailure     Event = "Failure"
	EventFallback    Event = "Fallback"
	EventInterop     Event = "Interop"
	// EventResolving is a pending gauge held while a miss resolves.
	EventResolving Event = "Resolving"
)

var events = []Event{EventHit, EventMiss, EventMegamorphic, EventFailure, EventFallback, EventInterop, EventResolving}

const metricLocation = "github.com/funvibe/dynconv/internal/binder"

// NewCounter registers (or reuses) the operation counter for name.
func NewCounter(service *gmetric.Service, name string) Counter {
	if service == nil {
		return nil
	}
	if cnt := service.LookupOperation(name); cnt != nil {
		return cnt
	}
	return service.MultiOperationCounter(metricLocation, name, name+" conversion binding", time.Millisecond, time.Minute, 2, eventProvider{})
}

// eventProvider counts errors and every Event in its own slot.
type eventProvider struct{}

func (eventProvider) Keys() []string {
	keys := []string{stat.ErrorKey}
	for _, e := range events {
		keys = append(keys, string(e))
	}
	return keys
}

func (eventProvider) Map(value interface{}) int {
	switch v := value.(type) {
	case error:
		return 0
	case Event:
		for i, e := range events {
			if e == v {
				return i + 1
			}
		}
	}
	return -1
}

type metrics struct {
	counter Counter
}

func (m metrics) begin(started time.Time) counter.OnDone {
	if m.counter == nil {
		return nopOnDone
	}
	return m.counter.Begin(started)
}

func nopOnDone(_ time.Time, _ ...interface{}) int64 {
	return 0
}

func (m metrics) pending(event Event) func() {
	if m.counter == nil {
		return func() {}
	}
	m.counter.IncrementValue(event)
	return func() { m.counter.DecrementValue(event) }
}

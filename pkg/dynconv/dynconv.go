// Package dynconv converts values at run time with per-call-site caching.
//
//	c := dynconv.New()
//	site, _ := c.Attach("Int32", dynconv.ExplicitNumeric, true, dynconv.Scope{})
//	v, err := c.Convert(site, int64(42))
package dynconv

import (
	"fmt"
	"reflect"

	"github.com/funvibe/dynconv/internal/binder"
	"github.com/funvibe/dynconv/internal/config"
	"github.com/funvibe/dynconv/internal/interop"
	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

type (
	Descriptor   = binder.Descriptor
	Kind         = binder.Kind
	Scope        = binder.Scope
	CallSite     = binder.CallSite
	Fallback     = binder.Fallback
	BindingError = binder.BindingError
	Tracer       = binder.Tracer
	Trace        = binder.Trace
	Object       = object.Object
	Type         = typesystem.Type
	Operator     = typesystem.Operator
	Universe     = typesystem.Universe
	Config       = config.Config
)

const (
	Identity             = binder.Identity
	ImplicitNumeric      = binder.ImplicitNumeric
	ImplicitReference    = binder.ImplicitReference
	Boxing               = binder.Boxing
	Unboxing             = binder.Unboxing
	ImplicitUserDefined  = binder.ImplicitUserDefined
	ExplicitNumeric      = binder.ExplicitNumeric
	ExplicitReference    = binder.ExplicitReference
	UnboxingWithCheck    = binder.UnboxingWithCheck
	ExplicitUserDefined  = binder.ExplicitUserDefined
	ArrayConversion      = binder.ArrayConversion
	AssignmentConversion = binder.AssignmentConversion
)

var (
	ErrNoConversion = binder.ErrNoConversion
	ErrAmbiguous    = binder.ErrAmbiguous
	ErrInaccessible = binder.ErrInaccessible
	ErrOverflow     = binder.ErrOverflow
	ErrInvalidCast  = binder.ErrInvalidCast
)

// Converter owns a universe, a binder and the host value interop of both.
type Converter struct {
	universe *typesystem.Universe
	interop  *interop.Binder
	binder   *binder.Binder
}

type options struct {
	universe *typesystem.Universe
	config   *config.Config
	binder   []binder.Option
}

type Option func(o *options)

// WithUniverse shares an existing universe instead of creating one.
func WithUniverse(u *typesystem.Universe) Option {
	return func(o *options) { o.universe = u }
}

// WithConfig applies the polymorphic limit and interop switch of cfg.
func WithConfig(cfg *Config) Option {
	return func(o *options) { o.config = cfg }
}

func WithTracer(tracer Tracer) Option {
	return func(o *options) { o.binder = append(o.binder, binder.WithTracer(tracer)) }
}

func WithLog(log func(format string, args ...interface{})) Option {
	return func(o *options) { o.binder = append(o.binder, binder.WithLog(log)) }
}

// New creates a converter. Without options it uses config.Default().
func New(opts ...Option) *Converter {
	o := &options{config: config.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.universe == nil {
		o.universe = typesystem.NewUniverse()
	}

	c := &Converter{universe: o.universe, interop: interop.New(o.universe)}
	binderOpts := []binder.Option{binder.WithPolymorphicLimit(o.config.PolymorphicLimit)}
	if !o.config.DisableInterop {
		binderOpts = append(binderOpts, binder.WithInterop(c.interop))
	}
	c.binder = binder.New(nil, append(binderOpts, o.binder...)...)
	return c
}

// Universe returns the types the converter resolves against.
func (c *Converter) Universe() *Universe { return c.universe }

// Define adds a user type to the universe.
func (c *Converter) Define(t *Type) error { return c.universe.Define(t) }

// Register maps a declared struct or class name to a Go struct so that host
// values of that Go type convert to instances of it.
func (c *Converter) Register(name string, sample interface{}) error {
	if _, err := c.universe.Lookup(name); err != nil {
		return err
	}
	return c.interop.Register(name, reflect.TypeOf(sample))
}

// Attach creates a call site converting to the named target type.
func (c *Converter) Attach(target string, kind Kind, checked bool, scope Scope) (*CallSite, error) {
	t, err := c.universe.Lookup(target)
	if err != nil {
		return nil, err
	}
	return c.binder.Attach(Descriptor{Target: t, Kind: kind, Checked: checked, Scope: scope})
}

// Convert binds v at site. Runtime objects are bound as they are; any other
// Go value goes through host interop.
func (c *Converter) Convert(site *CallSite, v interface{}) (Object, error) {
	return c.ConvertOr(site, v, nil)
}

// ConvertOr is Convert with a fallback for resolution failures.
func (c *Converter) ConvertOr(site *CallSite, v interface{}, fallback Fallback) (Object, error) {
	operand, ok := v.(Object)
	if !ok {
		operand = object.NewHost(v)
	}
	return c.binder.Bind(site, operand, fallback)
}

// Value converts a runtime object back into a Go value. out must be a
// non-nil pointer; the value is converted to its element type.
func (c *Converter) Value(obj Object, out interface{}) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("value: out must be a non-nil pointer, got %T", out)
	}
	val, err := c.interop.Marshaller().FromObject(obj, rv.Elem().Type())
	if err != nil {
		return err
	}
	if val == nil {
		rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
		return nil
	}
	rv.Elem().Set(reflect.ValueOf(val))
	return nil
}

package interop

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/cast"
	"github.com/viant/xreflect"
	"go.dw1.io/safemath"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/funvibe/dynconv/internal/binder"
	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

// Foreign is an operand owned by the embedding Go program.
type Foreign interface {
	HostValue() interface{}
}

// Binder converts foreign operands. It opts in for every Foreign operand and
// for nothing else; its answers bypass the call-site cache.
type Binder struct {
	types      *xreflect.Types
	marshaller *Marshaller
}

func New(universe *typesystem.Universe) *Binder {
	return &Binder{
		types:      xreflect.NewTypes(),
		marshaller: NewMarshaller(universe),
	}
}

// Register maps a nominal class or struct name to the Go type whose values
// convert to it field by field.
func (b *Binder) Register(name string, rType reflect.Type) error {
	if rType == nil {
		return fmt.Errorf("register %s: reflect type is nil", name)
	}
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if rType.Kind() != reflect.Struct {
		return fmt.Errorf("register %s: %s is not a struct", name, rType)
	}
	if err := b.types.Register(name, xreflect.WithReflectType(rType)); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	return nil
}

// Marshaller returns the marshaller used for Object targets.
func (b *Binder) Marshaller() *Marshaller { return b.marshaller }

func (b *Binder) TryConvert(d binder.Descriptor, operand object.Object) (object.Object, bool, error) {
	foreign, ok := operand.(Foreign)
	if !ok {
		return nil, false, nil
	}
	result, err := b.convert(d, foreign.HostValue(), d.Target)
	return result, true, err
}

func (b *Binder) convert(d binder.Descriptor, v any, target *typesystem.Type) (object.Object, error) {
	v = unwrapProto(v)
	if v == nil {
		if target.IsReference() {
			return object.NULL, nil
		}
		return nil, b.noConversion(d, v, nil)
	}
	if obj, ok := v.(object.Object); ok {
		if typesystem.IsInstanceOf(obj.RuntimeType(), target) {
			return obj, nil
		}
		return nil, b.noConversion(d, v, nil)
	}

	var (
		result object.Object
		err    error
	)
	switch target.Kind {
	case typesystem.KindObject:
		result, err = b.marshaller.ToObject(v)
	case typesystem.KindHost:
		result = object.NewHost(v)
	case typesystem.KindNumeric, typesystem.KindChar:
		result, err = coerceNumber(v, target, d.Checked)
	case typesystem.KindBool:
		var flag bool
		if flag, err = cast.ToBoolE(v); err == nil {
			result = object.NewBoolean(flag)
		}
	case typesystem.KindString:
		var s string
		if s, err = cast.ToStringE(v); err == nil {
			result = object.NewString(s)
		}
	case typesystem.KindArray:
		result, err = b.toArray(d, v, target)
	case typesystem.KindClass, typesystem.KindStruct:
		result, err = b.toInstance(d, v, target)
	default:
		err = fmt.Errorf("%s targets are not supported", target.Kind)
	}
	if err == nil {
		return result, nil
	}

	var bindErr *binder.BindingError
	var overflow *binder.OverflowError
	switch {
	case errors.As(err, &bindErr), errors.As(err, &overflow):
		return nil, err
	case errors.Is(err, safemath.ErrTruncation):
		return nil, binder.NewOverflowError(fmt.Sprint(v), typesystem.Host, target, err)
	}
	return nil, b.noConversion(d, v, err)
}

func (b *Binder) toArray(d binder.Descriptor, v any, target *typesystem.Type) (object.Object, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%T is not a slice", v)
	}
	elements := make([]object.Object, rv.Len())
	for i := range elements {
		elem, err := b.convert(d, rv.Index(i).Interface(), target.Elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = elem
	}
	return object.NewArray(target, elements), nil
}

// toInstance copies the exported fields of a registered Go struct into an
// instance of target.
func (b *Binder) toInstance(d binder.Descriptor, v any, target *typesystem.Type) (object.Object, error) {
	rType, err := b.types.Lookup(target.Name)
	if err != nil || rType == nil {
		return nil, fmt.Errorf("no Go type registered for %s", target)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return object.NULL, nil
		}
		rv = rv.Elem()
	}
	if rv.Type() != rType {
		if !rv.Type().ConvertibleTo(rType) {
			return nil, fmt.Errorf("%s does not convert to %s", rv.Type(), rType)
		}
		rv = rv.Convert(rType)
	}

	inst := object.NewInstance(target)
	for _, f := range target.Fields {
		fv := rv.FieldByName(f.Name)
		if !fv.IsValid() || !fv.CanInterface() {
			continue
		}
		var value object.Object
		if f.Type == nil {
			value, err = b.marshaller.ToObject(fv.Interface())
		} else {
			value, err = b.convert(d, fv.Interface(), f.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		inst.Set(f.Name, value)
	}
	return inst, nil
}

func (b *Binder) noConversion(d binder.Descriptor, v any, cause error) error {
	failure := binder.NewBindingError(d, typesystem.Host, binder.NoConversion, nil)
	if cause == nil {
		return failure
	}
	return fmt.Errorf("%w: host %T: %v", failure, v, cause)
}

// unwrapProto replaces a protobuf well-known wrapper (Int32Value, StringValue, ...)
// with the value it carries.
func unwrapProto(v any) any {
	msg, ok := v.(proto.Message)
	if !ok {
		return v
	}
	m := msg.ProtoReflect()
	desc := m.Descriptor()
	if desc.ParentFile() == nil || desc.ParentFile().Package() != "google.protobuf" {
		return v
	}
	fd := desc.Fields().ByName(protoreflect.Name("value"))
	if fd == nil || desc.Fields().Len() != 1 {
		return v
	}
	if !m.IsValid() {
		return nil
	}
	return m.Get(fd).Interface()
}

package interop

import (
	"fmt"
	"reflect"

	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

// Marshaller handles conversion between Go values and runtime objects.
type Marshaller struct {
	universe *typesystem.Universe
}

func NewMarshaller(universe *typesystem.Universe) *Marshaller {
	if universe == nil {
		universe = typesystem.NewUniverse()
	}
	return &Marshaller{universe: universe}
}

// ToObject converts a Go value to the closest predeclared runtime object.
// Values without a predeclared counterpart stay host objects.
func (m *Marshaller) ToObject(val interface{}) (object.Object, error) {
	if val == nil {
		return object.NULL, nil
	}
	if obj, ok := val.(object.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return object.NULL, nil
	}

	switch v.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int, reflect.Int64:
		return object.NewInteger(nominal(v.Type()), v.Int()), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64:
		return object.NewUnsigned(nominal(v.Type()), v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return object.NewFloat(nominal(v.Type()), v.Float()), nil
	case reflect.Bool:
		return object.NewBoolean(v.Bool()), nil
	case reflect.String:
		return object.NewString(v.String()), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return object.NULL, nil
		}
		return m.sliceToArray(v)
	default:
		// Pointers, structs, maps and funcs keep their identity.
		return object.NewHost(val), nil
	}
}

func (m *Marshaller) sliceToArray(v reflect.Value) (*object.Array, error) {
	elements := make([]object.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem, err := m.ToObject(v.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		elements[i] = elem
	}
	return object.NewArray(m.universe.ArrayOf(nominal(v.Type().Elem())), elements), nil
}

// FromObject converts a runtime object to a Go value.
// targetType is optional; if provided, the result is converted to it.
func (m *Marshaller) FromObject(obj object.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}
	if targetType != nil && targetType == reflect.TypeOf((*object.Object)(nil)).Elem() {
		return obj, nil
	}

	var result interface{}
	switch o := obj.(type) {
	case *object.Integer:
		result = o.Value
	case *object.Unsigned:
		result = o.Value
	case *object.Float:
		result = o.Value
	case *object.Char:
		result = rune(o.Value)
	case *object.Boolean:
		result = o.Value
	case *object.String:
		result = o.Value
	case *object.Null:
		return nil, nil
	case *object.Host:
		result = o.Value
	case *object.Array:
		return m.arrayToSlice(o, targetType)
	case *object.Instance:
		return m.instanceToGo(o, targetType)
	default:
		return nil, fmt.Errorf("unsupported type for conversion: %s", o.Type())
	}
	return convertTo(result, targetType)
}

func (m *Marshaller) arrayToSlice(a *object.Array, targetType reflect.Type) (interface{}, error) {
	elemType := reflect.TypeOf((*interface{})(nil)).Elem()
	if targetType != nil {
		if targetType.Kind() != reflect.Slice {
			return nil, fmt.Errorf("cannot convert %s to %s", a.T, targetType)
		}
		elemType = targetType.Elem()
	}
	slice := reflect.MakeSlice(reflect.SliceOf(elemType), len(a.Elements), len(a.Elements))
	for i, e := range a.Elements {
		val, err := m.FromObject(e, elemType)
		if err != nil {
			return nil, err
		}
		if val != nil {
			slice.Index(i).Set(reflect.ValueOf(val))
		}
	}
	return slice.Interface(), nil
}

func (m *Marshaller) instanceToGo(inst *object.Instance, targetType reflect.Type) (interface{}, error) {
	if targetType == nil || targetType.Kind() == reflect.Map || targetType.Kind() == reflect.Interface {
		result := make(map[string]interface{}, len(inst.Fields))
		for k, v := range inst.Fields {
			val, err := m.FromObject(v, nil)
			if err != nil {
				return nil, err
			}
			result[k] = val
		}
		return result, nil
	}

	ptr := targetType.Kind() == reflect.Ptr
	structType := targetType
	if ptr {
		structType = targetType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot convert %s to %s", inst.T, targetType)
	}
	out := reflect.New(structType).Elem()
	for name, v := range inst.Fields {
		field := out.FieldByName(name)
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		val, err := m.FromObject(v, field.Type())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		if val != nil {
			field.Set(reflect.ValueOf(val))
		}
	}
	if ptr {
		return out.Addr().Interface(), nil
	}
	return out.Interface(), nil
}

func convertTo(val interface{}, targetType reflect.Type) (interface{}, error) {
	if targetType == nil || val == nil {
		return val, nil
	}
	v := reflect.ValueOf(val)
	if v.Type().AssignableTo(targetType) {
		return val, nil
	}
	if v.Type().ConvertibleTo(targetType) {
		return v.Convert(targetType).Interface(), nil
	}
	return nil, fmt.Errorf("cannot convert %T to %s", val, targetType)
}

// nominal maps a Go type to the predeclared type with the same representation.
func nominal(t reflect.Type) *typesystem.Type {
	switch t.Kind() {
	case reflect.Int8:
		return typesystem.Int8
	case reflect.Int16:
		return typesystem.Int16
	case reflect.Int32:
		return typesystem.Int32
	case reflect.Int, reflect.Int64:
		return typesystem.Int64
	case reflect.Uint8:
		return typesystem.UInt8
	case reflect.Uint16:
		return typesystem.UInt16
	case reflect.Uint32:
		return typesystem.UInt32
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return typesystem.UInt64
	case reflect.Float32:
		return typesystem.Float32
	case reflect.Float64:
		return typesystem.Float64
	case reflect.Bool:
		return typesystem.Bool
	case reflect.String:
		return typesystem.String
	}
	return typesystem.Object
}

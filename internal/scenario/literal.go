package scenario

import (
	"unicode/utf16"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/funvibe/dynconv/internal/object"
	"github.com/funvibe/dynconv/internal/typesystem"
)

// Literal builds the runtime value described by l. hint is the type to use
// when the literal names none, e.g. a declared field or array element type.
func (s *Scenario) Literal(l *Literal, hint *typesystem.Type) (object.Object, error) {
	if l == nil {
		return object.NULL, nil
	}
	if l.Host != nil {
		return object.NewHost(l.Host), nil
	}

	t := hint
	if l.Type != "" {
		var err error
		if t, err = s.Universe.Lookup(l.Type); err != nil {
			return nil, err
		}
	}
	if t == nil {
		if l.Value == nil && l.Fields == nil && l.Elements == nil {
			return object.NULL, nil
		}
		return nil, errors.Errorf("literal %v: type is required", l.Value)
	}

	switch t.Kind {
	case typesystem.KindNull:
		return object.NULL, nil
	case typesystem.KindNumeric, typesystem.KindChar:
		return number(l.Value, t)
	case typesystem.KindBool:
		v, err := cast.ToBoolE(l.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "literal of %s", t)
		}
		return object.NewBoolean(v), nil
	case typesystem.KindString:
		if l.Value == nil {
			return object.NULL, nil
		}
		v, err := cast.ToStringE(l.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "literal of %s", t)
		}
		return object.NewString(v), nil
	case typesystem.KindHost:
		return object.NewHost(l.Value), nil
	case typesystem.KindArray:
		elements := make([]object.Object, len(l.Elements))
		for i, e := range l.Elements {
			v, err := s.Literal(e, t.Elem)
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			elements[i] = v
		}
		return object.NewArray(t, elements), nil
	case typesystem.KindClass, typesystem.KindStruct:
		return s.instance(l, t)
	}
	return nil, errors.Errorf("%s %s has no literals, give a concrete type", t.Kind, t)
}

func (s *Scenario) instance(l *Literal, t *typesystem.Type) (object.Object, error) {
	if l.Value != nil {
		return nil, errors.Errorf("literal of %s: use fields, not value", t)
	}
	inst := object.NewInstance(t)
	for _, c := range t.BaseChain()[1:] {
		for _, f := range c.Fields {
			inst.Set(f.Name, object.NULL)
		}
	}
	for name, fl := range l.Fields {
		f, ok := lookupField(t, name)
		if !ok {
			return nil, errors.Errorf("%s has no field %s", t, name)
		}
		v, err := s.Literal(fl, f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", t, name)
		}
		inst.Set(name, v)
	}
	return inst, nil
}

func lookupField(t *typesystem.Type, name string) (typesystem.Field, bool) {
	for _, c := range t.BaseChain() {
		if f, ok := c.Field(name); ok {
			return f, true
		}
	}
	return typesystem.Field{}, false
}

func number(v interface{}, t *typesystem.Type) (object.Object, error) {
	num := t.Num
	switch {
	case num == typesystem.NumChar:
		if str, ok := v.(string); ok {
			units := utf16.Encode([]rune(str))
			if len(units) != 1 {
				return nil, errors.Errorf("char literal %q must be a single UTF-16 unit", str)
			}
			return object.NewChar(units[0]), nil
		}
		c, err := cast.ToUint16E(v)
		if err != nil {
			return nil, errors.Wrapf(err, "literal of %s", t)
		}
		return object.NewChar(c), nil
	case num.Float():
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, errors.Wrapf(err, "literal of %s", t)
		}
		return object.NewFloat(t, f), nil
	case num.Signed():
		i, err := cast.ToInt64E(v)
		if err != nil {
			return nil, errors.Wrapf(err, "literal of %s", t)
		}
		if bits := num.Bits(); bits < 64 && (i < -(1<<(bits-1)) || i >= 1<<(bits-1)) {
			return nil, errors.Errorf("literal %d is out of range for %s", i, t)
		}
		return object.NewInteger(t, i), nil
	default:
		u, err := cast.ToUint64E(v)
		if err != nil {
			return nil, errors.Wrapf(err, "literal of %s", t)
		}
		if bits := num.Bits(); bits < 64 && u >= 1<<bits {
			return nil, errors.Errorf("literal %d is out of range for %s", u, t)
		}
		return object.NewUnsigned(t, u), nil
	}
}

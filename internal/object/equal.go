package object

import "reflect"

// Equal performs a deep equality check. Runtime types must be identical,
// except for references which compare by identity.
func Equal(a, b Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type() != b.Type() || a.RuntimeType() != b.RuntimeType() {
		return false
	}

	switch aVal := a.(type) {
	case *Integer:
		return aVal.Value == b.(*Integer).Value
	case *Unsigned:
		return aVal.Value == b.(*Unsigned).Value
	case *Float:
		return aVal.Value == b.(*Float).Value
	case *Char:
		return aVal.Value == b.(*Char).Value
	case *Boolean:
		return aVal.Value == b.(*Boolean).Value
	case *String:
		return aVal.Value == b.(*String).Value
	case *Null:
		return true
	case *Instance:
		bVal := b.(*Instance)
		if len(aVal.Fields) != len(bVal.Fields) {
			return false
		}
		for k, v := range aVal.Fields {
			if !Equal(v, bVal.Get(k)) {
				return false
			}
		}
		return true
	case *Array:
		bVal := b.(*Array)
		if len(aVal.Elements) != len(bVal.Elements) {
			return false
		}
		for i := range aVal.Elements {
			if !Equal(aVal.Elements[i], bVal.Elements[i]) {
				return false
			}
		}
		return true
	case *Host:
		return reflect.DeepEqual(aVal.Value, b.(*Host).Value)
	}
	return false
}

package typesystem

// implicitNumeric lists, per source representation, the targets reachable
// by a widening conversion.
var implicitNumeric = map[NumKind][]NumKind{
	NumInt8:    {NumInt16, NumInt32, NumInt64, NumFloat32, NumFloat64},
	NumUInt8:   {NumInt16, NumUInt16, NumInt32, NumUInt32, NumInt64, NumUInt64, NumFloat32, NumFloat64},
	NumInt16:   {NumInt32, NumInt64, NumFloat32, NumFloat64},
	NumUInt16:  {NumInt32, NumUInt32, NumInt64, NumUInt64, NumFloat32, NumFloat64},
	NumInt32:   {NumInt64, NumFloat32, NumFloat64},
	NumUInt32:  {NumInt64, NumUInt64, NumFloat32, NumFloat64},
	NumInt64:   {NumFloat32, NumFloat64},
	NumUInt64:  {NumFloat32, NumFloat64},
	NumChar:    {NumUInt16, NumInt32, NumUInt32, NumInt64, NumUInt64, NumFloat32, NumFloat64},
	NumFloat32: {NumFloat64},
}

// HasImplicitNumeric reports a widening numeric conversion from -> to.
func HasImplicitNumeric(from, to *Type) bool {
	if !from.IsNumeric() || !to.IsNumeric() || from == to {
		return false
	}
	// Nothing widens into char.
	if to.Num == NumChar {
		return false
	}
	for _, n := range implicitNumeric[from.Num] {
		if n == to.Num {
			return true
		}
	}
	return false
}

// HasExplicitNumeric reports a numeric conversion from -> to that is not implicit.
func HasExplicitNumeric(from, to *Type) bool {
	return from.IsNumeric() && to.IsNumeric() && from != to && !HasImplicitNumeric(from, to)
}

// HasImplicitReference reports an implicit reference conversion from -> to.
func HasImplicitReference(from, to *Type) bool {
	if from == to || !to.IsReference() {
		return false
	}
	if from.Kind == KindNull {
		return true
	}
	if !from.IsReference() {
		return false
	}
	if to.Kind == KindObject {
		return true
	}
	switch from.Kind {
	case KindClass:
		if to.Kind == KindClass {
			return from.IsSubclassOf(to)
		}
		return from.Implements(to)
	case KindInterface:
		return from.Implements(to)
	case KindArray:
		if to.Kind != KindArray {
			return false
		}
		return from.Elem.IsReference() && to.Elem.IsReference() && HasImplicitReference(from.Elem, to.Elem)
	}
	return false
}

// HasBoxing reports a boxing conversion from a value type.
func HasBoxing(from, to *Type) bool {
	if !from.IsValue() {
		return false
	}
	return to.Kind == KindObject || from.Implements(to)
}

// HasExplicitReference reports an explicit (checked at run time) reference
// conversion from -> to that is not implicit.
func HasExplicitReference(from, to *Type) bool {
	if from == to || !from.IsReference() || !to.IsReference() || HasImplicitReference(from, to) {
		return false
	}
	if from.Kind == KindObject {
		return true
	}
	switch from.Kind {
	case KindClass:
		switch to.Kind {
		case KindClass:
			return to.IsSubclassOf(from)
		case KindInterface:
			return !from.Sealed
		}
	case KindInterface:
		switch to.Kind {
		case KindClass:
			return !to.Sealed || to.Implements(from)
		case KindInterface:
			return true
		}
	case KindArray:
		if to.Kind != KindArray {
			return false
		}
		return from.Elem.IsReference() && to.Elem.IsReference() && HasExplicitReference(from.Elem, to.Elem)
	}
	return false
}

// HasUnboxing reports an unboxing conversion into a value type.
func HasUnboxing(from, to *Type) bool {
	if !to.IsValue() {
		return false
	}
	if from.Kind == KindObject {
		return true
	}
	return from.Kind == KindInterface && to.Implements(from)
}

// HasStandardImplicit reports a standard implicit conversion: identity,
// implicit numeric, implicit reference or boxing.
func HasStandardImplicit(from, to *Type) bool {
	return from == to || HasImplicitNumeric(from, to) || HasImplicitReference(from, to) || HasBoxing(from, to)
}

// HasStandardExplicit reports a standard conversion that needs an explicit
// context (or an implicit one).
func HasStandardExplicit(from, to *Type) bool {
	return HasStandardImplicit(from, to) ||
		HasExplicitNumeric(from, to) ||
		HasExplicitReference(from, to) ||
		HasUnboxing(from, to)
}

// IsInstanceOf reports whether a value whose runtime type is rt may be
// viewed as a t without changing representation.
func IsInstanceOf(rt, t *Type) bool {
	return rt == t || HasImplicitReference(rt, t) || HasBoxing(rt, t)
}

package typesystem

// Kind classifies a nominal type.
type Kind int

const (
	KindNull Kind = iota
	KindObject
	KindBool
	KindChar
	KindNumeric
	KindString
	KindClass
	KindStruct
	KindInterface
	KindArray
	KindHost
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindNumeric:
		return "numeric"
	case KindString:
		return "string"
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindArray:
		return "array"
	case KindHost:
		return "host"
	}
	return "unknown"
}

// ParseKind maps a declaration keyword to a Kind.
// Only user-declarable kinds are accepted.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "class":
		return KindClass, true
	case "struct":
		return KindStruct, true
	case "interface":
		return KindInterface, true
	}
	return 0, false
}

// NumKind is the machine representation of a numeric (or char) type.
type NumKind int

const (
	NumNone NumKind = iota
	NumInt8
	NumUInt8
	NumInt16
	NumUInt16
	NumInt32
	NumUInt32
	NumInt64
	NumUInt64
	NumFloat32
	NumFloat64
	NumChar // UTF-16 code unit
)

// Bits returns the width of the representation.
func (n NumKind) Bits() int {
	switch n {
	case NumInt8, NumUInt8:
		return 8
	case NumInt16, NumUInt16, NumChar:
		return 16
	case NumInt32, NumUInt32, NumFloat32:
		return 32
	case NumInt64, NumUInt64, NumFloat64:
		return 64
	}
	return 0
}

func (n NumKind) Signed() bool {
	switch n {
	case NumInt8, NumInt16, NumInt32, NumInt64, NumFloat32, NumFloat64:
		return true
	}
	return false
}

func (n NumKind) Float() bool {
	return n == NumFloat32 || n == NumFloat64
}

func (n NumKind) Integral() bool {
	return n != NumNone && !n.Float()
}

// Visibility of a type or an operator declaration.
type Visibility int

const (
	Public Visibility = iota
	Internal
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Private:
		return "private"
	}
	return "unknown"
}

// ParseVisibility accepts "", "public", "internal" and "private".
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "", "public":
		return Public, true
	case "internal":
		return Internal, true
	case "private":
		return Private, true
	}
	return 0, false
}

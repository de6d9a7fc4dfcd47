package binder

import "fmt"

// Kind is the conversion kind a call site was compiled for.
type Kind int

const (
	Identity Kind = iota
	ImplicitNumeric
	ImplicitReference
	Boxing
	Unboxing
	ImplicitUserDefined
	ExplicitNumeric
	ExplicitReference
	UnboxingWithCheck
	ExplicitUserDefined
	ArrayConversion
	AssignmentConversion
)

var kindNames = [...]string{
	Identity:             "Identity",
	ImplicitNumeric:      "ImplicitNumeric",
	ImplicitReference:    "ImplicitReference",
	Boxing:               "Boxing",
	Unboxing:             "Unboxing",
	ImplicitUserDefined:  "ImplicitUserDefined",
	ExplicitNumeric:      "ExplicitNumeric",
	ExplicitReference:    "ExplicitReference",
	UnboxingWithCheck:    "UnboxingWithCheck",
	ExplicitUserDefined:  "ExplicitUserDefined",
	ArrayConversion:      "ArrayConversion",
	AssignmentConversion: "AssignmentConversion",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Valid() bool {
	return k >= Identity && k <= AssignmentConversion
}

// IsExplicit reports whether the kind admits explicit conversions,
// user-defined explicit operators included.
func (k Kind) IsExplicit() bool {
	switch k {
	case Identity, ImplicitNumeric, ImplicitReference, Boxing, ImplicitUserDefined,
		ArrayConversion, AssignmentConversion:
		return false
	case Unboxing, ExplicitNumeric, ExplicitReference, UnboxingWithCheck, ExplicitUserDefined:
		return true
	}
	panic(fmt.Sprintf("unhandled conversion kind %d", int(k)))
}

// ParseKind maps a kind name, as printed by String, to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

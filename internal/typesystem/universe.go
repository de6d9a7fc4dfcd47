package typesystem

import (
	"sort"
	"sync"
)

// Universe is a set of named types. Predeclared types are always present.
// Array types are interned so that T[] has a single identity per universe.
type Universe struct {
	mu     sync.RWMutex
	types  map[string]*Type
	arrays map[*Type]*Type
}

// NewUniverse creates a universe holding the predeclared types.
func NewUniverse() *Universe {
	u := &Universe{
		types:  make(map[string]*Type),
		arrays: make(map[*Type]*Type),
	}
	for _, t := range Predeclared {
		u.types[t.Name] = t
	}
	return u
}

// Define adds a user type. Names are unique per universe.
func (u *Universe) Define(t *Type) error {
	if t.Name == "" {
		return NewInvalidTypeError(t.Name, "name is required")
	}
	if _, arr := isArrayName(t.Name); arr {
		return NewInvalidTypeError(t.Name, "array types are derived, not defined")
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, exists := u.types[t.Name]; exists {
		return NewDuplicateTypeError(t.Name)
	}
	u.types[t.Name] = t
	return nil
}

// Lookup resolves a type name; "T[]" resolves to the array of T.
func (u *Universe) Lookup(name string) (*Type, error) {
	if elemName, arr := isArrayName(name); arr {
		elem, err := u.Lookup(elemName)
		if err != nil {
			return nil, err
		}
		return u.ArrayOf(elem), nil
	}
	u.mu.RLock()
	t, ok := u.types[name]
	u.mu.RUnlock()
	if !ok {
		return nil, NewTypeNotFoundError(name)
	}
	return t, nil
}

// ArrayOf returns the interned array type with the given element type.
func (u *Universe) ArrayOf(elem *Type) *Type {
	u.mu.RLock()
	t, ok := u.arrays[elem]
	u.mu.RUnlock()
	if ok {
		return t
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if t, ok := u.arrays[elem]; ok {
		return t
	}
	t = &Type{Kind: KindArray, Elem: elem, Package: elem.Package, Visibility: elem.Visibility, Sealed: true}
	u.arrays[elem] = t
	return t
}

// Types returns all named types sorted by name.
func (u *Universe) Types() []*Type {
	u.mu.RLock()
	defer u.mu.RUnlock()
	result := make([]*Type, 0, len(u.types))
	for _, t := range u.types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

package object

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/funvibe/dynconv/internal/typesystem"
)

// Instance is a value of a user-declared class or struct.
type Instance struct {
	T      *typesystem.Type
	Fields map[string]Object
}

// NewInstance creates an instance with every declared field set to null.
func NewInstance(t *typesystem.Type) *Instance {
	inst := &Instance{T: t, Fields: make(map[string]Object, len(t.Fields))}
	for _, f := range t.Fields {
		inst.Fields[f.Name] = NULL
	}
	return inst
}

func (i *Instance) Type() ObjectType              { return INSTANCE_OBJ }
func (i *Instance) RuntimeType() *typesystem.Type { return i.T }

func (i *Instance) Inspect() string {
	keys := i.keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+i.Fields[k].Inspect())
	}
	return fmt.Sprintf("%s{%s}", i.T, strings.Join(parts, ", "))
}

func (i *Instance) Hash() uint32 {
	h := hashString(i.T.QualifiedName())
	for _, k := range i.keys() {
		h = 31*h + hashString(k) ^ i.Fields[k].Hash()
	}
	return h
}

func (i *Instance) keys() []string {
	keys := make([]string, 0, len(i.Fields))
	for k := range i.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns a field, or null if the field is unset.
func (i *Instance) Get(name string) Object {
	if v, ok := i.Fields[name]; ok && v != nil {
		return v
	}
	return NULL
}

func (i *Instance) Set(name string, v Object) {
	i.Fields[name] = v
}

// Copy returns a shallow copy. Struct values are copied on assignment.
func (i *Instance) Copy() *Instance {
	fields := make(map[string]Object, len(i.Fields))
	for k, v := range i.Fields {
		fields[k] = v
	}
	return &Instance{T: i.T, Fields: fields}
}

// Array is a reference to a fixed-size vector of elements.
type Array struct {
	T        *typesystem.Type
	Elements []Object
}

func NewArray(t *typesystem.Type, elements []Object) *Array {
	return &Array{T: t, Elements: elements}
}

func (a *Array) Type() ObjectType              { return ARRAY_OBJ }
func (a *Array) RuntimeType() *typesystem.Type { return a.T }
func (a *Array) Len() int                      { return len(a.Elements) }

func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.Inspect()
	}
	return fmt.Sprintf("%s{%s}", a.T, strings.Join(parts, ", "))
}

func (a *Array) Hash() uint32 {
	h := hashString(a.T.String())
	for _, e := range a.Elements {
		h = 31*h + e.Hash()
	}
	return h
}

// Host wraps a Go value handed in by the embedding program.
type Host struct {
	Value interface{}
}

func NewHost(v interface{}) *Host { return &Host{Value: v} }

func (h *Host) Type() ObjectType              { return HOST_OBJ }
func (h *Host) RuntimeType() *typesystem.Type { return typesystem.Host }
func (h *Host) HostValue() interface{}        { return h.Value }

func (h *Host) Inspect() string {
	return fmt.Sprintf("<HostObject: %T %+v>", h.Value, h.Value)
}

func (h *Host) Hash() uint32 {
	if h.Value == nil {
		return 0
	}
	val := reflect.ValueOf(h.Value)
	switch val.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Chan, reflect.Func, reflect.Map, reflect.Slice:
		return uint32(val.Pointer())
	default:
		return hashString(fmt.Sprintf("%v", h.Value))
	}
}

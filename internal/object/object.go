package object

import (
	"hash/fnv"

	"github.com/funvibe/dynconv/internal/typesystem"
)

type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	UNSIGNED_OBJ = "UNSIGNED"
	FLOAT_OBJ    = "FLOAT"
	CHAR_OBJ     = "CHAR"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	NULL_OBJ     = "NULL"
	INSTANCE_OBJ = "INSTANCE"
	ARRAY_OBJ    = "ARRAY"
	HOST_OBJ     = "HOST"
)

// Object is a run-time value flowing through a conversion site.
type Object interface {
	Type() ObjectType
	Inspect() string
	RuntimeType() *typesystem.Type
	Hash() uint32
}

// Helper for hashing strings
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// From narrows a typesystem.Value returned by an operator implementation.
func From(v typesystem.Value) (Object, bool) {
	if v == nil {
		return NULL, true
	}
	o, ok := v.(Object)
	return o, ok
}

package typesystem

import "fmt"

// TypeNotFoundError indicates a type name is not defined in a universe
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("type not found: %s", e.Name)
}

func NewTypeNotFoundError(name string) *TypeNotFoundError {
	return &TypeNotFoundError{Name: name}
}

// DuplicateTypeError indicates a type name is defined twice
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("type already defined: %s", e.Name)
}

func NewDuplicateTypeError(name string) *DuplicateTypeError {
	return &DuplicateTypeError{Name: name}
}

// InvalidTypeError indicates a malformed type declaration
type InvalidTypeError struct {
	Name   string
	Reason string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type %q: %s", e.Name, e.Reason)
}

func NewInvalidTypeError(name, reason string) *InvalidTypeError {
	return &InvalidTypeError{Name: name, Reason: reason}
}

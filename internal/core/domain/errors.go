package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Every error returned by the services wraps exactly one of them.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("duplicate entry")
	ErrInvalidInput = errors.New("invalid input")
	ErrStorageFault = errors.New("storage fault")
)

// Error is a domain error with enough context for the transport layer
// to build a field-specific message.
type Error struct {
	Kind   error
	Entity string
	Field  string
	Value  string
	Fields map[string]string // per-field messages for ErrInvalidInput
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("%s not found with %s: %s", e.Entity, e.Field, e.Value)
	case ErrConflict:
		return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
	case ErrInvalidInput:
		if len(e.Fields) == 0 {
			return ErrInvalidInput.Error()
		}
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + e.Fields[k]
		}
		return "invalid input: " + strings.Join(parts, "; ")
	case ErrStorageFault:
		if e.Err != nil {
			return fmt.Sprintf("storage fault: %s: %v", e.Field, e.Err)
		}
		return fmt.Sprintf("storage fault: %s", e.Field)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound reports a missing entity looked up by key
func NotFound(entity, key string, value any) error {
	return &Error{Kind: ErrNotFound, Entity: entity, Field: key, Value: fmt.Sprint(value)}
}

// Conflict reports a violated uniqueness invariant
func Conflict(entity, field string, value any) error {
	return &Error{Kind: ErrConflict, Entity: entity, Field: field, Value: fmt.Sprint(value)}
}

// Invalid reports malformed input with per-field messages
func Invalid(fields map[string]string) error {
	return &Error{Kind: ErrInvalidInput, Fields: fields}
}

// InvalidField reports a single malformed field
func InvalidField(field, message string) error {
	return Invalid(map[string]string{field: message})
}

// StorageFault wraps an unexpected persistence or blob-store failure
func StorageFault(op string, err error) error {
	return &Error{Kind: ErrStorageFault, Field: op, Err: err}
}

// AsError extracts the *Error from err's chain, if any
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

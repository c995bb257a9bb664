package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an application error
type Kind string

const (
	KindValidation        Kind = "validation"
	KindCircularReference Kind = "circular_reference"
	KindConflict          Kind = "conflict"
	KindNotFound          Kind = "not_found"
	KindStorage           Kind = "storage"
)

// Sentinels matched by errors.Is against any *Error of the same kind
var (
	ErrValidation        = errors.New("validation failed")
	ErrCircularReference = errors.New("circular reference")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage failure")
)

// Error is the single error type surfaced by the catalog use cases
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func sentinel(kind Kind) error {
	switch kind {
	case KindValidation:
		return ErrValidation
	case KindCircularReference:
		return ErrCircularReference
	case KindConflict:
		return ErrConflict
	case KindNotFound:
		return ErrNotFound
	case KindStorage:
		return ErrStorage
	}
	return nil
}

// Validation reports a single invalid field
func Validation(field, message string) *Error {
	return ValidationFields(map[string]string{field: message})
}

// ValidationFields reports several invalid fields at once
func ValidationFields(fields map[string]string) *Error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msg := "The given data was invalid"
	if len(keys) > 0 {
		msg = fields[keys[0]]
		if len(keys) > 1 {
			msg = fmt.Sprintf("%s (and %d more errors)", msg, len(keys)-1)
		}
	}

	return &Error{
		Kind:    KindValidation,
		Message: msg,
		Fields:  fields,
		Status:  http.StatusUnprocessableEntity,
	}
}

// CircularReference reports a brand parent assignment that would form a cycle
func CircularReference(message string) *Error {
	return &Error{
		Kind:    KindCircularReference,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
	}
}

// Conflict reports a uniqueness or state conflict
func Conflict(message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// DeleteBlocked reports a delete refused because dependents still exist
func DeleteBlocked(message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
	}
}

// NotFound reports an unknown resource id or code
func NotFound(resource string, key interface{}) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, key),
		Status:  http.StatusNotFound,
	}
}

// Storage wraps a blob store failure
func Storage(op, path string, err error) *Error {
	return &Error{
		Kind:    KindStorage,
		Message: fmt.Sprintf("storage %s failed for %s", op, path),
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HTTPStatus maps any error to a response status code
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// FieldErrors returns the field messages carried by a validation error
func FieldErrors(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// Public returns a message safe to show to API clients
func Public(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Kind == KindStorage {
			return "Storage operation failed"
		}
		return appErr.Message
	}
	return "Internal server error"
}

// FieldSet collects field messages before turning them into one validation error
type FieldSet map[string]string

// Add records message for field unless the field already has one
func (f FieldSet) Add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// Err returns nil when no field was recorded
func (f FieldSet) Err() error {
	if len(f) == 0 {
		return nil
	}
	return ValidationFields(map[string]string(f))
}

// String is used in logs
func (f FieldSet) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

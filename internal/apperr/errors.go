// Package apperr defines the error taxonomy shared by the data access
// layer. Callers branch on these types with errors.As/errors.Is; the
// HTTP layer maps them to status codes in one place.
package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by authentication for both an
// unknown account and a wrong password. The two cases are logged
// server-side but never distinguished for the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports a missing or malformed required field. It is
// raised before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateEntityError reports a uniqueness violation, either
// tenant-scoped (panels, tenant users) or global (manager/admin
// usernames).
type DuplicateEntityError struct {
	Entity string
	Key    string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Key)
}

// Duplicate builds a DuplicateEntityError.
func Duplicate(entity, key string) *DuplicateEntityError {
	return &DuplicateEntityError{Entity: entity, Key: key}
}

// NotFoundError reports a lookup miss.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// NotFound builds a NotFoundError.
func NotFound(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

// ConnectionError reports that the underlying store stayed unreachable
// after the bounded retry/backoff window.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store unreachable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SchemaConflictError reports an existing, incompatible constraint that
// blocks tenant provisioning. It is never auto-remediated on the
// request path; the operator runs the offline index migration instead.
type SchemaConflictError struct {
	Constraint string
	Detail     string
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("conflicting constraint %s: %s", e.Constraint, e.Detail)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicate reports whether err is a DuplicateEntityError.
func IsDuplicate(err error) bool {
	var de *DuplicateEntityError
	return errors.As(err, &de)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsConnection reports whether err is a ConnectionError.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsSchemaConflict reports whether err is a SchemaConflictError.
func IsSchemaConflict(err error) bool {
	var se *SchemaConflictError
	return errors.As(err, &se)
}

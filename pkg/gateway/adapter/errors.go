package adapter

import (
	"errors"
	"fmt"

	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Standard adapter errors. Adapters surface backend failures through these
// sentinels (wrapped with context); only the response normalizer translates
// them into the gateway's error taxonomy.
var (
	// ErrNotFound is returned when a key, node, or table does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when operation parameters are malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when an operation conflicts with existing state
	ErrConflict = errors.New("conflict with existing state")

	// ErrConnectionFailed is returned when a connection attempt fails
	ErrConnectionFailed = errors.New("connection failed")

	// ErrConnectionClosed is returned when attempting to use a closed connection
	ErrConnectionClosed = errors.New("connection is closed")

	// ErrOperationNotSupported is returned when an operation kind is not
	// implemented by the adapter
	ErrOperationNotSupported = errors.New("operation not supported")

	// ErrNotConfigured is returned when a paradigm has no connection settings
	ErrNotConfigured = errors.New("paradigm not configured")
)

// StoreError wraps backend-specific errors with paradigm and operation
// context. This provides a consistent error structure across all adapters.
type StoreError struct {
	Paradigm  paradigm.Paradigm
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Paradigm, e.Operation, e.Cause)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError.
func NewStoreError(p paradigm.Paradigm, operation string, cause error) *StoreError {
	return &StoreError{
		Paradigm:  p,
		Operation: operation,
		Cause:     cause,
	}
}

// WrapError wraps an error with paradigm context.
// If the error is already a StoreError, it returns it as-is.
func WrapError(p paradigm.Paradigm, operation string, err error) error {
	if err == nil {
		return nil
	}

	// Don't double-wrap
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	return NewStoreError(p, operation, err)
}

// InvalidInputError carries the offending field for caller errors.
type InvalidInputError struct {
	Paradigm paradigm.Paradigm
	Field    string
	Reason   string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input for %s: field '%s': %s", e.Paradigm, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input for %s: %s", e.Paradigm, e.Reason)
}

// Is reports ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return errors.Is(target, ErrInvalidInput)
}

// NewInvalidInputError creates a new InvalidInputError.
func NewInvalidInputError(p paradigm.Paradigm, field, reason string) *InvalidInputError {
	return &InvalidInputError{Paradigm: p, Field: field, Reason: reason}
}

// NotFoundError is returned when a resource is not found.
type NotFoundError struct {
	Paradigm     paradigm.Paradigm
	ResourceType string
	ResourceName string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in %s store: %s", e.ResourceType, e.Paradigm, e.ResourceName)
}

// Is reports ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return errors.Is(target, ErrNotFound)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(p paradigm.Paradigm, resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{Paradigm: p, ResourceType: resourceType, ResourceName: resourceName}
}

// ConnectionError is returned when a connection error occurs.
type ConnectionError struct {
	Paradigm paradigm.Paradigm
	Host     string
	Port     int
	Cause    error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s backend at %s:%d: %v", e.Paradigm, e.Host, e.Port, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is reports ErrConnectionFailed.
func (e *ConnectionError) Is(target error) bool {
	if errors.Is(target, ErrConnectionFailed) {
		return true
	}
	return errors.Is(e.Cause, target)
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(p paradigm.Paradigm, host string, port int, cause error) *ConnectionError {
	return &ConnectionError{Paradigm: p, Host: host, Port: port, Cause: cause}
}

// UnsupportedOperationError is returned when an operation kind is not
// implemented by an adapter.
type UnsupportedOperationError struct {
	Paradigm  paradigm.Paradigm
	Operation string
}

// Error implements the error interface.
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s store does not support %s", e.Paradigm, e.Operation)
}

// Is reports ErrOperationNotSupported.
func (e *UnsupportedOperationError) Is(target error) bool {
	return errors.Is(target, ErrOperationNotSupported)
}

// NewUnsupportedOperationError creates a new UnsupportedOperationError.
func NewUnsupportedOperationError(p paradigm.Paradigm, operation string) *UnsupportedOperationError {
	return &UnsupportedOperationError{Paradigm: p, Operation: operation}
}

// IsNotFound checks if an error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput checks if an error indicates a caller error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConnectionError checks if an error is a connection error.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

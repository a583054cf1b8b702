package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	Is     = errors.Is
	As     = errors.As
	New    = errors.New
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

type ErrorCategory string

const (
	CategoryIO       ErrorCategory = "IO"       // File system issues
	CategoryStorage  ErrorCategory = "STORAGE"  // Backing store read failures
	CategoryResource ErrorCategory = "RESOURCE" // Resource not found, etc.
	CategoryContext  ErrorCategory = "CONTEXT"  // Context cancellation
	CategoryReleased ErrorCategory = "RELEASED" // Use after release
	CategoryUnknown  ErrorCategory = "UNKNOWN"  // Unclassified errors
)

// Common sentinel errors
var (
	ErrReleased    = New("materializer already released")
	ErrUnsupported = New("resource does not support file materialization")
	ErrNotFound    = New("resource not found")
	ErrNotRegular  = New("not a regular file")
)

// MaterializationError is returned when a file representation of a resource
// cannot be produced. It is never retried internally.
type MaterializationError struct {
	Err       error         // Original error
	Category  ErrorCategory // General category
	Resource  string        // Which resource was being materialized
	Path      string        // Temp or backing path involved, if any
	Timestamp time.Time     // When the error occurred
}

// Error implements the error interface
func (e *MaterializationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] materialize %s (%s): %v", e.Category, e.Resource, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] materialize %s: %v", e.Category, e.Resource, e.Err)
}

// Unwrap provides the underlying cause for error unwrapping (compatible with errors.As)
func (e *MaterializationError) Unwrap() error {
	return e.Err
}

// ReleaseError describes a failed cleanup. Release never returns it to callers;
// it only reaches the log.
type ReleaseError struct {
	Err      error
	Resource string
	Path     string
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("release %s (%s): %v", e.Resource, e.Path, e.Err)
}

func (e *ReleaseError) Unwrap() error {
	return e.Err
}

// NewIOError creates a filesystem related materialization error
func NewIOError(err error, resource, path string) *MaterializationError {
	return newMaterializationError(err, CategoryIO, resource, path)
}

// NewStorageError creates an error for a failed read from the backing store
func NewStorageError(err error, resource string) *MaterializationError {
	return newMaterializationError(err, CategoryStorage, resource, "")
}

// NewResourceError creates an error for a missing or unusable resource
func NewResourceError(err error, resource, path string) *MaterializationError {
	return newMaterializationError(err, CategoryResource, resource, path)
}

// NewContextError creates a context cancellation error
func NewContextError(err error, resource string) *MaterializationError {
	return newMaterializationError(err, CategoryContext, resource, "")
}

// NewReleasedError reports a File call made after Release
func NewReleasedError(resource string) *MaterializationError {
	return newMaterializationError(ErrReleased, CategoryReleased, resource, "")
}

func newMaterializationError(err error, category ErrorCategory, resource, path string) *MaterializationError {
	if err == nil {
		err = New("unknown error")
		category = CategoryUnknown
	}

	return &MaterializationError{
		Err:       err,
		Category:  category,
		Resource:  resource,
		Path:      path,
		Timestamp: time.Now(),
	}
}

// IsMaterializationError reports whether err carries a MaterializationError
func IsMaterializationError(err error) bool {
	var matErr *MaterializationError
	return As(err, &matErr)
}

// IsIOError determines if the error is I/O related
func IsIOError(err error) bool {
	var matErr *MaterializationError
	return As(err, &matErr) && matErr.Category == CategoryIO
}

// IsStorageError determines if the error came from the backing store
func IsStorageError(err error) bool {
	var matErr *MaterializationError
	return As(err, &matErr) && matErr.Category == CategoryStorage
}

// GetCategory extracts the category of a MaterializationError if available
func GetCategory(err error) (ErrorCategory, bool) {
	var matErr *MaterializationError
	if As(err, &matErr) {
		return matErr.Category, true
	}
	return CategoryUnknown, false
}

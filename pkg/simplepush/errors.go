package simplepush

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMissingMimeType indicates a push request without a declared mimetype
	ErrMissingMimeType = errors.New("mimetype is required")

	// ErrNoSource indicates a push request with no usable data source
	ErrNoSource = errors.New("no data source supplied")

	// ErrNoResourceOpener indicates a named resource was requested but no
	// opener is configured on the buffer
	ErrNoResourceOpener = errors.New("no resource opener configured")

	// ErrResourceNotFound indicates a named resource does not exist
	ErrResourceNotFound = errors.New("resource not found")
)

// ResourceError represents a failure opening or reading a data source. Name
// is empty when the source was an already-open handle.
type ResourceError struct {
	Name string
	Op   string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("source %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("resource %s failed for %q: %v", e.Op, e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// EncodingError represents text that could not be converted to or from the
// named character encoding. Encoder failures are propagated, never swallowed.
type EncodingError struct {
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %q failed: %v", e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

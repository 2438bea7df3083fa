package container

import (
	"errors"
	"fmt"
)

// Decoder errors
var (
	// ErrUnexpectedEOF is returned when the dequeuer runs out of data.
	ErrUnexpectedEOF = errors.New("container: unexpected end of data")

	// ErrSizeMismatch is returned when the size header disagrees with the data.
	ErrSizeMismatch = errors.New("container: size header mismatch")

	// ErrVarintOverflow is returned when a variable length integer is too long.
	ErrVarintOverflow = errors.New("container: variable length integer overflow")

	// ErrInvalidLength is returned when a length prefix exceeds the remaining data.
	ErrInvalidLength = errors.New("container: invalid length")
)

// DecodeError provides detailed information about a dequeue failure.
type DecodeError struct {
	Offset  int    // Byte offset where the error occurred
	Message string // Human-readable error description
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("container: decode error at offset %d: %s: %v", e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("container: decode error at offset %d: %s", e.Offset, e.Message)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError with the given parameters.
func NewDecodeError(offset int, message string, err error) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Message: message,
		Err:     err,
	}
}

package bundle

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the input ends before a complete
	// length prefix or field body could be read.
	ErrTruncated = errors.New("truncated bundle data")

	// ErrTrailingData is returned when bytes remain after the final field.
	ErrTrailingData = errors.New("trailing data after bundle")

	// ErrEmptyIdentifier is returned when the format identifier or suite ID
	// field is empty.
	ErrEmptyIdentifier = errors.New("empty identifier field")

	// ErrInvalidIdentifier is returned when an identifier field is not
	// valid UTF-8.
	ErrInvalidIdentifier = errors.New("identifier field is not valid UTF-8")

	// ErrFieldTooLong is returned when a field to be serialized does not fit
	// in a 4-byte length prefix.
	ErrFieldTooLong = errors.New("field too long to serialize")
)

// LimitError is returned when a declared field or total size exceeds the
// configured parse limits. It is raised before any allocation is attempted.
type LimitError struct {
	// Field is the name of the offending field, or "" for the total limit.
	Field string
	// Declared is the size the input claimed.
	Declared uint64
	// Limit is the configured maximum that was exceeded.
	Limit uint64
}

func (e *LimitError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("declared total size %d exceeds limit %d", e.Declared, e.Limit)
	}
	return fmt.Sprintf("declared size %d of field %s exceeds limit %d", e.Declared, e.Field, e.Limit)
}

package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput indicates the text cannot be turned into a header plus data rows.
	ErrMalformedInput = errors.New("malformed input")
	// ErrParse indicates the file could not be read or decoded.
	ErrParse = errors.New("error parsing file")
	// ErrDuplicateColumn is returned when the target column repeats, and in
	// strict mode when any header name repeats.
	ErrDuplicateColumn = fmt.Errorf("%w: duplicate column", ErrMalformedInput)
)

// UnknownTargetError reports a target column that is not part of the header.
type UnknownTargetError struct {
	Target  string
	Columns []string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("target column %q not found (available: %v)", e.Target, e.Columns)
}

// Unwrap lets errors.Is match ErrMalformedInput.
func (e *UnknownTargetError) Unwrap() error { return ErrMalformedInput }

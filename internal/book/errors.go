package book

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectivity is returned when the storage engine cannot be reached.
	ErrConnectivity = errors.New("storage unreachable")
	// ErrQuery is returned when the storage engine rejects a filter, update or pipeline.
	ErrQuery = errors.New("query rejected")
	// ErrInvalidArgument is returned before any storage access when an
	// operation parameter is out of range.
	ErrInvalidArgument = errors.New("invalid argument")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// opError wraps cause under kind so that both stay reachable with errors.Is.
func opError(op string, kind, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}

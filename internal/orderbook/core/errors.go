package core

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the only error kind raised by the matching core.
// It signals a caller bug; nothing is mutated when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgument wraps ErrInvalidArgument with a formatted message.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

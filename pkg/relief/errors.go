package relief

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a height grid, configuration or
// option set cannot describe a printable relief. It is always wrapped
// with a message naming the offending value.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

package timespec

import (
	"errors"
	"fmt"
)

// ErrInvalidSpecification is the only failure the package produces. It covers
// grammar mismatches, out-of-range fields, mixed sub-second forms and
// arithmetic overflow while summing weighted units.
var ErrInvalidSpecification = errors.New("invalid specification")

// invalidSpec wraps ErrInvalidSpecification with a message naming the
// offending input.
func invalidSpec(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpecification, fmt.Sprintf(format, args...))
}

package fluid

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when a Simulation cannot be built, or a
// tunable cannot be changed, because a parameter is out of range.
var ErrInvalidConfiguration = errors.New("fluid: invalid configuration")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfiguration}, args...)...)
}

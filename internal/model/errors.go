package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the store and the services around it. Callers
// match with errors.Is; storage failures wrap the driver error instead.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	// ErrFutureDate is a validation error: completion toggles are only
	// accepted for today or earlier.
	ErrFutureDate = fmt.Errorf("%w: completion date is in the future", ErrValidation)
)

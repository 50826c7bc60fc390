package victory

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("goal configuration error")
	ErrValidation    = errors.New("goal validation error")
	ErrUnknownEvent  = errors.New("unknown event")
	ErrUnknownPlayer = errors.New("unknown player")
)

// ValidationError describes an argument list that does not fit the declared
// shape of a goal.
type ValidationError struct {
	Expected string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("invalid goal arguments: %s", e.Reason)
	}
	return fmt.Sprintf("invalid goal arguments: %s (expected %s)", e.Reason, e.Expected)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

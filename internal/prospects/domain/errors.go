package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate        = errors.New("invalid calendar date")
	ErrInvalidAmount      = errors.New("invalid estimated value")
	ErrUnknownStatus      = errors.New("unknown prospect status")
	ErrUnknownTemperature = errors.New("unknown prospect temperature")
)

// CorruptStateError reports a persisted collection that could not be decoded.
type CorruptStateError struct {
	Key string
	Err error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt prospect state in slot %q: %v", e.Key, e.Err)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

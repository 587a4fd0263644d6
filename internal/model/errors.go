package model

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is; the returned errors carry
// the offending id or field as context.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
)

// NotFound reports that no item with the given id exists.
func NotFound(id string) error {
	return fmt.Errorf("item %s: %w", id, ErrNotFound)
}

// Invalid reports a rejected field value.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// Persistence wraps a failed durable write.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks input that failed validation. Wrap it with details.
var ErrValidation = errors.New("validation failed")

// ValidationError builds an ErrValidation carrying a human readable message.
func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// ValidationMessage strips the sentinel prefix from a validation error.
func ValidationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}

// RequireFields returns a validation error with msg when any value is blank.
func RequireFields(msg string, values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return ValidationError(msg)
		}
	}
	return nil
}

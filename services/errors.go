package services

import (
	"errors"
	"fmt"
	"strings"

	"go-fooddelivery/utils"
)

var (
	ErrMalformedBody = errors.New("malformed request body")
	ErrDuplicate     = errors.New("duplicate key")
)

// ValidationError is returned when a document or patch breaks a schema constraint
type ValidationError struct {
	Collection string
	Violations []utils.FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Collection, strings.Join(msgs, "; "))
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedBody, fmt.Sprintf(format, args...))
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmployeeNotFound signals a missing employee record.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrValidation signals invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrUnsupportedQueryType signals a query type outside match/term.
	ErrUnsupportedQueryType = errors.New("unsupported query type")
	// ErrUnsupportedMetricType signals a metric type outside avg/min/max.
	ErrUnsupportedMetricType = errors.New("unsupported metric type")
)

// ValidationError wraps ErrValidation with the offending parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

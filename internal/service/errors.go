package service

import (
	"errors"
	"fmt"
	"strings"

	"go-medspa-inventory/pkg/validator"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

var (
	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrTreatmentNotFound    = fmt.Errorf("treatment %w", ErrNotFound)
	ErrClientNotFound       = fmt.Errorf("client %w", ErrNotFound)
	ErrSKUExists            = fmt.Errorf("%w: SKU already exists", ErrConflict)
	ErrClientEmailExists    = fmt.Errorf("%w: client email already exists", ErrConflict)
)

// ValidationError carries field level detail back to the API caller.
type ValidationError struct {
	Fields []*validator.ErrorResponse
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s failed on %s", f.FailedField, f.Tag))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validate runs struct tags on req and wraps any failures.
func Validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// FieldError builds a single field ValidationError.
func FieldError(field, tag, param string) *ValidationError {
	return &ValidationError{Fields: []*validator.ErrorResponse{{FailedField: field, Tag: tag, Value: param}}}
}

// Package validation provides common validation utilities for the lazyflow library.
package validation

import (
	"reflect"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return lferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return lferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotNilFunc validates that a function value is set. Unlike
// ValidateNotNil it sees through the typed nil a nil func becomes once it is
// stored in an interface.
func ValidateNotNilFunc[F any](module, field string, fn F) error {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || (v.Kind() == reflect.Func && v.IsNil()) {
		return lferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return lferrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}

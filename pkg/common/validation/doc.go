// Package validation provides common validation utilities for configuration
// parameters and stage functions across the lazyflow library.
//
// Every helper returns a *errors.ValidationError that unwraps to
// errors.ErrInvalidConfiguration, so callers can test with errors.Is.
package validation

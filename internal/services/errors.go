// Package services implements the business logic between the HTTP layer
// and the venue store: validation, geocoding coordination, and derivation
// of the map/table view state. This file centralizes service-level error
// values so handlers can translate them into HTTP results consistently.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound indicates the requested venue does not exist.
	ErrLocationNotFound = errors.New("location not found")

	// ErrGeocodeFailed indicates the submitted address could not be
	// resolved to coordinates. It is recoverable: the caller should keep
	// the submitted values and ask the user to correct the address.
	ErrGeocodeFailed = errors.New("address could not be geocoded")
)

// ValidationError reports a rejected form field. It is recovered locally:
// the handler surfaces the message inline and no store write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// invalid is shorthand for constructing a *ValidationError.
func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

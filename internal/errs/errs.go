// Package errs defines the error taxonomy shared by the domain services.
// Validation failures and missing entities are typed so the HTTP layer can
// translate them without string matching; everything else is treated as an
// unexpected persistence error for that request.
package errs

import "fmt"

// ValidationError reports input that failed a format, range, or uniqueness
// rule. No state is mutated when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that does not exist where
// existence is required.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the given resource and id.
func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

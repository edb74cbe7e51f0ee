package services

import "errors"

// ErrForbidden marks a role/access-control denial; handlers map it to 403.
var ErrForbidden = errors.New("forbidden")

// ValidationError marks bad input shape or semantics (date ordering,
// cross-condo mismatch); handlers map it to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(msg string) error { return &ValidationError{Message: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

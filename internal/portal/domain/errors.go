package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnknownFocusArea = errors.New("unknown focus area")
	ErrUnknownIndicator = errors.New("unknown indicator")
	ErrDialogClosed     = errors.New("create dialog is not open")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionLimit     = errors.New("too many open sessions")
	ErrEditUnsupported  = errors.New("editing records is not supported")
)

// MissingFieldsError reports required draft fields that were empty at
// submit time.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// InvalidEmailError reports an email that does not look like local@domain.tld.
type InvalidEmailError struct {
	Email string
}

func (e *InvalidEmailError) Error() string {
	return "invalid email address: " + e.Email
}

// IsValidation reports whether err is a draft validation failure.
func IsValidation(err error) bool {
	var missing *MissingFieldsError
	var email *InvalidEmailError
	return errors.As(err, &missing) || errors.As(err, &email)
}

// Package validators holds the pure input checks that run before any
// network call. All checks are synchronous and total over string input;
// a failed check returns a *ValidationError, never panics.
package validators

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// validate is shared across calls; the validator instance is safe for
// concurrent use.
var validate = validator.New()

// ValidationError reports a client-side input shape failure. It is
// raised before any request leaves the process.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotEmpty fails when any field, after trimming whitespace, is empty.
func IsNotEmpty(fields ...string) error {
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			return newValidationError("", "all fields are required")
		}
	}
	return nil
}

// IsValidEmail fails unless value has a standard local@domain.tld shape.
func IsValidEmail(value string) error {
	if err := validate.Var(value, "required,email"); err != nil {
		return newValidationError("email", "invalid email format")
	}
	// validator/v10 accepts TLD-less addresses like a@b; the login form
	// requires a dot in the domain part.
	at := strings.LastIndex(value, "@")
	if at < 0 || !strings.Contains(value[at+1:], ".") {
		return newValidationError("email", "invalid email format")
	}
	return nil
}

// IsValidPassword enforces the minimum password policy: at least 8
// characters with one uppercase letter, one lowercase letter and one
// digit.
func IsValidPassword(value string) error {
	if len(value) < 8 {
		return newValidationError("password", "password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return newValidationError("password", "password must contain at least one uppercase letter")
	case !hasLower:
		return newValidationError("password", "password must contain at least one lowercase letter")
	case !hasDigit:
		return newValidationError("password", "password must contain at least one digit")
	}
	return nil
}

package validator

import (
	"regexp"
	"strings"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	ErrInvalidEmail = customErrors.NewTypedError("invalid email format", customErrors.ErrorTypeInvalidInput)
)

// ValidateEmail rejects input the identity provider would answer with
// INVALID_EMAIL, so the round trip is skipped.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.ToLower(strings.TrimSpace(email))) {
		return ErrInvalidEmail
	}
	return nil
}

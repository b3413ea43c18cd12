package validator

import (
	customErrors "github.com/abisalde/storefront-client/internal/errors"
)

// MinPasswordLength is the identity provider's own minimum.
const MinPasswordLength = 6

var ErrShortPassword = customErrors.NewTypedError("password must be at least 6 characters long", customErrors.ErrorTypeInvalidInput)

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrShortPassword
	}
	return nil
}

package validator

import (
	"testing"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{email: "a@b.com"},
		{email: " Jane.Doe+shop@Example.co.uk "},
		{email: "no-at-sign.com", wantErr: true},
		{email: "a@b", wantErr: true},
		{email: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEmail)
				kind, ok := customErrors.TypeOf(err)
				assert.True(t, ok)
				assert.Equal(t, customErrors.ErrorTypeInvalidInput, kind)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("12345"), ErrShortPassword)
	assert.NoError(t, ValidatePassword("123456"))
}

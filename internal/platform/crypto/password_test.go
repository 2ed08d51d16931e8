package crypto

import (
	"errors"
	"strings"
	"testing"

	"booknav/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Test123!@#", nil},
		{"Password1$", nil},
		{"SecureP@ss1", nil},
		{"Str0ng#Pass", nil},
		{"Valid123!", nil},
		{"Test1!", ErrPasswordTooShort},
		{"Abc12", ErrPasswordTooShort},
		{"Aa1!" + strings.Repeat("x", 70), ErrPasswordTooLong},
		{"test123!@#", ErrPasswordNoUpper},
		{"PASSWORD1$", ErrPasswordNoLower},
		{"TestPass!@#", ErrPasswordNoNumber},
		{"TestPass123", ErrPasswordNoSpecialChar},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errors.Is(err, apperr.ErrValidation))
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", hash)

	assert.True(t, VerifyPassword(hash, "Secret123!"))
	assert.False(t, VerifyPassword(hash, "Secret123?"))
	assert.False(t, VerifyPassword("not-a-hash", "Secret123!"))
}

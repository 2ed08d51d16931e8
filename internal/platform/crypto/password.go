package crypto

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"booknav/internal/apperr"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72

	passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

var (
	ErrPasswordTooShort      = apperr.Validation("password must be at least 8 characters")
	ErrPasswordTooLong       = apperr.Validation("password must be at most 72 bytes")
	ErrPasswordNoUpper       = apperr.Validation("password must contain at least one uppercase letter")
	ErrPasswordNoLower       = apperr.Validation("password must contain at least one lowercase letter")
	ErrPasswordNoNumber      = apperr.Validation("password must contain at least one number")
	ErrPasswordNoSpecialChar = apperr.Validation("password must contain at least one special character")
)

// passwordRules run in order; the first failure is reported.
var passwordRules = []struct {
	ok  func(string) bool
	err error
}{
	{func(p string) bool { return utf8.RuneCountInString(p) >= MinPasswordLength }, ErrPasswordTooShort},
	{func(p string) bool { return len(p) <= MaxPasswordBytes }, ErrPasswordTooLong},
	{hasRune(unicode.IsUpper), ErrPasswordNoUpper},
	{hasRune(unicode.IsLower), ErrPasswordNoLower},
	{hasRune(unicode.IsDigit), ErrPasswordNoNumber},
	{func(p string) bool { return strings.ContainsAny(p, passwordSpecials) }, ErrPasswordNoSpecialChar},
}

func hasRune(pred func(rune) bool) func(string) bool {
	return func(p string) bool { return strings.IndexFunc(p, pred) >= 0 }
}

func ValidatePasswordStrength(password string) error {
	for _, r := range passwordRules {
		if !r.ok(password) {
			return r.err
		}
	}
	return nil
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

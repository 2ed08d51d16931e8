package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"booknav/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an issued credential.
const DefaultTokenTTL = time.Hour

var ErrInvalidToken = apperr.Authentication("invalid or expired token")

type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Sub      string `json:"sub"` // user id
	jwt.RegisteredClaims
}

// Credential is the verified identity carried by a token.
type Credential struct {
	Username  string
	Email     string
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

func generateJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func IssueToken(secret, username, email, userID string, ttl time.Duration) (string, Credential, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	jti, err := generateJTI()
	if err != nil {
		return "", Credential{}, err
	}

	now := time.Now()
	c := Claims{
		Username: username,
		Email:    email,
		Sub:      userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenStr, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", Credential{}, err
	}
	return tokenStr, c.credential(), nil
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// VerifyToken checks signature, payload and expiry and returns the embedded
// credential. Every failure is reported as ErrInvalidToken wrapping the cause.
func VerifyToken(secret, tokenStr string) (Credential, error) {
	claims, err := ParseToken(secret, tokenStr)
	if err != nil {
		return Credential{}, &apperr.Error{Kind: ErrInvalidToken.Kind, Message: ErrInvalidToken.Message, Err: err}
	}
	if claims.Sub == "" {
		return Credential{}, &apperr.Error{Kind: ErrInvalidToken.Kind, Message: ErrInvalidToken.Message, Err: errors.New("token has no subject")}
	}
	return claims.credential(), nil
}

// PeekUserID decodes the payload without verifying the signature. It is only
// used to namespace client-side state; it never grants access.
func PeekUserID(tokenStr string) string {
	if tokenStr == "" {
		return ""
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return ""
	}
	return claims.Sub
}

// PeekCredential is PeekUserID for the whole payload.
func PeekCredential(tokenStr string) (Credential, bool) {
	if tokenStr == "" {
		return Credential{}, false
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return Credential{}, false
	}
	return claims.credential(), claims.Sub != ""
}

func (c *Claims) credential() Credential {
	cred := Credential{
		Username: c.Username,
		Email:    c.Email,
		UserID:   c.Sub,
		TokenID:  c.ID,
	}
	if c.IssuedAt != nil {
		cred.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		cred.ExpiresAt = c.ExpiresAt.Time
	}
	return cred
}

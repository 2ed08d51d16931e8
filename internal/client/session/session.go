// Package session holds the client's current credential. It replaces any
// ambient token storage: callers pass a *Session explicitly.
package session

import (
	"context"
	"strings"
	"time"

	"booknav/internal/platform/crypto"
)

// TokenKey is where the token is persisted.
const TokenKey = "id_token"

// Store is the persistent key/value store the token is kept in.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Session struct {
	store Store
	token string
	now   func() time.Time
}

// Load restores the persisted token, if any.
func Load(ctx context.Context, store Store) (*Session, error) {
	s := &Session{store: store, now: time.Now}
	token, ok, err := store.Get(ctx, TokenKey)
	if err != nil {
		return nil, err
	}
	if ok {
		s.token = token
	}
	return s, nil
}

// WithClock replaces the clock used for expiry checks.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

func (s *Session) Token() string { return s.token }

// Credential decodes the token without verifying it. The client does not
// hold the signing secret; the server verifies on every request.
func (s *Session) Credential() (crypto.Credential, bool) {
	return crypto.PeekCredential(s.token)
}

// UserID is the id embedded in the current token, or "".
func (s *Session) UserID() string {
	return crypto.PeekUserID(s.token)
}

// LoggedIn reports whether a token is present, decodable and not expired.
func (s *Session) LoggedIn() bool {
	cred, ok := s.Credential()
	return ok && !cred.Expired(s.now())
}

// Login stores a freshly issued token.
func (s *Session) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Logout forgets the token.
func (s *Session) Logout(ctx context.Context) error {
	s.token = ""
	return s.store.Delete(ctx, TokenKey)
}

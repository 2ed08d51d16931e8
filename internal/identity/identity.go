// Package identity carries the caller's authentication state through a
// request context.
package identity

import (
	"context"

	"booknav/internal/platform/crypto"
)

// Principal is either Authenticated or Anonymous.
type Principal interface {
	principal()
}

type Authenticated struct {
	Credential crypto.Credential
}

type Anonymous struct{}

func (Authenticated) principal() {}
func (Anonymous) principal()     {}

type contextKey struct{}

func NewContext(ctx context.Context, p Principal) context.Context {
	if p == nil {
		p = Anonymous{}
	}
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns Anonymous when no principal was bound.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(contextKey{}).(Principal); ok {
		return p
	}
	return Anonymous{}
}

// UserID returns the authenticated user id and true, or "" and false.
func UserID(p Principal) (string, bool) {
	if a, ok := p.(Authenticated); ok && a.Credential.UserID != "" {
		return a.Credential.UserID, true
	}
	return "", false
}

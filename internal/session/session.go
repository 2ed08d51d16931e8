// Package session tracks revoked access tokens. A token id stays revoked
// until the token's own expiry, after which it is purged.
package session

import (
	"context"
	"time"
)

type Revocation struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
}

type Repository interface {
	Revoke(ctx context.Context, r Revocation) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

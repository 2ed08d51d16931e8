package session

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	revoked map[string]Revocation
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{revoked: make(map[string]Revocation), now: time.Now}
}

func (r *MemoryRepo) Revoke(_ context.Context, rev Revocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.revoked[rev.TokenID]; !ok {
		r.revoked[rev.TokenID] = rev
	}
	return nil
}

func (r *MemoryRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rev, ok := r.revoked[jti]
	return ok && rev.ExpiresAt.After(r.now()), nil
}

func (r *MemoryRepo) CleanupExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := r.now()
	for jti, rev := range r.revoked {
		if rev.ExpiresAt.Before(now) {
			delete(r.revoked, jti)
			n++
		}
	}
	return n, nil
}

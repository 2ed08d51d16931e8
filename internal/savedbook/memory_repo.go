package savedbook

import (
	"context"
	"sync"

	"booknav/internal/entity"
	"booknav/internal/user"
)

// MemoryRepo stores saved books on the users held by a user.MemoryRepo.
type MemoryRepo struct {
	users *user.MemoryRepo

	mu     sync.RWMutex
	savers map[string]map[string]struct{}
}

func NewMemoryRepo(users *user.MemoryRepo) *MemoryRepo {
	return &MemoryRepo{users: users, savers: make(map[string]map[string]struct{})}
}

func (r *MemoryRepo) AddIfAbsent(ctx context.Context, userID string, b entity.SavedBook) (entity.User, error) {
	return r.users.Update(ctx, userID, func(u *entity.User) {
		if !u.HasBook(b.BookID) {
			u.SavedBooks = append(u.SavedBooks, b)
		}
	})
}

func (r *MemoryRepo) RemoveByBookID(ctx context.Context, userID, bookID string) (entity.User, error) {
	return r.users.Update(ctx, userID, func(u *entity.User) {
		kept := u.SavedBooks[:0]
		for _, b := range u.SavedBooks {
			if b.BookID != bookID {
				kept = append(kept, b)
			}
		}
		u.SavedBooks = kept
	})
}

func (r *MemoryRepo) TrackSaver(_ context.Context, b entity.SavedBook, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.savers[b.BookID]
	if !ok {
		set = make(map[string]struct{})
		r.savers[b.BookID] = set
	}
	set[userID] = struct{}{}
	return nil
}

func (r *MemoryRepo) ReleaseSaver(_ context.Context, bookID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.savers[bookID], userID)
	return nil
}

func (r *MemoryRepo) SaverCount(_ context.Context, bookID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.savers[bookID]), nil
}

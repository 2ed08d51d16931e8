// Package user owns account records: registration lookups and the
// authoritative user document that carries the saved-book set.
package user

import (
	"context"

	"booknav/internal/apperr"
	"booknav/internal/entity"
)

type User = entity.User

type Book = entity.SavedBook

var (
	ErrNotFound      = apperr.NotFound("user not found")
	ErrAlreadyExists = apperr.Validation("username or email already in use")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
}

func cloneUser(u User) User {
	out := u
	if u.SavedBooks != nil {
		out.SavedBooks = make([]entity.SavedBook, len(u.SavedBooks))
		for i, b := range u.SavedBooks {
			b.Authors = append([]string(nil), b.Authors...)
			out.SavedBooks[i] = b
		}
	}
	return out
}

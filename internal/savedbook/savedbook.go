// Package savedbook mutates a user's saved-book set. Saving is an
// add-if-absent keyed by book id and removal is idempotent, so repeated or
// racing requests converge on the same set.
package savedbook

import (
	"context"

	"booknav/internal/apperr"
	"booknav/internal/entity"
)

var (
	ErrNotLoggedIn = apperr.Authentication("You need to be logged in!")
	ErrNoBookID    = apperr.Validation("bookId is required")
)

// Input is a book as submitted for saving.
type Input struct {
	BookID      string   `json:"bookId" validate:"notblank"`
	Title       string   `json:"title" validate:"notblank"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
}

func (in Input) book() entity.SavedBook {
	authors := make([]string, 0, len(in.Authors))
	authors = append(authors, in.Authors...)
	return entity.SavedBook{
		BookID:      in.BookID,
		Title:       in.Title,
		Authors:     authors,
		Description: in.Description,
		Image:       in.Image,
		Link:        in.Link,
	}
}

// Repository persists saved books. AddIfAbsent and RemoveByBookID are each a
// single atomic update of the user record; the saver methods maintain the
// secondary per-book record and are not part of that atomic step.
type Repository interface {
	AddIfAbsent(ctx context.Context, userID string, b entity.SavedBook) (entity.User, error)
	RemoveByBookID(ctx context.Context, userID, bookID string) (entity.User, error)
	TrackSaver(ctx context.Context, b entity.SavedBook, userID string) error
	ReleaseSaver(ctx context.Context, bookID, userID string) error
	SaverCount(ctx context.Context, bookID string) (int, error)
}

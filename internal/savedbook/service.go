package savedbook

import (
	"context"
	"strings"

	"booknav/internal/entity"
	"booknav/internal/identity"
	"booknav/internal/platform/validate"
	"booknav/internal/user"

	"github.com/rs/zerolog"
)

type Service struct {
	repo  Repository
	users *user.Service
	log   zerolog.Logger
}

func NewService(repo Repository, users *user.Service, log zerolog.Logger) *Service {
	return &Service{repo: repo, users: users, log: log.With().Str("component", "savedbook").Logger()}
}

func authenticated(p identity.Principal) (string, error) {
	id, ok := identity.UserID(p)
	if !ok {
		return "", ErrNotLoggedIn
	}
	return id, nil
}

// Save adds the book to the caller's set. Saving a book id that is already
// present returns the unchanged user.
func (s *Service) Save(ctx context.Context, p identity.Principal, in Input) (entity.User, error) {
	userID, err := authenticated(p)
	if err != nil {
		return entity.User{}, err
	}
	in.BookID = strings.TrimSpace(in.BookID)
	if err := validate.Check(in); err != nil {
		return entity.User{}, err
	}

	b := in.book()
	u, err := s.repo.AddIfAbsent(ctx, userID, b)
	if err != nil {
		return entity.User{}, err
	}

	if err := s.repo.TrackSaver(ctx, b, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Str("book_id", b.BookID).Msg("track saver failed")
	}
	return u, nil
}

// Remove drops the book from the caller's set. A book id that is not in the
// set is not an error. The per-book saver record is updated afterwards on a
// best-effort basis and its failure does not undo the removal.
func (s *Service) Remove(ctx context.Context, p identity.Principal, bookID string) (entity.User, error) {
	userID, err := authenticated(p)
	if err != nil {
		return entity.User{}, err
	}
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return entity.User{}, ErrNoBookID
	}

	u, err := s.repo.RemoveByBookID(ctx, userID, bookID)
	if err != nil {
		return entity.User{}, err
	}

	if err := s.repo.ReleaseSaver(ctx, bookID, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Str("book_id", bookID).Msg("release saver failed")
	}
	return u, nil
}

// Me returns the caller's user record with its saved books.
func (s *Service) Me(ctx context.Context, p identity.Principal) (entity.User, error) {
	userID, err := authenticated(p)
	if err != nil {
		return entity.User{}, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *Service) SaverCount(ctx context.Context, bookID string) (int, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return 0, ErrNoBookID
	}
	return s.repo.SaverCount(ctx, bookID)
}

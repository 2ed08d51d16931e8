package savedbook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booknav/internal/entity"
	"booknav/internal/user"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	users   *user.PostgresRepo
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, users: user.NewPostgresRepo(db, timeout), timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) AddIfAbsent(ctx context.Context, userID string, b entity.SavedBook) (entity.User, error) {
	const query = `
	INSERT INTO saved_books (user_id, book_id, title, authors, description, image, link)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (user_id, book_id) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, query, userID, b.BookID, b.Title, b.Authors, b.Description, b.Image, b.Link)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return entity.User{}, user.ErrNotFound
		}
		if mapped := user.MapPgError(err); mapped != err {
			return entity.User{}, mapped
		}
		return entity.User{}, fmt.Errorf("save book: %w", err)
	}
	return r.users.GetByID(ctx, userID)
}

func (r *PostgresRepo) RemoveByBookID(ctx context.Context, userID, bookID string) (entity.User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, `DELETE FROM saved_books WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	if err != nil {
		if mapped := user.MapPgError(err); mapped != err {
			return entity.User{}, mapped
		}
		return entity.User{}, fmt.Errorf("remove book: %w", err)
	}
	return r.users.GetByID(ctx, userID)
}

func (r *PostgresRepo) TrackSaver(ctx context.Context, b entity.SavedBook, userID string) error {
	const query = `
	INSERT INTO book_savers (book_id, user_id)
	VALUES ($1, $2)
	ON CONFLICT (book_id, user_id) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, query, b.BookID, userID); err != nil {
		return fmt.Errorf("track saver: %w", err)
	}
	return nil
}

func (r *PostgresRepo) ReleaseSaver(ctx context.Context, bookID, userID string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, `DELETE FROM book_savers WHERE book_id = $1 AND user_id = $2`, bookID, userID); err != nil {
		return fmt.Errorf("release saver: %w", err)
	}
	return nil
}

func (r *PostgresRepo) SaverCount(ctx context.Context, bookID string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int
	err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM book_savers WHERE book_id = $1`, bookID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("saver count: %w", err)
	}
	return n, nil
}

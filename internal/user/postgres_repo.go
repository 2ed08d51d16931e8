package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booknav/internal/entity"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (id, username, email, password_hash)
	VALUES (gen_random_uuid(), $1, $2, $3)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, u.Username, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return MapPgError(err)
	}
	u.SavedBooks = []entity.SavedBook{}
	return nil
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1 LIMIT 1`, email)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	return r.getOne(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1 LIMIT 1`, id)
}

func (r *PostgresRepo) getOne(ctx context.Context, query string, arg string) (User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u User
	err := r.db.QueryRow(timeoutCtx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return User{}, MapPgError(err)
	}

	books, err := LoadSavedBooks(timeoutCtx, r.db, u.ID)
	if err != nil {
		return User{}, err
	}
	u.SavedBooks = books
	return u, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, `SELECT id, username, email, password_hash, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (User, error) {
		var u User
		err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for i := range users {
		books, err := LoadSavedBooks(timeoutCtx, r.db, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].SavedBooks = books
	}
	return users, nil
}

// Querier is the subset of pgxpool.Pool and pgx.Tx used to read rows.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadSavedBooks returns a user's saved books in the order they were saved.
func LoadSavedBooks(ctx context.Context, q Querier, userID string) ([]entity.SavedBook, error) {
	const query = `
	SELECT book_id, title, authors, description, image, link
	FROM saved_books
	WHERE user_id = $1
	ORDER BY saved_at, book_id
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load saved books: %w", err)
	}
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SavedBook, error) {
		var b entity.SavedBook
		err := row.Scan(&b.BookID, &b.Title, &b.Authors, &b.Description, &b.Image, &b.Link)
		if b.Authors == nil {
			b.Authors = []string{}
		}
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("load saved books: %w", err)
	}
	return books, nil
}

// MapPgError translates driver errors into the package's sentinel errors.
func MapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrAlreadyExists
		case pgerrcode.InvalidTextRepresentation:
			// malformed uuid
			return ErrNotFound
		}
	}
	return err
}

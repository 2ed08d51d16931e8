// Package localcache persists client state in a SQLite key/value table. The
// saved-book ids of each user live under their own key.
package localcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const keyPrefix = "saved_books_"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`

type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at dsn. ":memory:" gives
// a private in-memory cache.
func Open(ctx context.Context, dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writes
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Key returns the storage key for userID's saved ids.
func Key(userID string) string { return keyPrefix + userID }

// Get returns the value stored under key and whether it exists.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cache[%s]: %w", key, err)
	}
	return string(value), true, nil
}

func (c *Cache) Set(ctx context.Context, key, value string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to set cache[%s]: %w", key, err)
	}
	return nil
}

// Delete is idempotent.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache[%s]: %w", key, err)
	}
	return nil
}

// SavedIDs returns userID's saved book ids in insertion order. A blank
// userID or a missing key yields an empty list.
func (c *Cache) SavedIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	if strings.TrimSpace(userID) == "" {
		return ids, nil
	}
	raw, ok, err := c.Get(ctx, Key(userID))
	if err != nil || !ok {
		return ids, err
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []string{}, fmt.Errorf("decode %s: %w", Key(userID), err)
	}
	return ids, nil
}

// SetSavedIDs replaces userID's list. An empty list removes the key and a
// blank userID is a no-op.
func (c *Cache) SetSavedIDs(ctx context.Context, userID string, ids []string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	if len(ids) == 0 {
		return c.Delete(ctx, Key(userID))
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.Set(ctx, Key(userID), string(b))
}

// Clear drops userID's list.
func (c *Cache) Clear(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	return c.Delete(ctx, Key(userID))
}

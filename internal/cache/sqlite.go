// Package cache is a small SQLite-backed store for client-only display
// state that is cheap to lose but nice to keep: per-user avatar data
// URIs. Task, category, and location state is never cached here; it is
// refetched from the server on every refresh.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Cache wraps the local SQLite database.
type Cache struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS avatars (
	user_id    INTEGER PRIMARY KEY,
	data_uri   TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// DefaultPath returns the default cache database location,
// ~/.cache/taskmaster/cache.db.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "cache.db")
	}
	return filepath.Join(home, ".cache", "taskmaster", "cache.db")
}

// Open opens (or creates) the cache database at dbPath and ensures the
// schema exists.
func Open(dbPath string) (*Cache, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Avatar returns the cached avatar data URI for the given user, or ""
// when none is cached.
func (c *Cache) Avatar(ctx context.Context, userID int) (string, error) {
	var dataURI string
	err := c.db.GetContext(
		ctx,
		&dataURI,
		"SELECT data_uri FROM avatars WHERE user_id = ?",
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading cached avatar for user %d: %w", userID, err)
	}
	return dataURI, nil
}

// SetAvatar stores (or replaces) the avatar data URI for the given user.
func (c *Cache) SetAvatar(ctx context.Context, userID int, dataURI string) error {
	_, err := c.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO avatars (user_id, data_uri, updated_at)
		 VALUES (?, ?, ?)`,
		userID, dataURI, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("caching avatar for user %d: %w", userID, err)
	}
	return nil
}

// DeleteAvatar removes the cached avatar for the given user.
func (c *Cache) DeleteAvatar(ctx context.Context, userID int) error {
	_, err := c.db.ExecContext(
		ctx,
		"DELETE FROM avatars WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return fmt.Errorf("deleting cached avatar for user %d: %w", userID, err)
	}
	return nil
}

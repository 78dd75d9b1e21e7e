// Package credentials provides the durable single-slot credential store.
// The credential's lifecycle is independent of the wizard session: it
// survives process restarts and session resets.
package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// slotAPIKey is the single named slot this store manages.
const slotAPIKey = "google_api_key"

// Store is a SQLite-backed credential holder. Reads are safe for concurrent
// use; every Set is persisted before it returns.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
	// cached holds the last known value so Get never touches the database
	// on the hot path once loaded.
	cached string
}

// Open creates or opens the credential database at dbPath and loads the
// stored value.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS credentials (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// load reads the stored value into the cache at open time.
func (s *Store) load() error {
	row := s.db.QueryRow(`SELECT value FROM credentials WHERE name = ?`, slotAPIKey)

	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan credential row: %w", err)
	}

	s.cached = value
	return nil
}

// Set stores the credential verbatim and persists it immediately.
// Trimming and non-empty enforcement are the caller's responsibility.
func (s *Store) Set(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
	INSERT INTO credentials (name, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, slotAPIKey, key, time.Now().Unix()); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	s.cached = key
	return nil
}

// Get returns the current credential, or the empty string if unset.
func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// DefaultPath returns the default credential database location under the
// user config directory, falling back to the working directory.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		slog.Warn("user config dir unavailable, storing credentials in the working directory", "error", err)
		return "vibecheck.db"
	}
	return filepath.Join(configDir, "vibecheck", "vibecheck.db")
}

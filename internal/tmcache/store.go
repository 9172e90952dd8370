// Package tmcache is a translation memory: a SQLite table of previously
// translated cue texts keyed by provider, model, target language and source
// text.
package tmcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages translation memory persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Key identifies one cached translation.
type Key struct {
	Provider       string
	Model          string
	TargetLanguage string
	Text           string
}

func (k Key) hash() string {
	h := sha256.New()
	for _, part := range []string{
		strings.ToLower(k.Provider),
		k.Model,
		strings.ToLower(k.TargetLanguage),
		k.Text,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `CREATE TABLE IF NOT EXISTS translations (
    key_hash TEXT PRIMARY KEY,
    provider TEXT NOT NULL,
    model TEXT NOT NULL,
    target_language TEXT NOT NULL,
    source_text TEXT NOT NULL,
    translated_text TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// Open initializes or connects to the database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached translation for key, if any.
func (s *Store) Get(ctx context.Context, key Key) (string, bool, error) {
	var translated string
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(
			ctx,
			`SELECT translated_text FROM translations WHERE key_hash = ?`,
			key.hash(),
		).Scan(&translated)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup translation: %w", err)
	}
	return translated, true, nil
}

// Put stores or replaces the translation for key.
func (s *Store) Put(ctx context.Context, key Key, translated string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO translations (
                key_hash, provider, model, target_language,
                source_text, translated_text, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(key_hash) DO UPDATE SET
                translated_text = excluded.translated_text,
                updated_at = excluded.updated_at`,
			key.hash(),
			key.Provider,
			key.Model,
			key.TargetLanguage,
			key.Text,
			translated,
			now,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("store translation: %w", err)
	}
	return nil
}

// Len returns the number of cached translations.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count translations: %w", err)
	}
	return n, nil
}

// Purge removes every cached translation.
func (s *Store) Purge(ctx context.Context) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM translations`)
		return err
	})
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

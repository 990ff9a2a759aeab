package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medibot/internal/app/db"
)

// sqliteStore implements Store on the kv table of the local SQLite database.
type sqliteStore struct {
	db *sql.DB
}

func newSQLiteStore(dir string) (*sqliteStore, error) {
	sqlDB, err := db.Open(dir)
	if err != nil {
		return nil, err
	}
	return &sqliteStore{db: sqlDB}, nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite get %q: %w", key, db.Classify(err))
	}
	return value, nil
}

const upsertKV = `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, upsertKV, key, value)
	if err != nil {
		return fmt.Errorf("sqlite set %q: %w", key, db.Classify(err))
	}
	return nil
}

func (s *sqliteStore) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", db.Classify(err))
	}
	defer tx.Rollback()

	for key, value := range values {
		if _, err := tx.ExecContext(ctx, upsertKV, key, value); err != nil {
			return fmt.Errorf("sqlite set %q: %w", key, db.Classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", db.Classify(err))
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

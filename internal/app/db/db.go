/*
Package db opens the local SQLite database backing the sqlite session store and
applies its schema migrations.
*/
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"medibot/internal/pkg/logx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// FileName is the database file created inside the store directory.
const FileName = "medibot.db"

// Open opens (creating if needed) the SQLite database in dir and runs migrations.
func Open(dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", filepath.Join(dir, FileName))

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite permits a single writer.
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}

// runMigrations applies all pending migrations from the embedded file system.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logx.Debug("Database migrations applied successfully.")
	return nil
}

// gooseLogger routes goose output into logx instead of stdout.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	logx.Logger().Debug().Str("component", "goose").Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logx.Logger().Fatal().Str("component", "goose").Msgf(format, v...)
}

/*
Package storage provides the persistent key/value store holding the client session.

It plays the part of browser local storage: string values under string keys, no
expiry, no schema versioning. Backends are badger, SQLite, and in-memory.
*/
package storage

import (
	"context"
	"errors"
	"fmt"

	"medibot/internal/configs"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// ServiceConfig holds the configuration required to open a store.
type ServiceConfig struct {
	// Backend is one of configs.StoreBadger, configs.StoreSQLite, configs.StoreMemory.
	Backend string

	// Path is the directory holding the store files. Ignored by the memory backend.
	Path string
}

// Store defines the public interface of the key/value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// SetMany stores all values in one transaction: either every key is
	// written or none is.
	SetMany(ctx context.Context, values map[string]string) error

	// Close releases the underlying resources.
	Close() error
}

// NewStore is the factory function for Store.
func NewStore(cfg ServiceConfig) (Store, error) {
	switch cfg.Backend {
	case configs.StoreBadger:
		return newBadgerStore(cfg.Path)
	case configs.StoreSQLite:
		return newSQLiteStore(cfg.Path)
	case configs.StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

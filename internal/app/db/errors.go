package db

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrStoreLocked is returned when another process holds the database lock.
var ErrStoreLocked = errors.New("session store is locked by another medibot process")

// IsLocked reports whether err is SQLITE_BUSY or SQLITE_LOCKED.
func IsLocked(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// Classify maps driver errors onto package errors; other errors pass through.
func Classify(err error) error {
	if IsLocked(err) {
		return errors.Join(ErrStoreLocked, err)
	}
	return err
}

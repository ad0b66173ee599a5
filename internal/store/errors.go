package store

import (
	"strings"

	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrInvalid is returned when a record misses a required field.
	ErrInvalid = errors.New("invalid record")
	// ErrConflict is returned when a record collides with a unique index.
	ErrConflict = errors.New("record already exists")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)

// convertError maps sqlite constraint violations to the store sentinel errors.
func convertError(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errors.Wrap(ErrConflict, sqliteErr.Error())
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return errors.Wrap(ErrNotFound, sqliteErr.Error())
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return errors.Wrap(ErrInvalid, sqliteErr.Error())
	}

	// Without extended result codes only the primary code is set.
	if sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := sqliteErr.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return errors.Wrap(ErrConflict, msg)
		case strings.Contains(msg, "FOREIGN KEY"):
			return errors.Wrap(ErrNotFound, msg)
		case strings.Contains(msg, "NOT NULL"):
			return errors.Wrap(ErrInvalid, msg)
		}
	}
	return err
}

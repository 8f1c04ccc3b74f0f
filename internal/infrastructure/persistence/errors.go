package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

var kinds = []error{
	repository.ErrNotFound,
	repository.ErrDuplicate,
	repository.ErrConcurrencyConflict,
	repository.ErrInvalidState,
	repository.ErrInvalidArgument,
	repository.ErrInternal,
}

// translateError maps driver errors onto repository kinds, keeping the
// driver error in the chain. Context errors pass through untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return err
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", repository.ErrNotFound, err)
	}
	if errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%w: %w", repository.ErrInvalidState, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if kind := pgKind(pgErr.Code); kind != nil {
			return fmt.Errorf("%w: %w", kind, err)
		}
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		if kind := sqliteKind(liteErr.Code(), liteErr.Error()); kind != nil {
			return fmt.Errorf("%w: %w", kind, err)
		}
	}
	return fmt.Errorf("%w: %w", repository.ErrInternal, err)
}

func pgKind(code string) error {
	switch code {
	case "23505":
		return repository.ErrDuplicate
	case "23503":
		return repository.ErrInvalidState
	case "23514", "23502", "22P02", "22001":
		return repository.ErrInvalidArgument
	case "40001", "40P01":
		return repository.ErrConcurrencyConflict
	}
	return nil
}

func sqliteKind(code int, msg string) error {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return repository.ErrDuplicate
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return repository.ErrInvalidState
	case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return repository.ErrInvalidArgument
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return repository.ErrConcurrencyConflict
	}
	// primary result code only
	if code&0xff == sqlite3.SQLITE_CONSTRAINT {
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return repository.ErrDuplicate
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return repository.ErrInvalidState
		default:
			return repository.ErrInvalidArgument
		}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("store: record not found")
	ErrDuplicate     = errors.New("store: duplicate key")
	ErrForeignKey    = errors.New("store: foreign key violation")
	ErrCheck         = errors.New("store: check constraint violation")
	ErrSerialization = errors.New("store: serialization failure")
	ErrUnavailable   = errors.New("store: unavailable")
	ErrTimeout       = errors.New("store: timeout")
)

// Postgres SQLSTATE codes this package cares about.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgNotNullViolation     = "23502"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// Translate classifies driver errors from Postgres (pgx) and SQLite into the
// sentinels above, keeping the original error in the chain.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if kind := classify(err); kind != nil {
		if errors.Is(err, kind) {
			return err
		}
		return fmt.Errorf("%w: %w", kind, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, ErrForeignKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, ErrCheck):
		return ErrCheck
	case errors.Is(err, ErrSerialization):
		return ErrSerialization
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrForeignKey
		case pgCheckViolation, pgNotNullViolation:
			return ErrCheck
		case pgSerializationFailure, pgDeadlockDetected:
			return ErrSerialization
		case pgLockNotAvailable, pgQueryCanceled:
			return ErrTimeout
		}
		return nil
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrDuplicate
		case sqlite3.ErrConstraintForeignKey:
			return ErrForeignKey
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return ErrCheck
		}
		if liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked {
			return ErrSerialization
		}
		return nil
	}

	if strings.Contains(err.Error(), "violates check constraint") {
		return ErrCheck
	}
	return nil
}

// IsNotFound reports whether err means the addressed row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

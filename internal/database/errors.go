package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrSchema indicates the schema could not be created or migrated.
	ErrSchema = errors.New("schema initialization failed")

	// ErrConstraint indicates a write that violates a store invariant.
	ErrConstraint = errors.New("constraint violation")

	// ErrForeignKey indicates an entry that references a missing book.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrFormat indicates malformed backup input.
	ErrFormat = errors.New("invalid backup format")

	// ErrNotFound indicates that no row has the requested id.
	ErrNotFound = errors.New("not found")

	// ErrUnknownSetting indicates a key outside the recognised settings.
	ErrUnknownSetting = fmt.Errorf("%w: unknown setting", ErrConstraint)
)

// TranslateError maps driver and ORM errors onto the error taxonomy. Errors
// it does not recognise are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		}
	}
	return err
}

// ConstraintError wraps a validation failure as ErrConstraint.
func ConstraintError(err error) error {
	return fmt.Errorf("%w: %w", ErrConstraint, err)
}

// FormatError wraps a backup decoding or consistency failure as ErrFormat.
func FormatError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

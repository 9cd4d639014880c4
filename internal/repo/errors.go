package repo

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	notNullViolationCode    = "23502"
	checkViolationCode      = "23514"
)

var (
	// ErrNotFound means no row matched the identifier of an update or delete.
	ErrNotFound = errors.New("not found")

	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)

	// ErrDuplicate is returned for unique constraint violations (e.g. username).
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidEntity covers failed validation and constraint violations
	// such as a post referencing a user that does not exist.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrNoGeneratedKey is returned when an insert reports no generated id.
	ErrNoGeneratedKey = errors.New("no generated key returned")
)

// StoreError is the single failure type of this package. Entity and
// Operation name what was attempted; Err keeps the cause for errors.Is/As.
type StoreError struct {
	Entity    string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Entity, e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(entity, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Entity: entity, Operation: operation, Err: mapError(err)}
}

// mapError attaches a sentinel to driver errors that callers may want to
// branch on. Everything else is returned unchanged.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case uniqueViolationCode:
		return fmt.Errorf("%w (%s): %w", ErrDuplicate, pqErr.Constraint, err)
	case foreignKeyViolationCode:
		return fmt.Errorf("%w: foreign key violation (%s): %w", ErrInvalidEntity, pqErr.Constraint, err)
	case notNullViolationCode:
		return fmt.Errorf("%w: not null violation (%s): %w", ErrInvalidEntity, pqErr.Column, err)
	case checkViolationCode:
		return fmt.Errorf("%w: check constraint violation (%s): %w", ErrInvalidEntity, pqErr.Constraint, err)
	}
	return err
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsInvalid reports whether err was caused by bad input.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidEntity)
}

// checkRowsAffected turns a zero-row update or delete into notFound.
func checkRowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

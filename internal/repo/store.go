// Package repo implements the data persistence layer for venue records.
//
// One narrow contract, two interchangeable backends: a local SQLite file
// (GORM, pure-Go driver) and a remote Google Sheets worksheet. The rest of
// the application depends only on the Store interface; the backend is
// selected once at startup from configuration, and nothing above this
// package ever branches on the concrete type.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/okchh/go-happyhour-backend/internal/domain"
)

// ErrNotFound is returned when an operation targets a location id that
// does not exist in the backend.
var ErrNotFound = errors.New("location not found")

// StorageError wraps a backend I/O failure with the operation that caused
// it. The underlying cause is retained for diagnostics and available via
// errors.Unwrap; writes are never silently dropped.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// storageErr wraps err as a *StorageError unless it is nil or already a
// domain-level sentinel.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return &StorageError{Op: op, Err: err}
}

// Store is the backend-agnostic repository contract for venue records.
//
// Semantics shared by all implementations:
//   - ListAll returns a snapshot whose order is implementation-defined
//     but stable within a session (SQLite orders by id descending, Sheets
//     returns worksheet order); callers needing a specific order must
//     sort.
//   - Insert assigns the next unused integer id and returns it. The
//     SQLite backend delegates to AUTOINCREMENT; the Sheets backend
//     computes max(id)+1, which is safe only under a single writer.
//   - Update replaces every mutable field of the record, coordinates
//     included. UpdateDescription touches only the description so an
//     inline table edit can never clobber coordinates.
//   - Delete is terminal; there is no soft delete.
//   - Operations targeting a missing id return ErrNotFound; any other
//     backend failure surfaces as a *StorageError with the cause attached.
type Store interface {
	ListAll(ctx context.Context) ([]domain.Location, error)
	GetByID(ctx context.Context, id int) (*domain.Location, error)
	Insert(ctx context.Context, loc domain.Location) (int, error)
	Update(ctx context.Context, id int, loc domain.Location) error
	UpdateDescription(ctx context.Context, id int, description string) error
	Delete(ctx context.Context, id int) error
}

package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Store groups the repositories that share one database.
type Store interface {
	Users() UserRepository
	Transactions() TransactionRepository
	// WithinTx runs fn against a Store bound to a single database
	// transaction. The transaction commits when fn returns nil and rolls
	// back otherwise.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

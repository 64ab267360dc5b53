package repository

import (
	"context"

	"fintrack/internal/domain"
)

// TransactionRepository exposes persistence operations for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	// Update overwrites every mutable field of txn.
	Update(ctx context.Context, txn *domain.Transaction) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns the user's transactions newest first. A limit
	// of zero or less returns all of them.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"fintrack/internal/domain"
	"fintrack/internal/ledger"
	"fintrack/internal/repository"
)

// TransactionInput carries every mutable field of a transaction.
type TransactionInput struct {
	Amount      int64
	Type        domain.TransactionType
	Category    string
	Frequency   domain.Frequency
	Duration    int
	Description string
}

// Validate checks the input against the transaction catalog.
func (in TransactionInput) Validate() error {
	switch {
	case in.Amount < 0:
		return invalid("amount", "must not be negative")
	case !in.Type.Valid():
		return invalid("trans_type", "unknown transaction type %q", in.Type)
	case !domain.IsCategory(in.Category):
		return invalid("category", "unknown category %q", in.Category)
	case !in.Frequency.Valid():
		return invalid("transaction_frequency", "unknown frequency %q", in.Frequency)
	case in.Duration < 0 || in.Duration > domain.MaxDuration:
		return invalid("duration", "must be between 0 and %d months", domain.MaxDuration)
	case utf8.RuneCountInString(strings.TrimSpace(in.Description)) > domain.MaxDescriptionLength:
		return invalid("description", "must be at most %d characters", domain.MaxDescriptionLength)
	}
	return nil
}

func (in TransactionInput) apply(txn *domain.Transaction) {
	txn.Amount = in.Amount
	txn.Type = in.Type
	txn.Category = in.Category
	txn.Frequency = in.Frequency
	txn.Duration = in.Duration
	txn.Description = strings.TrimSpace(in.Description)
}

// Overview is what the dashboard, the wallet page and the chart feed read.
type Overview struct {
	User         *domain.User
	Transactions []domain.Transaction
	Monthly      ledger.Monthly
}

// TransactionService manages the transaction lifecycle. Every mutation
// checks ownership against actorID and recomputes the owner's balance in
// the same store transaction.
type TransactionService interface {
	Create(ctx context.Context, actorID string, in TransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, actorID, id string) (*domain.Transaction, error)
	Update(ctx context.Context, actorID, id string, in TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, actorID, id string) error
	List(ctx context.Context, actorID string, limit int) ([]domain.Transaction, error)
	Overview(ctx context.Context, actorID string) (*Overview, error)
}

type transactionService struct {
	store repository.Store
	now   func() time.Time
}

func NewTransactionService(store repository.Store) TransactionService {
	return &transactionService{
		store: store,
		now:   time.Now,
	}
}

func (s *transactionService) Create(ctx context.Context, actorID string, in TransactionInput) (*domain.Transaction, error) {
	if actorID == "" {
		return nil, ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:        uuid.NewString(),
		UserID:    actorID,
		CreatedAt: s.now().UTC(),
	}
	in.apply(txn)

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, actorID); err != nil {
			return err
		}
		if err := tx.Transactions().Create(ctx, txn); err != nil {
			return err
		}
		return recomputeBalance(ctx, tx, actorID)
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return txn, nil
}

func (s *transactionService) Get(ctx context.Context, actorID, id string) (*domain.Transaction, error) {
	txn, err := s.store.Transactions().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !txn.OwnedBy(actorID) {
		return nil, ErrForbidden
	}
	return txn, nil
}

func (s *transactionService) Update(ctx context.Context, actorID, id string, in TransactionInput) (*domain.Transaction, error) {
	var updated *domain.Transaction
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		txn, err := tx.Transactions().Get(ctx, id)
		if err != nil {
			return err
		}
		if !txn.OwnedBy(actorID) {
			return ErrForbidden
		}
		if err := in.Validate(); err != nil {
			return err
		}
		in.apply(txn)
		if err := tx.Transactions().Update(ctx, txn); err != nil {
			return err
		}
		updated = txn
		return recomputeBalance(ctx, tx, txn.UserID)
	})
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return updated, nil
}

func (s *transactionService) Delete(ctx context.Context, actorID, id string) error {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		txn, err := tx.Transactions().Get(ctx, id)
		if err != nil {
			return err
		}
		if !txn.OwnedBy(actorID) {
			return ErrForbidden
		}
		if err := tx.Transactions().Delete(ctx, id); err != nil {
			return err
		}
		return recomputeBalance(ctx, tx, txn.UserID)
	})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *transactionService) List(ctx context.Context, actorID string, limit int) ([]domain.Transaction, error) {
	if actorID == "" {
		return nil, ErrForbidden
	}
	return s.store.Transactions().ListByUser(ctx, actorID, limit)
}

func (s *transactionService) Overview(ctx context.Context, actorID string) (*Overview, error) {
	if actorID == "" {
		return nil, ErrForbidden
	}
	user, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.Transactions().ListByUser(ctx, actorID, 0)
	if err != nil {
		return nil, err
	}
	return &Overview{
		User:         sanitizeUser(user),
		Transactions: txns,
		Monthly:      ledger.Bucket(txns, user.Balance),
	}, nil
}

// recomputeBalance re-sums the user's full transaction set and stores the
// result. It never adjusts the cached value incrementally.
func recomputeBalance(ctx context.Context, store repository.Store, userID string) error {
	txns, err := store.Transactions().ListByUser(ctx, userID, 0)
	if err != nil {
		return err
	}
	if err := store.Users().UpdateBalance(ctx, userID, ledger.Balance(txns)); err != nil {
		return fmt.Errorf("store balance: %w", err)
	}
	return nil
}

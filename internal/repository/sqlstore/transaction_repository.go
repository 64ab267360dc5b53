package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

const transactionColumns = `id, user_id, amount, trans_type, category, frequency, duration, description, created_at`

type TransactionRepository struct {
	q sqlx.ExtContext
}

func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	txn.CreatedAt = txn.CreatedAt.UTC()

	_, err := r.q.ExecContext(ctx, r.q.Rebind(`
INSERT INTO transactions (`+transactionColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		txn.ID,
		txn.UserID,
		txn.Amount,
		string(txn.Type),
		txn.Category,
		string(txn.Frequency),
		txn.Duration,
		txn.Description,
		txn.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert transaction: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	var txn domain.Transaction
	query := r.q.Rebind(`SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`)
	if err := sqlx.GetContext(ctx, r.q, &txn, query, id); err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("transaction %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	txn.CreatedAt = txn.CreatedAt.UTC()
	return &txn, nil
}

func (r *TransactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
UPDATE transactions
SET amount=?, trans_type=?, category=?, frequency=?, duration=?, description=?
WHERE id=?`),
		txn.Amount,
		string(txn.Type),
		txn.Category,
		string(txn.Frequency),
		txn.Duration,
		txn.Description,
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(res, "update transaction")
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM transactions WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res, "delete transaction")
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
FROM transactions
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	txns := []domain.Transaction{}
	if err := sqlx.SelectContext(ctx, r.q, &txns, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	for i := range txns {
		txns[i].CreatedAt = txns[i].CreatedAt.UTC()
	}
	return txns, nil
}

func (r *TransactionRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM transactions WHERE user_id=?`), userID)
	if err != nil {
		return 0, fmt.Errorf("delete user transactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user transactions rows affected: %w", err)
	}
	return n, nil
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

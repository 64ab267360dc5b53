package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

const userColumns = `id, username, first_name, last_name, email, phone, profile_pic, password_hash, balance, created_at, updated_at`

type UserRepository struct {
	q sqlx.ExtContext
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.q.ExecContext(ctx, r.q.Rebind(`
INSERT INTO users (`+userColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.ProfilePic,
		user.PasswordHash,
		user.Balance,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	var user domain.User
	query := r.q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = ?`)
	if err := sqlx.GetContext(ctx, r.q, &user, query, value); err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("user by %s: %w", column, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
UPDATE users
SET first_name=?, last_name=?, email=?, phone=?, profile_pic=?, updated_at=?
WHERE id=?`),
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.ProfilePic,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update user: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res, "update user")
}

func (r *UserRepository) UpdateBalance(ctx context.Context, id string, balance int64) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
UPDATE users
SET balance=?, updated_at=?
WHERE id=?`),
		balance,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update user balance: %w", err)
	}
	return requireAffected(res, "update user balance")
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM users WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, "delete user")
}

var _ repository.UserRepository = (*UserRepository)(nil)

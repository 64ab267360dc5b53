package repository

import (
	"context"

	"fintrack/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile overwrites the editable profile fields of the user.
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdateBalance(ctx context.Context, id string, balance int64) error
	Delete(ctx context.Context, id string) error
}

// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/hacknova/airwatch/internal/model"
)

// UserRepository provides account storage for the credential store.
type UserRepository interface {
	// Create inserts a new user; ErrAlreadyExists if the email is taken.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

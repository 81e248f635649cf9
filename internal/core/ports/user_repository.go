package ports

import (
	"context"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// UserRepository is the credential store.
// Create must return domain.ErrEmailTaken on a duplicate email and leave existing rows untouched.
// FindByEmail returns domain.ErrUserNotFound when no user matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

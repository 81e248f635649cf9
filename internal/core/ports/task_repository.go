package ports

import (
	"context"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// TaskRepository persists tasks. Every mutating call is scoped by owner so the
// write itself re-checks ownership; a call that matches no row returns
// domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	// FindByID looks a task up regardless of owner so the service can tell
	// "missing" from "not yours".
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// ListByOwner returns the owner's tasks, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Update(ctx context.Context, ownerID, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}

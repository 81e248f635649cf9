package ports

import (
	"context"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// CreateTaskInput carries the client-settable fields of a new task.
// The owner is never part of the input; it always comes from the principal.
type CreateTaskInput struct {
	Title       string
	Description string
	// IdempotencyKey is optional; replays with the same key return the first task.
	IdempotencyKey string
}

// CreateTaskResult wraps the created task.
type CreateTaskResult struct {
	Task *domain.Task
	// Replayed is true when the Idempotency-Key matched an earlier creation.
	Replayed bool
}

// TaskService defines the ownership-scoped task use cases.
type TaskService interface {
	ListTasks(ctx context.Context, principal domain.Principal) ([]*domain.Task, error)
	CreateTask(ctx context.Context, principal domain.Principal, input CreateTaskInput) (*CreateTaskResult, error)
	UpdateTask(ctx context.Context, principal domain.Principal, taskID string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, principal domain.Principal, taskID string) error
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

const idempotencyTTL = 24 * time.Hour

// TaskService enforces that a principal only sees and mutates its own tasks.
type TaskService struct {
	repo        ports.TaskRepository
	idempotency ports.IdempotencyStore // optional
	log         zerolog.Logger
	now         func() time.Time
}

// NewTaskService returns a TaskService. idempotency may be nil, in which case
// Idempotency-Key values are ignored.
func NewTaskService(repo ports.TaskRepository, idempotency ports.IdempotencyStore, log zerolog.Logger) *TaskService {
	return &TaskService{
		repo:        repo,
		idempotency: idempotency,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) ListTasks(ctx context.Context, principal domain.Principal) ([]*domain.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// CreateTask stores a new pending task owned by the principal. When an
// idempotency key is supplied and already seen for this owner, the original
// task is returned instead.
func (s *TaskService) CreateTask(ctx context.Context, principal domain.Principal, input ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.NewValidationError("title is required")
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" && s.idempotency != nil {
		if existing := s.replay(ctx, principal, key); existing != nil {
			return &ports.CreateTaskResult{Task: existing, Replayed: true}, nil
		}
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		OwnerID:     principal.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.StatusPending,
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if key != "" && s.idempotency != nil {
		if winner := s.claim(ctx, principal, key, task); winner != nil {
			return &ports.CreateTaskResult{Task: winner, Replayed: true}, nil
		}
	}

	s.log.Info().Str("task_id", task.ID).Str("owner_id", principal.ID).Msg("task created")
	return &ports.CreateTaskResult{Task: task}, nil
}

// claim binds key to the freshly created task. When a concurrent request with
// the same key bound it first, the duplicate is removed and the task that won
// is returned; otherwise claim returns nil and task stands.
func (s *TaskService) claim(ctx context.Context, principal domain.Principal, key string, task *domain.Task) *domain.Task {
	stored, err := s.idempotency.Remember(ctx, principal.ID, key, task.ID, idempotencyTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Msg("failed to store idempotency key")
		return nil
	}
	if stored {
		return nil
	}

	winner := s.replay(ctx, principal, key)
	if winner == nil || winner.ID == task.ID {
		return nil
	}
	if err := s.repo.Delete(ctx, principal.ID, task.ID); err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Msg("failed to remove duplicate task")
	}
	return winner
}

// replay returns the task previously created under key, or nil when there is
// none or it can no longer be served to this principal.
func (s *TaskService) replay(ctx context.Context, principal domain.Principal, key string) *domain.Task {
	taskID, err := s.idempotency.Lookup(ctx, principal.ID, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if taskID == "" {
		return nil
	}

	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil || !task.OwnedBy(principal) {
		return nil
	}

	s.log.Info().Str("task_id", task.ID).Msg("idempotent replay")
	return task
}

func (s *TaskService) UpdateTask(ctx context.Context, principal domain.Principal, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	current, err := s.authorize(ctx, principal, taskID)
	if err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, principal.ID, taskID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			// Deleted between the ownership check and the write.
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.log.Info().Str("task_id", taskID).Str("owner_id", principal.ID).Msg("task updated")
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, principal domain.Principal, taskID string) error {
	if _, err := s.authorize(ctx, principal, taskID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, principal.ID, taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.log.Info().Str("task_id", taskID).Str("owner_id", principal.ID).Msg("task deleted")
	return nil
}

// authorize loads the task and checks ownership. Existence is revealed to
// non-owners: a foreign task yields ErrForbidden, a missing one ErrTaskNotFound.
func (s *TaskService) authorize(ctx context.Context, principal domain.Principal, taskID string) (*domain.Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return nil, domain.ErrTaskNotFound
	}

	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	if !task.OwnedBy(principal) {
		s.log.Warn().Str("task_id", taskID).Str("principal_id", principal.ID).Msg("ownership check failed")
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func validatePatch(p domain.TaskPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return domain.NewValidationError("title must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return domain.NewValidationError("status must be one of: pending in_progress done")
	}
	return nil
}

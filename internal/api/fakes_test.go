package api

import (
	"context"
	"sort"
	"sync"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// memUsers and memTasks are in-memory repositories for router tests.

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: make(map[string]domain.User)}
}

func (r *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	r.byEmail[u.Email] = *u
	out := *u
	return &out, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type memTasks struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
	seq   int
	order map[string]int
}

func newMemTasks() *memTasks {
	return &memTasks{tasks: make(map[string]domain.Task), order: make(map[string]int)}
}

func (r *memTasks) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.tasks[t.ID] = *t
	r.order[t.ID] = r.seq
	return nil
}

func (r *memTasks) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r *memTasks) ListByOwner(_ context.Context, ownerID string) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			out = append(out, &t)
		}
	}
	// Insertion order breaks ties between tasks created in the same instant.
	sort.Slice(out, func(i, j int) bool { return r.order[out[i].ID] > r.order[out[j].ID] })
	return out, nil
}

func (r *memTasks) Update(_ context.Context, ownerID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	t = patch.Apply(t)
	r.tasks[id] = t
	return &t, nil
}

func (r *memTasks) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

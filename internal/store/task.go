package store

import (
	"context"

	"github.com/retrodesk/taskdesk-api/internal/domain"
)

// StatusCount is the number of tasks holding a given status.
type StatusCount struct {
	Status domain.TaskStatus `json:"status"`
	Count  int               `json:"count"`
}

// PriorityCount is the number of tasks holding a given priority.
type PriorityCount struct {
	Priority domain.TaskPriority `json:"priority"`
	Count    int                 `json:"count"`
}

// TaskStore defines the persistence operations for tasks.
type TaskStore interface {
	// List retrieves tasks ordered by creation time, newest first.
	// A nil limit returns all tasks; offset is only applied when limit is set.
	List(ctx context.Context, limit, offset *int) ([]domain.Task, error)

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByStatus retrieves tasks with an exactly matching status, newest first.
	ListByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error)

	// ListByPriority retrieves tasks with an exactly matching priority, newest first.
	ListByPriority(ctx context.Context, priority domain.TaskPriority) ([]domain.Task, error)

	// Search retrieves tasks whose title or description contains the term,
	// matched case-insensitively, newest first.
	Search(ctx context.Context, term string) ([]domain.Task, error)

	// Create persists a new task and returns it with the store-assigned
	// ID and timestamps filled in.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// Update applies the given column/value pairs to the task with the
	// given ID in a single statement, bumping updated_at, and returns the
	// updated row. Returns ErrTaskNotFound if no row was affected.
	// Column names must come from a fixed whitelist, never from user input.
	Update(ctx context.Context, id int64, fields map[string]any) (*domain.Task, error)

	// Delete removes the task with the given ID.
	// Returns ErrTaskNotFound if no row was affected.
	Delete(ctx context.Context, id int64) error

	// CountTotal returns the total number of tasks.
	CountTotal(ctx context.Context) (int, error)

	// CountByStatus returns per-status task counts, ordered by count descending.
	CountByStatus(ctx context.Context) ([]StatusCount, error)

	// CountByPriority returns per-priority task counts, ordered by count descending.
	CountByPriority(ctx context.Context) ([]PriorityCount, error)
}

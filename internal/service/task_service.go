package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/retrodesk/taskdesk-api/internal/domain"
	"github.com/retrodesk/taskdesk-api/internal/store"
)

// CreateTaskInput holds the caller-supplied fields for creating a task.
// Status and priority fall back to their defaults when left as zero values.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// UpdateTaskInput holds the caller-supplied fields for a partial update.
// Nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
}

// TaskService provides task-related operations: it enforces task
// invariants and translates domain operations into store calls.
type TaskService interface {
	// List returns tasks newest first. A nil limit returns every task;
	// offset is only applied together with limit. No upper bound is
	// enforced on the result size.
	List(ctx context.Context, limit, offset *int) ([]domain.Task, error)

	// GetByID returns a single task by ID.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByStatus returns tasks whose status exactly matches the given
	// value, newest first. The value is deliberately not checked against
	// the enum: an illegal value yields an empty result rather than a
	// validation error.
	ListByStatus(ctx context.Context, status string) ([]domain.Task, error)

	// ListByPriority returns tasks whose priority exactly matches the
	// given value, newest first. Like ListByStatus, illegal values yield
	// an empty result.
	ListByPriority(ctx context.Context, priority string) ([]domain.Task, error)

	// Search returns tasks whose title or description contains the term,
	// matched case-insensitively, newest first.
	Search(ctx context.Context, term string) ([]domain.Task, error)

	// Create validates and persists a new task.
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// Update applies a partial update to an existing task. Only supplied
	// fields change; updated_at is always refreshed.
	Update(ctx context.Context, id int64, input UpdateTaskInput) (*domain.Task, error)

	// Delete permanently removes a task.
	Delete(ctx context.Context, id int64) error

	// CountTotal returns the total number of tasks.
	CountTotal(ctx context.Context) (int, error)

	// CountByStatus returns per-status counts ordered by count descending.
	CountByStatus(ctx context.Context) ([]store.StatusCount, error)

	// CountByPriority returns per-priority counts ordered by count descending.
	CountByPriority(ctx context.Context) ([]store.PriorityCount, error)
}

// taskService is the store-backed implementation of TaskService.
type taskService struct {
	store  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService backed by the given store.
// If logger is nil, the default logger is used.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) TaskService {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskService{
		store:  taskStore,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

func (s *taskService) List(ctx context.Context, limit, offset *int) ([]domain.Task, error) {
	tasks, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, s.opFailed("list", err)
	}
	return tasks, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if id <= 0 {
		return nil, NewValidationError("Invalid task ID")
	}

	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Task with ID %d not found", id))
		}
		return nil, s.opFailed("get", err)
	}

	return task, nil
}

func (s *taskService) ListByStatus(ctx context.Context, status string) ([]domain.Task, error) {
	tasks, err := s.store.ListByStatus(ctx, domain.TaskStatus(status))
	if err != nil {
		return nil, s.opFailed("list_by_status", err)
	}
	return tasks, nil
}

func (s *taskService) ListByPriority(ctx context.Context, priority string) ([]domain.Task, error) {
	tasks, err := s.store.ListByPriority(ctx, domain.TaskPriority(priority))
	if err != nil {
		return nil, s.opFailed("list_by_priority", err)
	}
	return tasks, nil
}

func (s *taskService) Search(ctx context.Context, term string) ([]domain.Task, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, NewValidationError("Search term is required")
	}

	tasks, err := s.store.Search(ctx, term)
	if err != nil {
		return nil, s.opFailed("search", err)
	}
	return tasks, nil
}

func (s *taskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	if input.DueDate != nil && input.DueDate.Before(time.Now()) {
		return nil, NewValidationError("Due date cannot be in the past")
	}

	task, err := domain.NewTask(
		input.Title,
		input.Description,
		input.Status,
		input.Priority,
		input.DueDate,
	)
	if err != nil {
		return nil, validationErrorFromDomain(err)
	}

	created, err := s.store.Create(ctx, task)
	if err != nil {
		return nil, s.opFailed("create", err)
	}

	return created, nil
}

func (s *taskService) Update(
	ctx context.Context,
	id int64,
	input UpdateTaskInput,
) (*domain.Task, error) {
	if id <= 0 {
		return nil, NewValidationError("Invalid task ID")
	}

	fields, err := sanitizeUpdate(input)
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, NewValidationError("No valid fields to update")
	}

	task, err := s.store.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Task with ID %d not found", id))
		}
		return nil, s.opFailed("update", err)
	}

	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("Invalid task ID")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFoundError(fmt.Sprintf("Task with ID %d not found", id))
		}
		return s.opFailed("delete", err)
	}

	return nil
}

func (s *taskService) CountTotal(ctx context.Context) (int, error) {
	count, err := s.store.CountTotal(ctx)
	if err != nil {
		return 0, s.opFailed("count_total", err)
	}
	return count, nil
}

func (s *taskService) CountByStatus(ctx context.Context) ([]store.StatusCount, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, s.opFailed("count_by_status", err)
	}
	return counts, nil
}

func (s *taskService) CountByPriority(ctx context.Context) ([]store.PriorityCount, error) {
	counts, err := s.store.CountByPriority(ctx)
	if err != nil {
		return nil, s.opFailed("count_by_priority", err)
	}
	return counts, nil
}

// sanitizeUpdate converts a partial update into the column/value map the
// store executes. A supplied but blank title is dropped rather than
// rejected, so an update carrying only a blank title fails the
// no-fields check instead.
func sanitizeUpdate(input UpdateTaskInput) (map[string]any, error) {
	fields := make(map[string]any)

	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			fields["title"] = title
		}
	}

	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}

	if input.Status != nil {
		if !domain.IsValidTaskStatus(*input.Status) {
			return nil, NewValidationError("Invalid task status")
		}
		fields["status"] = string(*input.Status)
	}

	if input.Priority != nil {
		if !domain.IsValidTaskPriority(*input.Priority) {
			return nil, NewValidationError("Invalid task priority")
		}
		fields["priority"] = string(*input.Priority)
	}

	if input.DueDate != nil {
		if input.DueDate.Before(time.Now()) {
			return nil, NewValidationError("Due date cannot be in the past")
		}
		fields["due_date"] = *input.DueDate
	}

	return fields, nil
}

// validationErrorFromDomain converts domain validation errors into the
// client-facing ValidationError messages.
func validationErrorFromDomain(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyTaskTitle):
		return NewValidationError("Title is required")
	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return NewValidationError("Invalid task status")
	case errors.Is(err, domain.ErrInvalidTaskPriority):
		return NewValidationError("Invalid task priority")
	case errors.Is(err, domain.ErrDueDateInPast):
		return NewValidationError("Due date cannot be in the past")
	default:
		return NewValidationError(err.Error())
	}
}

// opFailed logs the underlying cause and returns the generic wrapper
// callers are allowed to see.
func (s *taskService) opFailed(operation string, err error) error {
	s.logger.Error("task operation failed", "operation", operation, "error", err)
	return &TaskServiceError{Operation: operation, Err: err}
}

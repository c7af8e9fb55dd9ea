package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/retrodesk/taskdesk-api/internal/domain"
	"github.com/retrodesk/taskdesk-api/internal/store"
)

// taskColumns is the column list used by every task query so that row
// scanning stays in one place.
const taskColumns = "id, title, description, status, priority, due_date, created_at, updated_at"

// updatableTaskColumns is the whitelist of columns a partial update may
// touch, in the order they appear in the UPDATE statement. Column names
// are never taken from user input.
var updatableTaskColumns = []string{"title", "description", "status", "priority", "due_date"}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed
// by the caller. If logger is nil, the default logger is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, limit, offset *int) ([]domain.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks ORDER BY created_at DESC", taskColumns)
	var args []any

	// Offset is only meaningful when a limit is present, matching the
	// service contract.
	if limit != nil {
		query += " LIMIT $1"
		args = append(args, *limit)

		if offset != nil {
			query += " OFFSET $2"
			args = append(args, *offset)
		}
	}

	return s.queryTasks(ctx, "list", query, args...)
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1", taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		s.logger.Error("failed to get task by id", "task_id", id, "error", err)
		return nil, MapError(err)
	}

	return task, nil
}

// ListByStatus implements store.TaskStore.ListByStatus
func (s *PostgresTaskStore) ListByStatus(
	ctx context.Context,
	status domain.TaskStatus,
) ([]domain.Task, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE status = $1 ORDER BY created_at DESC",
		taskColumns,
	)
	return s.queryTasks(ctx, "list_by_status", query, status)
}

// ListByPriority implements store.TaskStore.ListByPriority
func (s *PostgresTaskStore) ListByPriority(
	ctx context.Context,
	priority domain.TaskPriority,
) ([]domain.Task, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE priority = $1 ORDER BY created_at DESC",
		taskColumns,
	)
	return s.queryTasks(ctx, "list_by_priority", query, priority)
}

// Search implements store.TaskStore.Search
// ILIKE gives the same semantics as the case-folded LIKE the service
// previously relied on, without lowercasing both sides by hand.
func (s *PostgresTaskStore) Search(ctx context.Context, term string) ([]domain.Task, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM tasks
		 WHERE title ILIKE $1 OR description ILIKE $1
		 ORDER BY created_at DESC`,
		taskColumns,
	)
	pattern := "%" + term + "%"
	return s.queryTasks(ctx, "search", query, pattern)
}

// Create implements store.TaskStore.Create
// The id and both timestamps are assigned by the database; the returned
// task reflects the persisted row.
func (s *PostgresTaskStore) Create(
	ctx context.Context,
	task *domain.Task,
) (*domain.Task, error) {
	query := fmt.Sprintf(
		`INSERT INTO tasks (title, description, status, priority, due_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING %s`,
		taskColumns,
	)

	created, err := scanTask(s.db.QueryRowContext(ctx, query,
		task.Title,
		nullString(task.Description),
		task.Status,
		task.Priority,
		nullTime(task.DueDate),
	))
	if err != nil {
		s.logger.Error("failed to create task", "title", task.Title, "error", err)
		return nil, MapError(err)
	}

	return created, nil
}

// Update implements store.TaskStore.Update
// Existence check and mutation happen in the same statement: when the
// RETURNING clause yields no row the task did not exist, so there is no
// read-then-write window for a concurrent delete to slip into.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id int64,
	fields map[string]any,
) (*domain.Task, error) {
	query, args := buildTaskUpdate(id, fields)
	if query == "" {
		return nil, store.NewStoreError("task", "update", "no fields to update", nil)
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		s.logger.Error("failed to update task", "task_id", id, "error", err)
		return nil, MapError(err)
	}

	return task, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		s.logger.Error("failed to delete task", "task_id", id, "error", err)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Error("failed to get rows affected", "task_id", id, "error", err)
		return MapError(err)
	}

	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// CountTotal implements store.TaskStore.CountTotal
func (s *PostgresTaskStore) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count)
	if err != nil {
		s.logger.Error("failed to count tasks", "error", err)
		return 0, MapError(err)
	}
	return count, nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(ctx context.Context) ([]store.StatusCount, error) {
	query := `SELECT status, COUNT(*) AS count
		FROM tasks
		GROUP BY status
		ORDER BY count DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("failed to count tasks by status", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var counts []store.StatusCount
	for rows.Next() {
		var c store.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			s.logger.Error("failed to scan status count row", "error", err)
			return nil, MapError(err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("error iterating status count rows", "error", err)
		return nil, MapError(err)
	}

	return counts, nil
}

// CountByPriority implements store.TaskStore.CountByPriority
func (s *PostgresTaskStore) CountByPriority(ctx context.Context) ([]store.PriorityCount, error) {
	query := `SELECT priority, COUNT(*) AS count
		FROM tasks
		GROUP BY priority
		ORDER BY count DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("failed to count tasks by priority", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var counts []store.PriorityCount
	for rows.Next() {
		var c store.PriorityCount
		if err := rows.Scan(&c.Priority, &c.Count); err != nil {
			s.logger.Error("failed to scan priority count row", "error", err)
			return nil, MapError(err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("error iterating priority count rows", "error", err)
		return nil, MapError(err)
	}

	return counts, nil
}

// queryTasks runs a query expected to return task rows and scans them.
func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query tasks", "operation", operation, "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error("failed to scan task row", "operation", operation, "error", err)
			return nil, MapError(err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("error iterating task rows", "operation", operation, "error", err)
		return nil, MapError(err)
	}

	return tasks, nil
}

// buildTaskUpdate assembles a single parameterized UPDATE statement over
// the whitelisted columns present in fields. It returns an empty query
// when fields contains no updatable column. updated_at is always bumped
// as part of the same statement.
func buildTaskUpdate(id int64, fields map[string]any) (string, []any) {
	var sets []string
	var args []any

	for _, col := range updatableTaskColumns {
		value, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if len(sets) == 0 {
		return "", nil
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "),
		len(args),
		taskColumns,
	)

	return query, args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans a single task row into a domain.Task.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}

	return &task, nil
}

// nullString converts an optional string to its sql representation.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullTime converts an optional time to its sql representation.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

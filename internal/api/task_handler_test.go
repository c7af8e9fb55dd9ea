package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/retrodesk/taskdesk-api/internal/api/shared"
	"github.com/retrodesk/taskdesk-api/internal/domain"
	"github.com/retrodesk/taskdesk-api/internal/service"
	"github.com/retrodesk/taskdesk-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTaskService is a mock implementation of service.TaskService for testing
type MockTaskService struct {
	ListFn            func(ctx context.Context, limit, offset *int) ([]domain.Task, error)
	GetByIDFn         func(ctx context.Context, id int64) (*domain.Task, error)
	ListByStatusFn    func(ctx context.Context, status string) ([]domain.Task, error)
	ListByPriorityFn  func(ctx context.Context, priority string) ([]domain.Task, error)
	SearchFn          func(ctx context.Context, term string) ([]domain.Task, error)
	CreateFn          func(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error)
	UpdateFn          func(ctx context.Context, id int64, input service.UpdateTaskInput) (*domain.Task, error)
	DeleteFn          func(ctx context.Context, id int64) error
	CountTotalFn      func(ctx context.Context) (int, error)
	CountByStatusFn   func(ctx context.Context) ([]store.StatusCount, error)
	CountByPriorityFn func(ctx context.Context) ([]store.PriorityCount, error)
}

func (m *MockTaskService) List(ctx context.Context, limit, offset *int) ([]domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockTaskService) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskService) ListByStatus(ctx context.Context, status string) ([]domain.Task, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return nil, nil
}

func (m *MockTaskService) ListByPriority(
	ctx context.Context,
	priority string,
) ([]domain.Task, error) {
	if m.ListByPriorityFn != nil {
		return m.ListByPriorityFn(ctx, priority)
	}
	return nil, nil
}

func (m *MockTaskService) Search(ctx context.Context, term string) ([]domain.Task, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, term)
	}
	return nil, nil
}

func (m *MockTaskService) Create(
	ctx context.Context,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input)
	}
	return nil, nil
}

func (m *MockTaskService) Update(
	ctx context.Context,
	id int64,
	input service.UpdateTaskInput,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, input)
	}
	return nil, nil
}

func (m *MockTaskService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockTaskService) CountTotal(ctx context.Context) (int, error) {
	if m.CountTotalFn != nil {
		return m.CountTotalFn(ctx)
	}
	return 0, nil
}

func (m *MockTaskService) CountByStatus(ctx context.Context) ([]store.StatusCount, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return nil, nil
}

func (m *MockTaskService) CountByPriority(ctx context.Context) ([]store.PriorityCount, error) {
	if m.CountByPriorityFn != nil {
		return m.CountByPriorityFn(ctx)
	}
	return nil, nil
}

// newTestRouter mounts the handler on the same route tree the server uses.
func newTestRouter(svc service.TaskService) http.Handler {
	h := NewTaskHandler(svc)

	r := chi.NewRouter()
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/search", h.SearchTasks)
		r.Get("/stats/count", h.CountTasks)
		r.Get("/stats/status", h.CountByStatus)
		r.Get("/stats/priority", h.CountByPriority)
		r.Get("/status/{status}", h.ListByStatus)
		r.Get("/priority/{priority}", h.ListByPriority)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
	})
	return r
}

// decodeErrorEnvelope unpacks the uniform error response body.
func decodeErrorEnvelope(t *testing.T, body *bytes.Buffer) shared.ErrorResponse {
	t.Helper()
	var envelope shared.ErrorResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope
}

func fixedTask() *domain.Task {
	desc := "reach the dns server"
	created := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:          12,
		Title:       "Fix the router",
		Description: &desc,
		Status:      domain.TaskStatusPending,
		Priority:    domain.TaskPriorityMedium,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Parallel()

	t.Run("returns_task_array", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			ListFn: func(ctx context.Context, limit, offset *int) ([]domain.Task, error) {
				require.NotNil(t, limit)
				require.NotNil(t, offset)
				assert.Equal(t, 5, *limit)
				assert.Equal(t, 10, *offset)
				return []domain.Task{*fixedTask()}, nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks?limit=5&offset=10", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var tasks []domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
		require.Len(t, tasks, 1)
		assert.Equal(t, int64(12), tasks[0].ID)
	})

	t.Run("empty_result_serializes_as_array", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("malformed_limit_rejected", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks?limit=ten", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, ErrorTypeValidation, envelope.Error.Type)
		assert.Equal(t, "Invalid limit parameter", envelope.Error.Message)
	})
}

func TestTaskHandler_GetTask(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			GetByIDFn: func(ctx context.Context, id int64) (*domain.Task, error) {
				assert.Equal(t, int64(12), id)
				return fixedTask(), nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/12", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var task domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, "Fix the router", task.Title)
	})

	t.Run("not_found_envelope", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			GetByIDFn: func(ctx context.Context, id int64) (*domain.Task, error) {
				return nil, service.NewNotFoundError("Task with ID 999999 not found")
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/999999", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, ErrorTypeNotFound, envelope.Error.Type)
		assert.Equal(t, "Task with ID 999999 not found", envelope.Error.Message)
	})

	t.Run("non_numeric_id_becomes_invalid_id", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			GetByIDFn: func(ctx context.Context, id int64) (*domain.Task, error) {
				assert.Equal(t, int64(0), id)
				return nil, service.NewValidationError("Invalid task ID")
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, ErrorTypeValidation, envelope.Error.Type)
		assert.Equal(t, "Invalid task ID", envelope.Error.Message)
	})
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			CreateFn: func(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error) {
				assert.Equal(t, "Fix the router", input.Title)
				assert.Equal(t, domain.TaskPriority("high"), input.Priority)
				return fixedTask(), nil
			},
		})

		body := bytes.NewBufferString(`{"title": "Fix the router", "priority": "high"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", body))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var task domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, int64(12), task.ID)
	})

	t.Run("malformed_json_rejected", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{})

		body := bytes.NewBufferString(`{"title": `)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, ErrorTypeValidation, envelope.Error.Type)
		assert.Equal(t, "Invalid request format", envelope.Error.Message)
	})

	t.Run("illegal_status_rejected_before_service", func(t *testing.T) {
		t.Parallel()

		serviceCalled := false
		router := newTestRouter(&MockTaskService{
			CreateFn: func(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error) {
				serviceCalled = true
				return fixedTask(), nil
			},
		})

		body := bytes.NewBufferString(`{"title": "x", "status": "archived"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, "Invalid task status", envelope.Error.Message)
		assert.False(t, serviceCalled)
	})

	t.Run("service_validation_error_passthrough", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			CreateFn: func(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error) {
				return nil, service.NewValidationError("Title is required")
			},
		})

		body := bytes.NewBufferString(`{"title": "   "}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, "Title is required", envelope.Error.Message)
	})

	t.Run("internal_error_hides_cause", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			CreateFn: func(ctx context.Context, input service.CreateTaskInput) (*domain.Task, error) {
				return nil, errors.New("pq: password authentication failed for user \"root\"")
			},
		})

		body := bytes.NewBufferString(`{"title": "anything"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", body))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, ErrorTypeInternal, envelope.Error.Type)
		assert.Equal(t, "Internal server error", envelope.Error.Message)
		assert.NotContains(t, rec.Body.String(), "password")
	})
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	t.Parallel()

	t.Run("updated", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			UpdateFn: func(ctx context.Context, id int64, input service.UpdateTaskInput) (*domain.Task, error) {
				assert.Equal(t, int64(12), id)
				require.NotNil(t, input.Status)
				assert.Equal(t, domain.TaskStatusCompleted, *input.Status)
				assert.Nil(t, input.Title)
				return fixedTask(), nil
			},
		})

		body := bytes.NewBufferString(`{"status": "completed"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/tasks/12", body))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty_payload_rejected", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			UpdateFn: func(ctx context.Context, id int64, input service.UpdateTaskInput) (*domain.Task, error) {
				return nil, service.NewValidationError("No valid fields to update")
			},
		})

		body := bytes.NewBufferString(`{}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/tasks/12", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, "No valid fields to update", envelope.Error.Message)
	})
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	t.Parallel()

	t.Run("deleted_with_empty_body", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			DeleteFn: func(ctx context.Context, id int64) error {
				assert.Equal(t, int64(12), id)
				return nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/12", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("not_found_envelope", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			DeleteFn: func(ctx context.Context, id int64) error {
				return service.NewNotFoundError("Task with ID 12 not found")
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/12", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, ErrorTypeNotFound, envelope.Error.Type)
	})
}

func TestTaskHandler_Filters(t *testing.T) {
	t.Parallel()

	t.Run("status_filter_passes_raw_value", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			ListByStatusFn: func(ctx context.Context, status string) ([]domain.Task, error) {
				assert.Equal(t, "bogus", status)
				return nil, nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/status/bogus", nil))

		// Illegal enum values intentionally produce an empty array, not 400.
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("priority_filter", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			ListByPriorityFn: func(ctx context.Context, priority string) ([]domain.Task, error) {
				assert.Equal(t, "high", priority)
				return []domain.Task{*fixedTask()}, nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/priority/high", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestTaskHandler_SearchTasks(t *testing.T) {
	t.Parallel()

	t.Run("missing_query_rejected", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			SearchFn: func(ctx context.Context, term string) ([]domain.Task, error) {
				assert.Empty(t, term)
				return nil, service.NewValidationError("Search term is required")
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/search", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeErrorEnvelope(t, rec.Body)
		assert.Equal(t, ErrorTypeValidation, envelope.Error.Type)
		assert.Equal(t, "Search term is required", envelope.Error.Message)
	})

	t.Run("term_forwarded", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			SearchFn: func(ctx context.Context, term string) ([]domain.Task, error) {
				assert.Equal(t, "server", term)
				return []domain.Task{*fixedTask()}, nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/search?q=server", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestTaskHandler_Stats(t *testing.T) {
	t.Parallel()

	t.Run("total_count", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			CountTotalFn: func(ctx context.Context) (int, error) {
				return 42, nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/stats/count", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"total": 42}`, rec.Body.String())
	})

	t.Run("status_counts", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{
			CountByStatusFn: func(ctx context.Context) ([]store.StatusCount, error) {
				return []store.StatusCount{
					{Status: domain.TaskStatusPending, Count: 3},
					{Status: domain.TaskStatusCompleted, Count: 1},
				}, nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/stats/status", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(
			t,
			`[{"status":"pending","count":3},{"status":"completed","count":1}]`,
			rec.Body.String(),
		)
	})

	t.Run("priority_counts_empty", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&MockTaskService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/stats/priority", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})
}

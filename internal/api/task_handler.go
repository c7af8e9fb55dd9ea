package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/retrodesk/taskdesk-api/internal/api/shared"
	"github.com/retrodesk/taskdesk-api/internal/domain"
	"github.com/retrodesk/taskdesk-api/internal/service"
	"github.com/retrodesk/taskdesk-api/internal/store"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// ListTasks handles GET /api/tasks requests with optional limit/offset
// pagination. Without a limit every task is returned.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseOptionalInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := parseOptionalInt(w, r, "offset")
	if !ok {
		return
	}

	tasks, err := h.taskService.List(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskArray(tasks))
}

// GetTask handles GET /api/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.GetByID(r.Context(), taskIDParam(r))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(
			w, r, http.StatusBadRequest, ErrorTypeValidation, "Invalid request format",
		)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(
			w, r, http.StatusBadRequest, ErrorTypeValidation, enumValidationMessage(err),
		)
		return
	}

	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		input.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		input.Priority = domain.TaskPriority(*req.Priority)
	}

	task, err := h.taskService.Create(r.Context(), input)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(
			w, r, http.StatusBadRequest, ErrorTypeValidation, "Invalid request format",
		)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(
			w, r, http.StatusBadRequest, ErrorTypeValidation, enumValidationMessage(err),
		)
		return
	}

	input := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.Update(r.Context(), taskIDParam(r), input)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.Delete(r.Context(), taskIDParam(r)); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByStatus handles GET /api/tasks/status/{status} requests.
// Illegal status values are not rejected; they match no rows and yield
// an empty array.
func (h *TaskHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListByStatus(r.Context(), chi.URLParam(r, "status"))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskArray(tasks))
}

// ListByPriority handles GET /api/tasks/priority/{priority} requests.
func (h *TaskHandler) ListByPriority(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListByPriority(r.Context(), chi.URLParam(r, "priority"))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskArray(tasks))
}

// SearchTasks handles GET /api/tasks/search?q=term requests
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskArray(tasks))
}

// CountTasks handles GET /api/tasks/stats/count requests
func (h *TaskHandler) CountTasks(w http.ResponseWriter, r *http.Request) {
	total, err := h.taskService.CountTotal(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Total: total})
}

// CountByStatus handles GET /api/tasks/stats/status requests
func (h *TaskHandler) CountByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.taskService.CountByStatus(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if counts == nil {
		counts = []store.StatusCount{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, counts)
}

// CountByPriority handles GET /api/tasks/stats/priority requests
func (h *TaskHandler) CountByPriority(w http.ResponseWriter, r *http.Request) {
	counts, err := h.taskService.CountByPriority(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if counts == nil {
		counts = []store.PriorityCount{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, counts)
}

// taskIDParam extracts the numeric id path parameter. Unparseable ids
// become 0, which the service rejects with its canonical invalid-ID
// validation error.
func taskIDParam(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// parseOptionalInt reads an optional integer query parameter. On a
// malformed value it writes a validation error response and reports
// false.
func parseOptionalInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		shared.RespondWithError(
			w, r, http.StatusBadRequest, ErrorTypeValidation,
			"Invalid "+name+" parameter",
		)
		return nil, false
	}

	return &value, true
}

// taskArray normalizes a possibly-nil slice so that empty results
// serialize as [] rather than null.
func taskArray(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}

// enumValidationMessage maps a validator error on the status/priority
// oneof constraints to its client-facing message.
func enumValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "Status":
			return "Invalid task status"
		case "Priority":
			return "Invalid task priority"
		}
	}
	return "Validation error"
}

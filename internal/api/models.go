package api

import "time"

// CreateTaskRequest defines the payload for the create-task endpoint.
// Status and priority default to pending/medium when omitted.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest defines the payload for the partial-update endpoint.
// Omitted fields keep their current values.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// CountResponse is the payload of the total-count endpoint.
type CountResponse struct {
	Total int `json:"total"`
}

// InfoResponse is the liveness payload served at the root path.
type InfoResponse struct {
	Message string `json:"message"`
	Day     string `json:"day"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

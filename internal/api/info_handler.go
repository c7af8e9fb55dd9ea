package api

import (
	"net/http"
	"time"

	"github.com/retrodesk/taskdesk-api/internal/api/shared"
)

// croatianWeekdays maps weekdays to their hr-HR names. Go ships no
// locale tables for weekday names, so the fixed locale the liveness
// payload has always used is spelled out here.
var croatianWeekdays = map[time.Weekday]string{
	time.Sunday:    "nedjelja",
	time.Monday:    "ponedjeljak",
	time.Tuesday:   "utorak",
	time.Wednesday: "srijeda",
	time.Thursday:  "četvrtak",
	time.Friday:    "petak",
	time.Saturday:  "subota",
}

// hr-HR short date and time layouts.
const (
	croatianDateLayout = "2. 1. 2006."
	croatianTimeLayout = "15:04:05"
)

// InfoHandler serves the liveness/info payload at the root path.
type InfoHandler struct {
	now func() time.Time
}

// NewInfoHandler creates a new InfoHandler using the real clock.
func NewInfoHandler() *InfoHandler {
	return &InfoHandler{now: time.Now}
}

// NewInfoHandlerWithClock creates an InfoHandler with an injected clock,
// used by tests to pin the rendered day, date, and time.
func NewInfoHandlerWithClock(now func() time.Time) *InfoHandler {
	return &InfoHandler{now: now}
}

// Info handles GET / requests
func (h *InfoHandler) Info(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	shared.RespondWithJSON(w, r, http.StatusOK, InfoResponse{
		Message: "Task API server is up and running!",
		Day:     croatianWeekdays[now.Weekday()],
		Date:    now.Format(croatianDateLayout),
		Time:    now.Format(croatianTimeLayout),
	})
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/retrodesk/taskdesk-api/internal/api"
	apiMiddleware "github.com/retrodesk/taskdesk-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.CORSMiddleware)
	r.Use(apiMiddleware.TraceMiddleware)

	infoHandler := api.NewInfoHandler()
	taskHandler := api.NewTaskHandler(app.taskService)

	r.Get("/", infoHandler.Info)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/search", taskHandler.SearchTasks)
		r.Get("/stats/count", taskHandler.CountTasks)
		r.Get("/stats/status", taskHandler.CountByStatus)
		r.Get("/stats/priority", taskHandler.CountByPriority)
		r.Get("/status/{status}", taskHandler.ListByStatus)
		r.Get("/priority/{priority}", taskHandler.ListByPriority)
		r.Get("/{id}", taskHandler.GetTask)
		r.Put("/{id}", taskHandler.UpdateTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	// Anything else, including wrong methods on known paths, gets the
	// standardized route-not-found envelope.
	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.NotFoundHandler)

	return r
}

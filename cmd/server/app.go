package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/retrodesk/taskdesk-api/internal/config"
	"github.com/retrodesk/taskdesk-api/internal/platform/postgres"
	"github.com/retrodesk/taskdesk-api/internal/service"
)

// application holds the wired dependencies of the running server.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	taskService service.TaskService
}

// newApplication connects to the database, applies pending migrations,
// and wires the store and service layers.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := applyMigrations(db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	taskStore := postgres.NewPostgresTaskStore(db, logger)
	taskService := service.NewTaskService(taskStore, logger)

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		taskService: taskService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}

package main

import (
	"log/slog"

	"github.com/retrodesk/taskdesk-api/internal/config"
	"github.com/retrodesk/taskdesk-api/internal/platform/logger"
)

// setupAppLogger configures and installs the application logger based on
// config settings.
func setupAppLogger(cfg *config.Config) *slog.Logger {
	return logger.Setup(cfg.Server)
}

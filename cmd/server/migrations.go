package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/retrodesk/taskdesk-api/internal/config"
	"github.com/retrodesk/taskdesk-api/migrations"
)

// runMigrationCommand opens its own database connection and executes a
// goose command (up, down, status, ...) against the embedded migrations,
// then exits. Used by the -migrate flag.
func runMigrationCommand(cfg *config.Config, command string) error {
	correlationID := uuid.New().String()
	migrationLogger := slog.Default().With(
		"correlation_id", correlationID,
		"component", "migrations",
		"command", command,
	)

	startTime := time.Now()
	migrationLogger.Info("Starting migration operation",
		"url", maskDatabaseURL(cfg.Database.URL()))

	db, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			migrationLogger.Error("Error closing database connection", "error", err)
		}
	}()

	if err := runGoose(db, command); err != nil {
		migrationLogger.Error("Migration operation failed", "error", err)
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	migrationLogger.Info("Migration operation completed",
		"duration_ms", time.Since(startTime).Milliseconds())
	return nil
}

// applyMigrations brings the schema up to date on the server's own pool
// during startup.
func applyMigrations(db *sql.DB, logger *slog.Logger) error {
	logger.Info("Applying pending migrations")
	return runGoose(db, "up")
}

// runGoose configures goose for the embedded migration set and runs the
// given command.
func runGoose(db *sql.DB, command string) error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.Up(db, ".")
	case "down":
		return goose.Down(db, ".")
	case "status":
		return goose.Status(db, ".")
	case "version":
		return goose.Version(db, ".")
	default:
		return fmt.Errorf("unsupported migration command %q", command)
	}
}

// maskDatabaseURL strips the password from a connection string so it can
// be logged safely.
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable database URL)"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.String()
}

// slogGooseLogger adapts goose's logger interface onto slog.
type slogGooseLogger struct{}

func (*slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
	os.Exit(1)
}

func (*slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

// Package main implements the entry point for the taskdesk API server,
// the REST backend of the retro desktop-shell task manager.
package main

import (
	"context"
	"flag"
	"log"
)

func main() {
	migrateCmd := flag.String(
		"migrate", "",
		"run a goose migration command (up, down, status) and exit",
	)
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run wires the application together and either executes a migration
// command or serves HTTP until shutdown.
func run(migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger := setupAppLogger(cfg)

	if migrateCmd != "" {
		return runMigrationCommand(cfg, migrateCmd)
	}

	app, err := newApplication(cfg, logger)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.startHTTPServer(context.Background(), app.setupRouter())
}

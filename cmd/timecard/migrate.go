package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prlpayroll/timecard/internal/cli"
	"github.com/prlpayroll/timecard/internal/config"
	"github.com/prlpayroll/timecard/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates automatically on startup; this exists for
provisioning a database ahead of time and for checking that an existing
one opens cleanly.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	dbPath := config.StoragePath()
	slog.Info("Running database migrations", "database", dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStorage(store)

	if err := store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Database schema at version %d", storage.ExpectedSchemaVersion)))
	return nil
}

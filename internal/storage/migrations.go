package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial timesheet schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS timesheet_entries (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					hash TEXT UNIQUE NOT NULL,
					name TEXT NOT NULL,
					matched_as TEXT,
					ratio REAL NOT NULL DEFAULT 0,
					match_status TEXT NOT NULL,
					client TEXT,
					site_address TEXT,
					department TEXT,
					weekday_hours REAL NOT NULL DEFAULT 0,
					saturday_hours REAL NOT NULL DEFAULT 0,
					sunday_hours REAL NOT NULL DEFAULT 0,
					rate REAL NOT NULL,
					date_range TEXT,
					extracted_on DATETIME,
					source_file TEXT,
					upload_timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
					is_paid BOOLEAN NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX idx_entries_upload ON timesheet_entries(upload_timestamp)`,
				`CREATE INDEX idx_entries_matched ON timesheet_entries(matched_as)`,
				`CREATE INDEX idx_entries_status ON timesheet_entries(match_status)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add override audit trail",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS override_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					entry_id INTEGER NOT NULL,
					old_matched_as TEXT,
					new_matched_as TEXT NOT NULL,
					old_rate REAL,
					new_rate REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (entry_id) REFERENCES timesheet_entries(id)
				)
			`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d",
			ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prlpayroll/timecard/internal/common"
	"github.com/prlpayroll/timecard/internal/config"
	"github.com/prlpayroll/timecard/internal/engine"
	"github.com/prlpayroll/timecard/internal/extract"
	"github.com/prlpayroll/timecard/internal/matcher"
	"github.com/prlpayroll/timecard/internal/rates"
	"github.com/prlpayroll/timecard/internal/service"
	"github.com/prlpayroll/timecard/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(config.StoragePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func closeStorage(store service.Storage) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

// loadDirectory builds the rate directory from the configured sheets, or
// from explicit overrides when the command carries a --rates flag.
func loadDirectory(overrides []string) (*matcher.Directory, error) {
	paths := overrides
	if len(paths) == 0 {
		paths = config.RateFiles()
	}
	if len(paths) == 0 {
		return nil, common.NewUserError("no rate sheets configured; set rates.file or pass --rates", nil)
	}

	dir, err := rates.NewLoader(nil).LoadFiles(paths...)
	if err != nil {
		return nil, err
	}
	if dir.Len() == 0 {
		return nil, fmt.Errorf("%w: checked %d files", common.ErrNoRateTable, len(paths))
	}
	return dir, nil
}

func loadPolicy() (config.PayPolicy, error) {
	return config.LoadPayPolicy()
}

// newEngine assembles the full processing pipeline behind one call.
func newEngine(ctx context.Context, ratePaths []string) (*engine.Engine, service.Storage, error) {
	policy, err := config.LoadPayPolicy()
	if err != nil {
		return nil, nil, err
	}

	dir, err := loadDirectory(ratePaths)
	if err != nil {
		return nil, nil, err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(store, extract.NewExtractor(nil), dir, policy, slog.Default())
	return eng, store, nil
}

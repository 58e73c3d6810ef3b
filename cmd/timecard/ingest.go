package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/prlpayroll/timecard/internal/cli"
	"github.com/prlpayroll/timecard/internal/engine"
)

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Extract timesheets and save them for payroll",
		Long: `Extract worker timesheets from the given documents, resolve each name
against the rate directory, compute the pay breakdown and save the records.

Accepts .docx timesheets, Anel .pdf reports, .zip bundles of either, and
directories (scanned non-recursively). Re-ingesting a document is safe:
records already stored for the same worker and period are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().Bool("dry-run", false, "Extract and match without saving anything")
	cmd.Flags().Int("workers", 2, "Number of files processed concurrently")
	cmd.Flags().StringSlice("rates", nil, "Rate sheet paths (overrides config)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	workers, _ := cmd.Flags().GetInt("workers")
	ratePaths, _ := cmd.Flags().GetStringSlice("rates")

	paths, err := collectSourceFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no timesheet documents found in %s", strings.Join(args, ", "))
	}

	eng, store, err := newEngine(ctx, ratePaths)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Extracting timesheets..."),
	)

	opts := engine.ProcessOptions{
		ParallelWorkers: workers,
		DryRun:          dryRun,
		Progress:        func(string) { _ = bar.Add(1) },
	}
	summary, err := eng.ProcessFiles(ctx, paths, opts)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	printIngestSummary(summary, dryRun)
	return nil
}

func printIngestSummary(summary *engine.ProcessSummary, dryRun bool) {
	if dryRun {
		fmt.Println(cli.TitleStyle.Render("Ingest (dry run)"))
	} else {
		fmt.Println(cli.TitleStyle.Render("Ingest"))
	}

	fmt.Printf("  Files:      %d\n", summary.FilesProcessed)
	fmt.Printf("  Extracted:  %d\n", summary.Extracted)
	if dryRun {
		fmt.Printf("  Would save: %d\n", len(summary.Records))
	} else {
		fmt.Printf("  Saved:      %d\n", summary.Inserted)
		if summary.Duplicates > 0 {
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  Duplicates skipped: %d", summary.Duplicates)))
		}
	}
	if summary.Unmatched > 0 {
		fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("  %s %d workers need manual review (timecard review)", cli.WarningIcon, summary.Unmatched)))
	}
	for _, failure := range summary.Failed {
		fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", failure.Path, failure.Err)))
	}
	for _, rejected := range summary.Rejected {
		fmt.Println(cli.FormatError(fmt.Sprintf("rejected: %v", rejected.Err)))
	}
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  Took %s (batch %s)", summary.ProcessingTime.Round(10*time.Millisecond), summary.BatchID)))
}

// collectSourceFiles expands directory arguments one level deep and keeps
// only extensions the extractor understands.
func collectSourceFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".docx", ".pdf", ".zip":
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}

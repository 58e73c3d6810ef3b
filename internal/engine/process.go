package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prlpayroll/timecard/internal/model"
)

// ProcessOptions configures a batch ingest run.
type ProcessOptions struct {
	Progress        func(path string) // Called as each file finishes, from worker goroutines
	ParallelWorkers int               // Number of files extracted concurrently
	DryRun          bool              // Extract and match but do not persist
}

// DefaultProcessOptions returns sensible defaults.
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{ParallelWorkers: 2}
}

// FileError records an extraction failure for one source file.
type FileError struct {
	Err  error
	Path string
}

// ProcessSummary contains statistics about a batch ingest run.
type ProcessSummary struct {
	BatchID        string
	Records        []*model.TimesheetRecord
	Failed         []FileError
	Rejected       []FileError
	FilesProcessed int
	Extracted      int
	Unmatched      int
	Inserted       int
	Duplicates     int
	ProcessingTime time.Duration
}

type fileResult struct {
	err         error
	path        string
	extractions []*model.TimesheetRecord
	index       int
}

// ProcessFiles extracts every path, resolves and prices each worker found,
// and persists the batch. Files are extracted in parallel but records keep
// input order. Extraction failures and validation rejections are collected
// in the summary rather than aborting the batch.
func (e *Engine) ProcessFiles(ctx context.Context, paths []string, opts ProcessOptions) (*ProcessSummary, error) {
	startTime := time.Now()
	if opts.ParallelWorkers < 1 {
		opts.ParallelWorkers = 1
	}

	summary := &ProcessSummary{
		BatchID:        uuid.NewString(),
		FilesProcessed: len(paths),
	}
	e.logger.Info("Starting batch ingest",
		"batch_id", summary.BatchID,
		"files", len(paths),
		"workers", opts.ParallelWorkers,
		"dry_run", opts.DryRun)

	results := e.extractParallel(ctx, paths, opts)

	for _, res := range results {
		if res.err != nil {
			summary.Failed = append(summary.Failed, FileError{Path: res.path, Err: res.err})
			e.logger.Warn("Failed to extract file", "path", res.path, "error", res.err)
			continue
		}
		for _, rec := range res.extractions {
			summary.Extracted++
			if rec.Status == model.StatusUnmatched {
				summary.Unmatched++
			}
			if err := validateHours(rec); err != nil {
				summary.Rejected = append(summary.Rejected, FileError{Path: res.path, Err: err})
				e.logger.Warn("Rejected record", "path", res.path, "error", err)
				continue
			}
			summary.Records = append(summary.Records, rec)
		}
	}

	summary.ProcessingTime = time.Since(startTime)
	if opts.DryRun || len(summary.Records) == 0 {
		return summary, nil
	}

	saved, err := e.store.SaveRecords(ctx, summary.Records)
	if err != nil {
		return summary, err
	}
	summary.Inserted = saved.Inserted
	summary.Duplicates = saved.Duplicates
	summary.ProcessingTime = time.Since(startTime)

	e.logger.Info("Batch ingest complete",
		"batch_id", summary.BatchID,
		"extracted", summary.Extracted,
		"inserted", summary.Inserted,
		"duplicates", summary.Duplicates,
		"unmatched", summary.Unmatched,
		"failed_files", len(summary.Failed))
	return summary, nil
}

// extractParallel fans the paths out over a bounded worker pool and returns
// per-file results in input order.
func (e *Engine) extractParallel(ctx context.Context, paths []string, opts ProcessOptions) []fileResult {
	workChan := make(chan fileResult, len(paths))
	for i, path := range paths {
		workChan <- fileResult{index: i, path: path}
	}
	close(workChan)

	resultsChan := make(chan fileResult, len(paths))

	var wg sync.WaitGroup
	wg.Add(opts.ParallelWorkers)
	for i := 0; i < opts.ParallelWorkers; i++ {
		go func() {
			defer wg.Done()
			for work := range workChan {
				select {
				case <-ctx.Done():
					work.err = ctx.Err()
					resultsChan <- work
					continue
				default:
				}

				extractions, err := e.extractor.ExtractFile(ctx, work.path)
				if err != nil {
					work.err = err
				}
				for _, ext := range extractions {
					work.extractions = append(work.extractions, e.BuildRecord(ext))
				}
				if opts.Progress != nil {
					opts.Progress(work.path)
				}
				resultsChan <- work
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]fileResult, len(paths))
	for res := range resultsChan {
		results[res.index] = res
	}
	return results
}

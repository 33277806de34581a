package sheetpipe

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
)

// ExtractBatch processes every file through the per-file pipeline with a
// bounded worker pool. Each file is independent; errors stay isolated to
// their file, so a malformed workbook never aborts the batch. The only
// serialization point is the final merge into the combined record stream.
func ExtractBatch(ctx context.Context, paths []string, opts Options) models.BatchResult {
	result := models.BatchResult{
		RunID: uuid.NewString(),
		Files: make([]models.FileResult, len(paths)),
	}
	log := slog.Default().With("run_id", result.RunID)
	log.Debug("batch started", "files", len(paths), "workers", opts.workerCount())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workerCount())

	var mu sync.Mutex
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			fr := extractWithTimeout(ctx, path, opts)

			mu.Lock()
			defer mu.Unlock()
			result.Files[i] = fr
			if fr.Err != nil {
				log.Warn("file failed", "path", path, "err", fr.Err)
				result.Failed = append(result.Failed, path)
				return nil
			}
			result.Succeeded = append(result.Succeeded, path)
			return nil
		})
	}
	g.Wait()

	// Merge in input order so batch output is reproducible regardless of
	// worker scheduling.
	for _, fr := range result.Files {
		result.Records = append(result.Records, fr.Records...)
	}

	log.Debug("batch finished",
		"records", len(result.Records),
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed))
	return result
}

// extractWithTimeout bounds one file's wall-clock processing. A timeout
// (pathological inputs, enormous SUM ranges) becomes a file-level error
// rather than blocking the batch. The pipeline itself has no mid-file
// cancellation points, so the deadline is enforced from outside.
func extractWithTimeout(ctx context.Context, path string, opts Options) models.FileResult {
	if opts.FileTimeout <= 0 {
		fr, _ := Extract(path, opts)
		return fr
	}

	ctx, cancel := context.WithTimeout(ctx, opts.FileTimeout)
	defer cancel()

	done := make(chan models.FileResult, 1)
	go func() {
		fr, _ := Extract(path, opts)
		done <- fr
	}()

	select {
	case fr := <-done:
		return fr
	case <-ctx.Done():
		ferr := NewFileError(path, "extract", ErrFileTimeout)
		return models.FileResult{Path: path, Err: ferr, Error: ferr.Error()}
	}
}

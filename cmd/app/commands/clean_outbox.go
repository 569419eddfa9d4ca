package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// OutboxCleaner deletes terminal outbox records past the retention.
type OutboxCleaner interface {
	Clean(ctx context.Context, dryRun bool) (int64, error)
}

// RunCleanOutbox deletes PUBLISHED and FAILED outbox records older than hours. The cleaner
// must be built with the same retention. Supports dry-run and text/JSON output.
func RunCleanOutbox(
	ctx context.Context,
	cleaner OutboxCleaner,
	logger *slog.Logger,
	writer io.Writer,
	hours int,
	dryRun bool,
	format string,
) error {
	if hours < 0 {
		return fmt.Errorf("hours must be a positive number, got: %d", hours)
	}

	logger.Info("cleaning outbox records",
		slog.Int("hours", hours),
		slog.Bool("dry_run", dryRun),
	)

	count, err := cleaner.Clean(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean outbox records: %w", err)
	}

	if format == "json" {
		err = writeJSON(writer, map[string]any{
			"count":   count,
			"hours":   hours,
			"dry_run": dryRun,
		})
	} else {
		err = outputCleanOutboxText(writer, count, hours, dryRun)
	}
	if err != nil {
		return err
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("hours", hours),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

func outputCleanOutboxText(writer io.Writer, count int64, hours int, dryRun bool) error {
	var err error
	if dryRun {
		_, err = fmt.Fprintf(writer, "Dry-run mode: Would delete %d outbox record(s) older than %d hour(s)\n", count, hours)
	} else {
		_, err = fmt.Fprintf(writer, "Successfully deleted %d outbox record(s) older than %d hour(s)\n", count, hours)
	}
	return err
}

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	outboxUseCase "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/outbox/usecase"
)

// OutboxRequeuer moves failed outbox records back to the publish queue.
type OutboxRequeuer interface {
	Requeue(ctx context.Context) (outboxUseCase.RequeueResult, error)
}

// RunRequeueOutbox runs a single requeue pass and reports how many records were requeued
// and how many are dead letters at maxAttempts.
func RunRequeueOutbox(
	ctx context.Context,
	requeuer OutboxRequeuer,
	logger *slog.Logger,
	writer io.Writer,
	maxAttempts int,
	format string,
) error {
	if maxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got: %d", maxAttempts)
	}

	logger.Info("requeueing failed outbox records", slog.Int("max_attempts", maxAttempts))

	result, err := requeuer.Requeue(ctx)
	if err != nil {
		return fmt.Errorf("failed to requeue outbox records: %w", err)
	}

	if format == "json" {
		err = writeJSON(writer, map[string]any{
			"requeued":     result.Requeued,
			"exhausted":    result.Exhausted,
			"max_attempts": maxAttempts,
		})
	} else {
		_, err = fmt.Fprintf(writer,
			"Requeued %d outbox record(s); %d record(s) exhausted %d attempt(s)\n",
			result.Requeued, result.Exhausted, maxAttempts)
	}
	if err != nil {
		return err
	}

	logger.Info("requeue completed",
		slog.Int64("requeued", result.Requeued),
		slog.Int64("exhausted", result.Exhausted),
	)

	return nil
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// runEvery calls fn every interval until ctx is cancelled. Errors from fn are logged and
// the loop continues. A non-positive interval is rejected before the loop starts.
func runEvery(
	ctx context.Context,
	name string,
	interval time.Duration,
	logger *slog.Logger,
	fn func(ctx context.Context) error,
) error {
	if interval <= 0 {
		return fmt.Errorf("%s: interval must be positive, got %s", name, interval)
	}

	if logger != nil {
		logger.Info("starting "+name, slog.Duration("interval", interval))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if logger != nil {
				logger.Info("stopping " + name)
			}
			return ctx.Err()
		case <-ticker.C:
			if err := fn(ctx); err != nil && ctx.Err() == nil && logger != nil {
				logger.Error(name+" run failed", slog.Any("error", err))
			}
		}
	}
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/app"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/config"
)

// worker is one long-running loop of the worker process. Run returns when ctx is cancelled
// or the loop fails.
type worker struct {
	name string
	run  func(ctx context.Context) error
}

// RunWorker starts the outbox publisher, cleaner and requeuer together with the saga
// reactor consuming the configured saga topics. Blocks until SIGINT/SIGTERM or the first
// worker failure.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	defer closeContainer(container, logger)

	publisher, err := container.OutboxPublisher()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox publisher: %w", err)
	}

	cleaner, err := container.OutboxCleaner()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox cleaner: %w", err)
	}

	requeuer, err := container.OutboxRequeuer()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox requeuer: %w", err)
	}

	reactor, err := container.SagaReactor()
	if err != nil {
		return fmt.Errorf("failed to initialize saga reactor: %w", err)
	}

	consumer, err := container.Consumer()
	if err != nil {
		return fmt.Errorf("failed to initialize consumer: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		db, err := container.DB()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		metricsServer.AddReadinessCheck("database", db.PingContext)
	}

	workers := []worker{
		{name: "outbox publisher", run: publisher.Start},
		{name: "outbox cleaner", run: cleaner.Start},
		{name: "outbox requeuer", run: requeuer.Start},
		{name: "saga reactor", run: func(ctx context.Context) error {
			return consumer.Run(ctx, reactor.HandleMessage)
		}},
	}
	if metricsServer != nil {
		workers = append(workers, worker{name: "metrics server", run: func(ctx context.Context) error {
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
				defer cancel()
				_ = metricsServer.Shutdown(shutdownCtx)
			}()
			return metricsServer.Start(ctx)
		}})
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runWorkers(ctx, workers, logger)
}

// runWorkers runs every worker until ctx is cancelled. The first failure cancels the others
// and is returned. Cancellation itself is a clean exit.
func runWorkers(ctx context.Context, workers []worker, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, w := range workers {
		g.Go(func() error {
			err := w.run(gctx)
			if err == nil || errors.Is(err, context.Canceled) || (ctx.Err() != nil && errors.Is(err, ctx.Err())) {
				logger.Info("worker stopped", slog.String("worker", w.name))
				return nil
			}
			logger.Error("worker failed", slog.String("worker", w.name), slog.Any("error", err))
			return fmt.Errorf("%s: %w", w.name, err)
		})
	}

	return g.Wait()
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/app"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/broker"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/config"
)

// server is what RunServer and RunWorker start and stop.
type server interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// namedServer pairs a server with the name used in its errors.
type namedServer struct {
	name   string
	server server
}

// consumerServer runs a broker consumer as a server. Shutdown stops the consume loop;
// the container closes the consumer itself.
type consumerServer struct {
	consumer broker.Consumer
	handler  broker.Handler

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

func (s *consumerServer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	err := s.consumer.Run(ctx, s.handler)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *consumerServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// RunServer starts the order API, the metrics server and, unless REVENUE_ENABLED is off,
// the store revenue projection. Blocks until SIGINT/SIGTERM or a server error, then shuts
// everything down within DBConnMaxLifetime.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	apiServer, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	servers := []namedServer{{name: "api server", server: apiServer}}
	if metricsServer != nil {
		servers = append(servers, namedServer{name: "metrics server", server: metricsServer})
	}

	if cfg.RevenueEnabled {
		projector, err := container.RevenueProjector()
		if err != nil {
			return fmt.Errorf("failed to initialize revenue projector: %w", err)
		}
		consumer, err := container.RevenueConsumer()
		if err != nil {
			return fmt.Errorf("failed to initialize revenue consumer: %w", err)
		}
		servers = append(servers, namedServer{
			name:   "revenue projector",
			server: &consumerServer{consumer: consumer, handler: projector.HandleMessage},
		})
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serveUntilDone(ctx, servers, cfg.DBConnMaxLifetime, logger)
}

// serveUntilDone starts every server and waits for ctx or the first server error. All
// servers are shut down before it returns.
func serveUntilDone(
	ctx context.Context,
	servers []namedServer,
	shutdownTimeout time.Duration,
	logger *slog.Logger,
) error {
	serverErr := make(chan error, len(servers))
	for _, s := range servers {
		go func() {
			if err := s.server.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("%s error: %w", s.name, err)
			}
		}()
	}

	var errs []error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", err))
		errs = append(errs, err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("%s shutdown: %w", s.name, err))
		}
	}

	return errors.Join(errs...)
}

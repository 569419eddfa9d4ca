package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/broker"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/domain"
)

// ProjectionOutcome is how the projector disposed of one outbound event.
type ProjectionOutcome string

const (
	ProjectionApplied   ProjectionOutcome = "applied"
	ProjectionDuplicate ProjectionOutcome = "duplicate"
	ProjectionIgnored   ProjectionOutcome = "ignored"
	ProjectionLate      ProjectionOutcome = "late"
	ProjectionEmpty     ProjectionOutcome = "empty"
	ProjectionMalformed ProjectionOutcome = "malformed"
	ProjectionError     ProjectionOutcome = "error"
)

// Projector folds ORDER_CONFIRMED events from the order topic into store revenue windows.
type Projector struct {
	repo    RevenueRepository
	clock   clock.Clock
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
}

// NewProjector creates a Projector. businessMetrics and logger may be nil.
func NewProjector(
	repo RevenueRepository,
	clk clock.Clock,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Projector {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Projector{
		repo:    repo,
		clock:   clk,
		metrics: businessMetrics,
		logger:  logger,
	}
}

// HandleMessage parses a broker message and projects it. It satisfies broker.Handler.
func (p *Projector) HandleMessage(ctx context.Context, msg broker.Message) {
	env, err := event.ParseEnvelope(msg.Value)
	if err != nil {
		p.logger.Error("dropping malformed message",
			slog.String("topic", msg.Topic),
			slog.String("key", msg.Key),
			slog.Any("error", err),
		)
		p.metrics.RecordOperation(ctx, "revenue", "project", string(ProjectionMalformed))
		return
	}
	p.Project(ctx, env)
}

// Project applies one event to the revenue windows and reports what happened.
func (p *Projector) Project(ctx context.Context, env event.Envelope) ProjectionOutcome {
	start := time.Now()
	outcome := p.project(ctx, env)

	p.metrics.RecordOperation(ctx, "revenue", "project", string(outcome))
	p.metrics.RecordDuration(ctx, "revenue", "project", time.Since(start), string(outcome))

	return outcome
}

func (p *Projector) project(ctx context.Context, env event.Envelope) ProjectionOutcome {
	if env.EventType != event.OrderConfirmed {
		return ProjectionIgnored
	}

	logger := p.logger.With(slog.String("event_id", env.EventID))

	decoded, err := env.Decode()
	if err != nil {
		logger.Error("failed to decode event payload", slog.Any("error", err))
		return ProjectionMalformed
	}
	payload := decoded.(*event.OrderConfirmedPayload)
	logger = logger.With(slog.String("order_id", payload.OrderID.String()))

	confirmedAt := payload.ConfirmedAt
	if confirmedAt.IsZero() {
		confirmedAt = env.OccurredAt
	}
	windowStart := domain.WindowStart(confirmedAt)

	if domain.Closed(windowStart, p.clock.Now()) {
		logger.Warn("dropping event for closed revenue window", slog.Time("window_start", windowStart))
		return ProjectionLate
	}

	if len(payload.Items) == 0 {
		logger.Warn("confirmed order carries no items")
		return ProjectionEmpty
	}

	applied, err := p.repo.Apply(ctx, env.EventID, domain.Contributions(payload, windowStart))
	if err != nil {
		logger.Error("failed to apply revenue", slog.Any("error", err))
		return ProjectionError
	}
	if !applied {
		logger.Info("skipping duplicate event")
		return ProjectionDuplicate
	}

	logger.Debug("revenue applied", slog.Time("window_start", windowStart))
	return ProjectionApplied
}

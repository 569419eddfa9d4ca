package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/broker"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/inbox"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

// Outcome is how the reactor disposed of one inbound event. Every outcome is acknowledged.
type Outcome string

const (
	OutcomeApplied      Outcome = "applied"
	OutcomeNoOp         Outcome = "noop"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeRejected     Outcome = "rejected"
	OutcomeIgnored      Outcome = "ignored"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeUnknownEvent Outcome = "unknown_event"
	OutcomeMalformed    Outcome = "malformed"
	OutcomeError        Outcome = "error"
)

// SagaReactor applies inbound saga events to orders.
type SagaReactor struct {
	txManager database.TxManager
	orderRepo OrderRepository
	outbox    OutboxWriter
	dedup     inbox.Deduplicator
	clock     clock.Clock
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger
}

// NewSagaReactor creates a new SagaReactor. dedup may be nil.
func NewSagaReactor(
	txManager database.TxManager,
	orderRepo OrderRepository,
	outbox OutboxWriter,
	dedup inbox.Deduplicator,
	clk clock.Clock,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *SagaReactor {
	if dedup == nil {
		dedup = inbox.NewNoopDeduplicator()
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SagaReactor{
		txManager: txManager,
		orderRepo: orderRepo,
		outbox:    outbox,
		dedup:     dedup,
		clock:     clk,
		metrics:   businessMetrics,
		logger:    logger,
	}
}

// HandleMessage parses a broker message and handles it. It satisfies broker.Handler.
func (r *SagaReactor) HandleMessage(ctx context.Context, msg broker.Message) {
	env, err := event.ParseEnvelope(msg.Value)
	if err != nil {
		r.logger.Error("dropping malformed message",
			slog.String("topic", msg.Topic),
			slog.String("key", msg.Key),
			slog.Any("error", err),
		)
		r.metrics.RecordOperation(ctx, "saga", "unknown", string(OutcomeMalformed))
		return
	}
	r.Handle(ctx, env)
}

// Handle applies one event and reports what happened. It never fails: errors are logged
// and the event is acknowledged.
func (r *SagaReactor) Handle(ctx context.Context, env event.Envelope) Outcome {
	start := time.Now()
	outcome := r.handle(ctx, env)

	operation := string(env.EventType)
	if !env.EventType.Known() {
		operation = "unknown"
	}
	r.metrics.RecordOperation(ctx, "saga", operation, string(outcome))
	r.metrics.RecordDuration(ctx, "saga", operation, time.Since(start), string(outcome))

	return outcome
}

func (r *SagaReactor) handle(ctx context.Context, env event.Envelope) Outcome {
	logger := r.logger.With(
		slog.String("event_id", env.EventID),
		slog.String("event_type", env.EventType.String()),
	)

	seen, err := r.dedup.Seen(ctx, env.EventID)
	if err != nil {
		logger.Warn("inbox lookup failed, processing anyway", slog.Any("error", err))
	} else if seen {
		logger.Info("skipping duplicate event")
		return OutcomeDuplicate
	}

	if env.EventType.IsOutbound() {
		return OutcomeIgnored
	}

	payload, err := env.Decode()
	if err != nil {
		if errors.Is(err, event.ErrUnknownEventType) {
			logger.Warn("skipping unknown event type")
			return OutcomeUnknownEvent
		}
		logger.Error("failed to decode event payload", slog.Any("error", err))
		return OutcomeMalformed
	}

	orderID := event.OrderID(payload)
	logger = logger.With(slog.String("order_id", orderID.String()))

	var outcome Outcome
	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		order, err := r.orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		now := r.clock.Now()
		if err := r.apply(order, payload, now); err != nil {
			return err
		}

		if err := r.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		if order.Status == domain.OrderStatusConfirmed {
			err := r.outbox.Save(ctx, event.OrderConfirmed, event.AggregateTypeOrder, order.ID.String(),
				traceID(env), &event.OrderConfirmedPayload{
					OrderID:     order.ID,
					UserID:      order.BuyerID,
					ConfirmedAt: now,
					Items:       confirmedItems(order),
				})
			if err != nil {
				return err
			}
		}

		outcome = OutcomeApplied
		logger.Info("order status changed", slog.String("status", string(order.Status)))
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrOrderNotFound):
		logger.Warn("order not found")
		return OutcomeNotFound
	case errors.Is(err, domain.ErrTransitionNoOp):
		logger.Info("event already applied", slog.Any("error", err))
		return OutcomeNoOp
	case errors.Is(err, domain.ErrInvalidTransition):
		logger.Warn("event not applicable to order status", slog.Any("error", err))
		return OutcomeRejected
	default:
		logger.Error("failed to apply event", slog.Any("error", err))
		return OutcomeError
	}

	if err := r.dedup.Mark(ctx, env.EventID); err != nil {
		logger.Warn("failed to record processed event", slog.Any("error", err))
	}

	return outcome
}

// apply maps an inbound payload to its order command.
func (r *SagaReactor) apply(order *domain.Order, payload event.Payload, now time.Time) error {
	switch payload.(type) {
	case *event.PaymentCompletedPayload:
		return order.ConfirmPayment(now)
	case *event.PaymentFailedPayload:
		return order.Fail(now)
	case *event.StockDeductedPayload:
		return order.Complete(now)
	case *event.StockDeductionFailedPayload:
		return order.Fail(now)
	case *event.RefundSucceededPayload:
		return order.Cancel(now)
	case *event.RefundFailedPayload:
		return order.RequireManualCheck(now)
	default:
		return domain.ErrInvalidTransition
	}
}

func traceID(env event.Envelope) string {
	if env.TraceID == nil {
		return ""
	}
	return *env.TraceID
}

func confirmedItems(order *domain.Order) []event.OrderConfirmedItem {
	items := make([]event.OrderConfirmedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, event.OrderConfirmedItem{
			ProductID: item.ProductID,
			OwnerID:   item.OwnerID,
			Subtotal:  item.Subtotal(),
			Quantity:  item.Quantity,
		})
	}
	return items
}

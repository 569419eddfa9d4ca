package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	apperrors "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/errors"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/outbox/domain"
)

// WriterConfig holds the envelope metadata stamped on every outbound event.
type WriterConfig struct {
	Producer string
	Version  string
}

// Writer appends outbox records. It makes no network call: the record is inserted through
// the caller's transaction so it commits or rolls back with the business change.
type Writer struct {
	config  WriterConfig
	repo    OutboxRepository
	clock   clock.Clock
	metrics metrics.BusinessMetrics
}

// NewWriter creates a new Writer
func NewWriter(
	config WriterConfig,
	repo OutboxRepository,
	clk clock.Clock,
	businessMetrics metrics.BusinessMetrics,
) *Writer {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &Writer{config: config, repo: repo, clock: clk, metrics: businessMetrics}
}

// Save encodes payload and inserts one INIT record. An encoding failure returns
// event.ErrSerialization, which must abort the caller's transaction.
func (w *Writer) Save(
	ctx context.Context,
	eventType event.EventType,
	aggregateType, aggregateID, traceID string,
	payload event.Payload,
) error {
	if payload == nil || payload.EventType() != eventType {
		return apperrors.Wrap(apperrors.ErrInvalidInput,
			fmt.Sprintf("payload does not match event type %s", eventType))
	}

	data, err := event.Encode(payload)
	if err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	now := w.clock.Now()
	record := &domain.OutboxRecord{
		ID:            id,
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       data,
		Producer:      w.config.Producer,
		Version:       w.config.Version,
		Status:        domain.OutboxStatusInit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if traceID != "" {
		record.TraceID = &traceID
	}

	if err := w.repo.Create(ctx, record); err != nil {
		return apperrors.Wrap(err, "failed to save outbox record")
	}

	// counted once the business change is durable; a rolled back write never happened
	database.AfterCommit(ctx, func(ctx context.Context) {
		w.metrics.RecordOperation(ctx, "outbox", "write_"+strings.ToLower(string(eventType)), metrics.StatusSuccess)
	})
	return nil
}

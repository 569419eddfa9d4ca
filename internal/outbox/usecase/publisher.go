package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/broker"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/outbox/domain"
)

// DefaultBatchSize is used when PublisherConfig.BatchSize is not positive.
const DefaultBatchSize = 100

// ErrPrecedingSendFailed marks a record that was not sent because an earlier record of the
// same aggregate failed in the same batch.
var ErrPrecedingSendFailed = errors.New("earlier event of the aggregate failed to publish")

// PublisherConfig holds outbox publisher configuration
type PublisherConfig struct {
	Topic           string
	Interval        time.Duration
	BatchSize       int
	SendConcurrency int
	SendTimeout     time.Duration
}

// Publisher relays INIT records to the broker.
type Publisher struct {
	config    PublisherConfig
	txManager database.TxManager
	repo      OutboxRepository
	producer  broker.Producer
	clock     clock.Clock
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(
	config PublisherConfig,
	txManager database.TxManager,
	repo OutboxRepository,
	producer broker.Producer,
	clk clock.Clock,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Publisher {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	return &Publisher{
		config:    config,
		txManager: txManager,
		repo:      repo,
		producer:  producer,
		clock:     clk,
		metrics:   businessMetrics,
		logger:    logger,
	}
}

// Start publishes a batch every Interval until ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) error {
	return runEvery(ctx, "outbox publisher", p.config.Interval, p.logger, p.PublishBatch)
}

// PublishBatch runs one tick. Up to BatchSize INIT records are locked oldest first and
// sent, concurrently across aggregates and in order within one; the tick waits for every send before it marks each record PUBLISHED
// or FAILED and commits. Sends observe ctx, the transaction does not: when ctx is
// cancelled mid-tick the outcomes are still persisted and ctx.Err() is returned.
func (p *Publisher) PublishBatch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	var published, failed int64

	err := p.txManager.WithTx(context.WithoutCancel(ctx), func(txCtx context.Context) error {
		records, err := p.repo.GetInitBatchForUpdate(txCtx, p.config.BatchSize)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			return nil
		}

		outcomes := p.sendAll(ctx, records)

		now := p.clock.Now()
		for i, record := range records {
			if outcomes[i] != nil {
				record.MarkFailed(outcomes[i], now)
				failed++
				if p.logger != nil {
					p.logger.Warn("failed to publish outbox record",
						slog.String("event_id", record.ID.String()),
						slog.String("event_type", record.EventType.String()),
						slog.String("order_id", record.AggregateID),
						slog.Int("attempts", record.Attempts),
						slog.Any("error", outcomes[i]),
					)
				}
			} else {
				record.MarkPublished(now)
				published++
			}

			if err := p.repo.Update(txCtx, record); err != nil {
				return err
			}
		}

		if p.logger != nil {
			p.logger.Info("published outbox batch",
				slog.Int("count", len(records)),
				slog.Int64("published", published),
				slog.Int64("failed", failed),
			)
		}
		return nil
	})

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	} else {
		p.metrics.RecordRecords(ctx, "outbox", "publish_batch", published, "published")
		p.metrics.RecordRecords(ctx, "outbox", "publish_batch", failed, "failed")
	}
	p.metrics.RecordOperation(ctx, "outbox", "publish_batch", status)
	p.metrics.RecordDuration(ctx, "outbox", "publish_batch", time.Since(start), status)

	if err != nil {
		return err
	}
	return ctx.Err()
}

// sendAll sends every record and returns the outcome of each, in order. Records of one
// aggregate are sent one at a time in batch order; only distinct aggregates run
// concurrently. After a failed send the remaining records of that aggregate are failed
// without being sent, so a later event never reaches the broker ahead of an earlier one.
func (p *Publisher) sendAll(ctx context.Context, records []*domain.OutboxRecord) []error {
	outcomes := make([]error, len(records))

	var g errgroup.Group
	limit := p.config.SendConcurrency
	if limit <= 0 {
		limit = -1
	}
	g.SetLimit(limit)

	for _, group := range groupByAggregate(records) {
		g.Go(func() error {
			var failed error
			for _, i := range group {
				if failed != nil {
					outcomes[i] = fmt.Errorf("%w: %v", ErrPrecedingSendFailed, failed)
					continue
				}
				if err := p.send(ctx, records[i]); err != nil {
					outcomes[i] = err
					failed = err
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// groupByAggregate returns the indexes of records per aggregate id, preserving batch order
// inside each group and the order of first appearance across groups.
func groupByAggregate(records []*domain.OutboxRecord) [][]int {
	positions := make(map[string]int)
	var groups [][]int
	for i, record := range records {
		pos, ok := positions[record.AggregateID]
		if !ok {
			pos = len(groups)
			positions[record.AggregateID] = pos
			groups = append(groups, nil)
		}
		groups[pos] = append(groups[pos], i)
	}
	return groups
}

func (p *Publisher) send(ctx context.Context, record *domain.OutboxRecord) error {
	envelope := record.Envelope()
	value, err := envelope.Marshal()
	if err != nil {
		return err
	}

	if p.config.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.SendTimeout)
		defer cancel()
	}

	headers := map[string]string{
		"eventId":   envelope.EventID,
		"eventType": envelope.EventType.String(),
	}
	if envelope.TraceID != nil {
		headers["traceId"] = *envelope.TraceID
	}

	return p.producer.Send(ctx, p.config.Topic, record.AggregateID, value, headers)
}

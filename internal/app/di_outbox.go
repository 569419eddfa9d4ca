package app

import (
	"fmt"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
	outboxRepository "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/outbox/repository"
	outboxUseCase "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/outbox/usecase"
)

// OutboxRepository returns the outbox repository based on database driver.
func (c *Container) OutboxRepository() (outboxUseCase.OutboxRepository, error) {
	var err error
	c.outboxRepositoryInit.Do(func() {
		c.outboxRepository, err = c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRepository"]; exists {
		return nil, storedErr
	}
	return c.outboxRepository, nil
}

// OutboxWriter returns the writer that appends outbound events inside business transactions.
func (c *Container) OutboxWriter() (*outboxUseCase.Writer, error) {
	var err error
	c.outboxWriterInit.Do(func() {
		var repo outboxUseCase.OutboxRepository
		repo, err = c.OutboxRepository()
		if err != nil {
			err = fmt.Errorf("failed to get outbox repository for outbox writer: %w", err)
			c.initErrors["outboxWriter"] = err
			return
		}
		var businessMetrics metrics.BusinessMetrics
		businessMetrics, err = c.BusinessMetrics()
		if err != nil {
			err = fmt.Errorf("failed to get business metrics for outbox writer: %w", err)
			c.initErrors["outboxWriter"] = err
			return
		}
		c.outboxWriter = outboxUseCase.NewWriter(outboxUseCase.WriterConfig{
			Producer: c.config.ServiceName,
			Version:  c.config.EventVersion,
		}, repo, c.Clock(), businessMetrics)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxWriter"]; exists {
		return nil, storedErr
	}
	return c.outboxWriter, nil
}

// OutboxPublisher returns the publisher that relays INIT records to the broker.
func (c *Container) OutboxPublisher() (*outboxUseCase.Publisher, error) {
	var err error
	c.publisherInit.Do(func() {
		c.publisher, err = c.initOutboxPublisher()
		if err != nil {
			c.initErrors["publisher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["publisher"]; exists {
		return nil, storedErr
	}
	return c.publisher, nil
}

// OutboxCleaner returns the cleaner that deletes old terminal records.
func (c *Container) OutboxCleaner() (*outboxUseCase.Cleaner, error) {
	var err error
	c.cleanerInit.Do(func() {
		c.cleaner, err = c.initOutboxCleaner()
		if err != nil {
			c.initErrors["cleaner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cleaner"]; exists {
		return nil, storedErr
	}
	return c.cleaner, nil
}

// OutboxRequeuer returns the requeuer that retries FAILED records.
func (c *Container) OutboxRequeuer() (*outboxUseCase.Requeuer, error) {
	var err error
	c.requeuerInit.Do(func() {
		c.requeuer, err = c.initOutboxRequeuer()
		if err != nil {
			c.initErrors["requeuer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["requeuer"]; exists {
		return nil, storedErr
	}
	return c.requeuer, nil
}

// initOutboxRepository creates the outbox repository for the configured SQL dialect.
func (c *Container) initOutboxRepository() (outboxUseCase.OutboxRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case database.DialectMySQL:
		return outboxRepository.NewMySQLOutboxRepository(db), nil
	default:
		return outboxRepository.NewPostgreSQLOutboxRepository(db), nil
	}
}

// initOutboxPublisher creates the publisher with all its dependencies.
func (c *Container) initOutboxPublisher() (*outboxUseCase.Publisher, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox publisher: %w", err)
	}

	repo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox publisher: %w", err)
	}

	producer, err := c.Producer()
	if err != nil {
		return nil, fmt.Errorf("failed to get broker producer for outbox publisher: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for outbox publisher: %w", err)
	}

	return outboxUseCase.NewPublisher(
		outboxUseCase.PublisherConfig{
			Topic:           c.config.OutboxTopic,
			Interval:        c.config.OutboxPublishInterval,
			BatchSize:       c.config.OutboxBatchSize,
			SendConcurrency: c.config.OutboxSendConcurrency,
			SendTimeout:     c.config.OutboxSendTimeout,
		},
		txManager,
		repo,
		producer,
		c.Clock(),
		businessMetrics,
		c.Logger(),
	), nil
}

// initOutboxCleaner creates the cleaner with all its dependencies.
func (c *Container) initOutboxCleaner() (*outboxUseCase.Cleaner, error) {
	repo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox cleaner: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for outbox cleaner: %w", err)
	}

	return outboxUseCase.NewCleaner(
		outboxUseCase.CleanerConfig{
			Interval:  c.config.OutboxCleanerInterval,
			Retention: c.config.OutboxRetention,
		},
		repo,
		c.Clock(),
		businessMetrics,
		c.Logger(),
	), nil
}

// initOutboxRequeuer creates the requeuer with all its dependencies.
func (c *Container) initOutboxRequeuer() (*outboxUseCase.Requeuer, error) {
	repo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox requeuer: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for outbox requeuer: %w", err)
	}

	return outboxUseCase.NewRequeuer(
		outboxUseCase.RequeuerConfig{
			Interval:    c.config.OutboxRequeueInterval,
			MaxAttempts: c.config.OutboxMaxAttempts,
		},
		repo,
		c.Clock(),
		businessMetrics,
		c.Logger(),
	), nil
}

package app

import (
	"fmt"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/broker"
	revenueHTTP "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/http"
	revenueRepository "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/repository"
	revenueUseCase "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/usecase"
)

// RevenueRepository returns the store revenue store. Without REDIS_ADDR the projection is
// kept in process memory.
func (c *Container) RevenueRepository() revenueUseCase.RevenueRepository {
	c.revenueRepositoryInit.Do(func() {
		if c.config.RedisAddr == "" {
			c.revenueRepository = revenueRepository.NewMemoryRevenueRepository(c.config.RevenueRetention)
			return
		}
		c.revenueRepository = revenueRepository.NewRedisRevenueRepository(revenueRepository.RedisConfig{
			Addr:        c.config.RedisAddr,
			Password:    c.config.RedisPassword,
			DB:          c.config.RedisDB,
			ServiceName: c.config.ServiceName,
			Retention:   c.config.RevenueRetention,
		})
	})
	return c.revenueRepository
}

// RevenueProjector returns the projector folding confirmed orders into store revenue.
func (c *Container) RevenueProjector() (*revenueUseCase.Projector, error) {
	var err error
	c.revenueProjectorInit.Do(func() {
		c.revenueProjector, err = c.initRevenueProjector()
		if err != nil {
			c.initErrors["revenueProjector"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["revenueProjector"]; exists {
		return nil, storedErr
	}
	return c.revenueProjector, nil
}

// RevenueConsumer returns a consumer over the order topic in the revenue consumer group.
func (c *Container) RevenueConsumer() (broker.Consumer, error) {
	var err error
	c.revenueConsumerInit.Do(func() {
		c.revenueConsumer, err = c.initRevenueConsumer()
		if err != nil {
			c.initErrors["revenueConsumer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["revenueConsumer"]; exists {
		return nil, storedErr
	}
	return c.revenueConsumer, nil
}

// RevenueHandler returns the revenue HTTP handler.
func (c *Container) RevenueHandler() *revenueHTTP.RevenueHandler {
	c.revenueHandlerInit.Do(func() {
		useCase := revenueUseCase.NewRevenueUseCase(c.RevenueRepository(), c.Clock())
		c.revenueHandler = revenueHTTP.NewRevenueHandler(useCase, c.Logger())
	})
	return c.revenueHandler
}

// initRevenueProjector creates the projector with its dependencies.
func (c *Container) initRevenueProjector() (*revenueUseCase.Projector, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for revenue projector: %w", err)
	}

	return revenueUseCase.NewProjector(c.RevenueRepository(), c.Clock(), businessMetrics, c.Logger()), nil
}

// initRevenueConsumer creates the revenue consumer for BROKER_DRIVER.
func (c *Container) initRevenueConsumer() (broker.Consumer, error) {
	if err := broker.ValidateDriver(c.config.BrokerDriver); err != nil {
		return nil, err
	}

	topics := []string{c.config.OutboxTopic}

	if c.config.BrokerDriver == broker.DriverRabbitMQ {
		cfg := c.rabbitMQConfig()
		cfg.GroupID = c.config.RevenueGroupID
		cfg.Topics = topics
		consumer, err := broker.NewRabbitMQConsumer(cfg, c.Logger())
		if err != nil {
			return nil, fmt.Errorf("failed to create rabbitmq revenue consumer: %w", err)
		}
		return consumer, nil
	}

	cfg := c.kafkaConfig()
	cfg.GroupID = c.config.RevenueGroupID
	cfg.Topics = topics
	return broker.NewKafkaConsumer(cfg, c.Logger()), nil
}

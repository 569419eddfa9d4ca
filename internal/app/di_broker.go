package app

import (
	"fmt"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/broker"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/inbox"
)

// Producer returns the broker producer for the configured driver.
func (c *Container) Producer() (broker.Producer, error) {
	var err error
	c.producerInit.Do(func() {
		c.producer, err = c.initProducer()
		if err != nil {
			c.initErrors["producer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["producer"]; exists {
		return nil, storedErr
	}
	return c.producer, nil
}

// Consumer returns the broker consumer over the saga topics.
func (c *Container) Consumer() (broker.Consumer, error) {
	var err error
	c.consumerInit.Do(func() {
		c.consumer, err = c.initConsumer()
		if err != nil {
			c.initErrors["consumer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consumer"]; exists {
		return nil, storedErr
	}
	return c.consumer, nil
}

// Deduplicator returns the inbound de-duplication store. Without REDIS_ADDR it never
// reports an event as seen.
func (c *Container) Deduplicator() (inbox.Deduplicator, error) {
	c.deduplicatorInit.Do(func() {
		if c.config.RedisAddr == "" {
			c.deduplicator = inbox.NewNoopDeduplicator()
			return
		}
		c.deduplicator = inbox.NewRedisDeduplicator(inbox.RedisConfig{
			Addr:        c.config.RedisAddr,
			Password:    c.config.RedisPassword,
			DB:          c.config.RedisDB,
			ServiceName: c.config.ServiceName,
			TTL:         c.config.InboxDedupTTL,
		})
	})
	return c.deduplicator, nil
}

func (c *Container) rabbitMQConfig() broker.RabbitMQConfig {
	return broker.RabbitMQConfig{
		URL:      c.config.RabbitMQURL,
		Exchange: c.config.RabbitMQExchange,
		GroupID:  c.config.KafkaGroupID,
		Topics:   c.config.SagaTopics,
	}
}

func (c *Container) kafkaConfig() broker.KafkaConfig {
	return broker.KafkaConfig{
		Brokers: c.config.KafkaBrokers,
		GroupID: c.config.KafkaGroupID,
		Topics:  c.config.SagaTopics,
	}
}

// initProducer creates the producer for BROKER_DRIVER.
func (c *Container) initProducer() (broker.Producer, error) {
	if err := broker.ValidateDriver(c.config.BrokerDriver); err != nil {
		return nil, err
	}

	if c.config.BrokerDriver == broker.DriverRabbitMQ {
		producer, err := broker.NewRabbitMQProducer(c.rabbitMQConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create rabbitmq producer: %w", err)
		}
		return producer, nil
	}

	return broker.NewKafkaProducer(c.kafkaConfig()), nil
}

// initConsumer creates the consumer for BROKER_DRIVER.
func (c *Container) initConsumer() (broker.Consumer, error) {
	if err := broker.ValidateDriver(c.config.BrokerDriver); err != nil {
		return nil, err
	}

	if c.config.BrokerDriver == broker.DriverRabbitMQ {
		consumer, err := broker.NewRabbitMQConsumer(c.rabbitMQConfig(), c.Logger())
		if err != nil {
			return nil, fmt.Errorf("failed to create rabbitmq consumer: %w", err)
		}
		return consumer, nil
	}

	return broker.NewKafkaConsumer(c.kafkaConfig(), c.Logger()), nil
}

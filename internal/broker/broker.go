// Package broker provides the event transport: a Producer used by the outbox publisher and
// a Consumer that feeds the saga reactor. Kafka and RabbitMQ implementations are provided.
package broker

import (
	"context"
	"fmt"
)

// Supported drivers.
const (
	DriverKafka    = "kafka"
	DriverRabbitMQ = "rabbitmq"
)

// Message is one record read from the broker.
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

// Handler processes one message. It does not return an error: the consumer acknowledges
// every message after the handler returns.
type Handler func(ctx context.Context, msg Message)

// Producer sends messages. Send blocks until the broker acknowledged the message or ctx
// is done.
type Producer interface {
	Send(ctx context.Context, topic, key string, value []byte, headers map[string]string) error
	Close() error
}

// Consumer reads messages until ctx is cancelled.
type Consumer interface {
	Run(ctx context.Context, handler Handler) error
	Close() error
}

// ValidateDriver checks a configured driver name.
func ValidateDriver(driver string) error {
	switch driver {
	case DriverKafka, DriverRabbitMQ:
		return nil
	default:
		return fmt.Errorf("unsupported broker driver: %s", driver)
	}
}

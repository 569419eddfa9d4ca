package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

// headerKey carries the message key, which AMQP has no field for.
const headerKey = "x-message-key"

// RabbitMQConfig configures the RabbitMQ producer and consumer. Topics are routing keys
// on one topic exchange.
type RabbitMQConfig struct {
	URL      string
	Exchange string
	GroupID  string
	Topics   []string
}

// QueueName returns the durable queue a consumer group binds for topic.
func (c RabbitMQConfig) QueueName(topic string) string {
	return c.GroupID + "." + topic
}

func dialRabbitMQ(cfg RabbitMQConfig) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	return conn, ch, nil
}

// RabbitMQProducer publishes persistent messages with publisher confirms. Send returns
// only after the broker confirmed the message.
type RabbitMQProducer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// NewRabbitMQProducer connects and puts the channel in confirm mode.
func NewRabbitMQProducer(cfg RabbitMQConfig) (*RabbitMQProducer, error) {
	conn, ch, err := dialRabbitMQ(cfg)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	return &RabbitMQProducer{conn: conn, channel: ch, exchange: cfg.Exchange}, nil
}

// Send publishes value with topic as routing key and waits for the confirm.
func (p *RabbitMQProducer) Send(
	ctx context.Context,
	topic, key string,
	value []byte,
	headers map[string]string,
) error {
	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         value,
		Headers:      toAMQPTable(key, headers),
	}

	// deferred confirmations are matched by delivery tag, which is assigned under this lock
	p.mu.Lock()
	confirm, err := p.channel.PublishWithDeferredConfirmWithContext(ctx,
		p.exchange, // exchange
		topic,      // routing key
		false,      // mandatory
		false,      // immediate
		publishing,
	)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", topic, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to confirm message to %s: %w", topic, err)
	}
	if !acked {
		return fmt.Errorf("message to %s was nacked by the broker", topic)
	}
	return nil
}

func (p *RabbitMQProducer) Close() error {
	return errors.Join(p.channel.Close(), p.conn.Close())
}

// RabbitMQConsumer consumes one durable queue per topic, bound to the exchange. Each
// queue is processed sequentially with prefetch 1, which keeps per-order ordering as long
// as one consumer instance owns the queue.
type RabbitMQConsumer struct {
	cfg     RabbitMQConfig
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

// NewRabbitMQConsumer connects, declares and binds the queues.
func NewRabbitMQConsumer(cfg RabbitMQConfig, logger *slog.Logger) (*RabbitMQConsumer, error) {
	conn, ch, err := dialRabbitMQ(cfg)
	if err != nil {
		return nil, err
	}

	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	for _, topic := range cfg.Topics {
		queue := cfg.QueueName(topic)
		if _, err := ch.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, topic, cfg.Exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("failed to bind queue %s: %w", queue, err)
		}
	}

	return &RabbitMQConsumer{cfg: cfg, conn: conn, channel: ch, logger: logger}, nil
}

// Run consumes every queue until ctx is cancelled. Every delivery is acked after the
// handler returns.
func (c *RabbitMQConsumer) Run(ctx context.Context, handler Handler) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, topic := range c.cfg.Topics {
		queue := c.cfg.QueueName(topic)
		deliveries, err := c.channel.Consume(
			queue, // queue
			"",    // consumer
			false, // auto-ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,   // args
		)
		if err != nil {
			return fmt.Errorf("failed to consume queue %s: %w", queue, err)
		}

		g.Go(func() error {
			return c.consume(ctx, topic, deliveries, handler)
		})
	}

	return g.Wait()
}

func (c *RabbitMQConsumer) consume(
	ctx context.Context,
	topic string,
	deliveries <-chan amqp.Delivery,
	handler Handler,
) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("delivery channel for %s closed", topic)
			}

			key, headers := fromAMQPTable(d.Headers)
			handler(ctx, Message{Topic: topic, Key: key, Value: d.Body, Headers: headers})

			if err := d.Ack(false); err != nil && c.logger != nil {
				c.logger.Error("failed to ack rabbitmq delivery",
					slog.String("topic", topic),
					slog.Uint64("delivery_tag", d.DeliveryTag),
					slog.Any("error", err),
				)
			}
		}
	}
}

func (c *RabbitMQConsumer) Close() error {
	return errors.Join(c.channel.Close(), c.conn.Close())
}

func toAMQPTable(key string, headers map[string]string) amqp.Table {
	table := amqp.Table{headerKey: key}
	for k, v := range headers {
		table[k] = v
	}
	return table
}

func fromAMQPTable(table amqp.Table) (string, map[string]string) {
	headers := make(map[string]string, len(table))
	var key string
	for k, v := range table {
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprint(v)
		}
		if k == headerKey {
			key = s
			continue
		}
		headers[k] = s
	}
	return key, headers
}

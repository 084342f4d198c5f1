// Package rabbitmq provides a RabbitMQ implementation of the broker interface.
// Messages are published as persistent JSON with routing attributes in the
// AMQP headers, through an optional exchange bound to a durable queue.
package rabbitmq

import (
	"context"
	"time"

	"github.com/streadway/amqp"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/brokers/base"
	"interactions-relay/internal/common/errors"
	"interactions-relay/internal/common/logging"
)

const defaultSetupTimeout = 10 * time.Second

// Broker implements the brokers.Broker interface for RabbitMQ.
type Broker struct {
	*base.BaseBroker
	config *Config
	pool   ConnectionPoolInterface
}

// NewBroker dials the connection pool and declares the exchange and queue.
func NewBroker(config *Config) (*Broker, error) {
	baseBroker, err := base.NewBaseBroker("rabbitmq", config)
	if err != nil {
		return nil, err
	}

	pool, err := NewConnectionPool(config.URL, config.PoolSize, baseBroker.GetLogger())
	if err != nil {
		return nil, errors.ConnectionError("failed to create RabbitMQ connection pool", err)
	}

	broker, err := newBroker(baseBroker, config, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return broker, nil
}

// NewBrokerWithPool creates a broker with an injected connection pool (for testing)
func NewBrokerWithPool(config *Config, pool ConnectionPoolInterface) (*Broker, error) {
	baseBroker, err := base.NewBaseBroker("rabbitmq", config)
	if err != nil {
		return nil, err
	}
	return newBroker(baseBroker, config, pool)
}

func newBroker(baseBroker *base.BaseBroker, config *Config, pool ConnectionPoolInterface) (*Broker, error) {
	b := &Broker{
		BaseBroker: baseBroker,
		config:     config,
		pool:       pool,
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSetupTimeout)
	defer cancel()
	if err := b.declareTopology(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// declareTopology declares the durable exchange and queue and binds them
func (b *Broker) declareTopology(ctx context.Context) error {
	client, err := b.pool.NewClient(ctx)
	if err != nil {
		return errors.ConnectionError("failed to get RabbitMQ client", err)
	}
	defer client.Close()

	if b.config.Exchange != "" {
		if err := client.ExchangeDeclare(b.config.Exchange, b.config.ExchangeType, true, false, false, false, nil); err != nil {
			return errors.ConnectionError("failed to declare exchange", err)
		}
	}

	if b.config.Queue != "" {
		if _, err := client.QueueDeclare(b.config.Queue, true, false, false, false, nil); err != nil {
			return errors.ConnectionError("failed to declare queue", err)
		}

		if b.config.Exchange != "" {
			if err := client.QueueBind(b.config.Queue, b.config.RoutingKey, b.config.Exchange, false, nil); err != nil {
				return errors.ConnectionError("failed to bind queue to exchange", err)
			}
		}
	}

	b.GetLogger().Debug("Declared RabbitMQ topology",
		logging.String("exchange", b.config.Exchange),
		logging.String("queue", b.config.Queue),
		logging.String("routing_key", b.config.RoutingKey),
	)
	return nil
}

// Publish sends the message as a persistent JSON delivery. Message.Topic
// overrides the routing key when an exchange is configured.
func (b *Broker) Publish(ctx context.Context, message *brokers.Message) error {
	if err := base.ValidateMessage(message); err != nil {
		return err
	}
	if b.pool == nil {
		return errors.ConnectionError("RabbitMQ broker not connected", nil)
	}

	client, err := b.pool.NewClient(ctx)
	if err != nil {
		return errors.ConnectionError("failed to get RabbitMQ client", err)
	}
	defer client.Close()

	exchange, routingKey := b.config.Destination()
	if exchange != "" && message.Topic != "" {
		routingKey = message.Topic
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := client.Publish(exchange, routingKey, false, false, buildPublishing(message)); err != nil {
		return errors.PublishError("failed to publish message to RabbitMQ", err)
	}

	b.GetLogger().Debug("Message published to RabbitMQ",
		logging.String("exchange", exchange),
		logging.String("routing_key", routingKey),
		logging.String("message_id", message.MessageID),
	)
	return nil
}

func buildPublishing(message *brokers.Message) amqp.Publishing {
	headers := make(amqp.Table, len(message.Attributes))
	for k, v := range message.Attributes {
		headers[k] = v
	}

	return amqp.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    message.MessageID,
		Timestamp:    message.Timestamp,
		Body:         message.Body,
	}
}

// Health opens and closes a channel.
func (b *Broker) Health(ctx context.Context) error {
	if b.pool == nil {
		return errors.ConnectionError("RabbitMQ broker not connected", nil)
	}

	client, err := b.pool.NewClient(ctx)
	if err != nil {
		return errors.ConnectionError("RabbitMQ health check failed", err)
	}
	client.Close()
	return nil
}

// Close closes every pooled connection.
func (b *Broker) Close() error {
	if b.pool != nil {
		b.pool.Close()
	}
	return nil
}

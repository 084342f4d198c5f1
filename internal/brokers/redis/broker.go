// Package redis provides a Redis Streams implementation of the broker interface.
// Each interaction becomes one stream entry; consumers read it with XREAD or
// a consumer group.
package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/brokers/base"
	"interactions-relay/internal/common/errors"
	"interactions-relay/internal/common/logging"
)

// Stream entry field names
const (
	FieldBody       = "body"
	FieldMessageID  = "message_id"
	FieldTimestamp  = "timestamp"
	AttributePrefix = "attr_"
)

// Broker implements the brokers.Broker interface for Redis Streams.
type Broker struct {
	*base.BaseBroker
	config *Config
	client *redis.Client
}

// NewBroker creates a Redis client and verifies the connection with PING.
func NewBroker(config *Config) (*Broker, error) {
	baseBroker, err := base.NewBaseBroker("redis", config)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MaxRetries:   config.RetryMax,
		DialTimeout:  config.Timeout,
		ReadTimeout:  config.Timeout,
		WriteTimeout: config.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.ConnectionError("failed to connect to Redis", err)
	}

	return &Broker{
		BaseBroker: baseBroker,
		config:     config,
		client:     client,
	}, nil
}

// Publish appends the message to the stream. Message.Topic overrides the
// configured stream name.
func (b *Broker) Publish(ctx context.Context, message *brokers.Message) error {
	if err := base.ValidateMessage(message); err != nil {
		return err
	}
	if b.client == nil {
		return errors.ConnectionError("Redis broker not connected", nil)
	}

	stream := b.config.Stream
	if message.Topic != "" {
		stream = message.Topic
	}

	fields := base.PrefixedAttributes(AttributePrefix, message.Attributes)
	fields[FieldBody] = string(message.Body)
	fields[FieldMessageID] = message.MessageID
	fields[FieldTimestamp] = base.UnixMillis(message)

	args := &redis.XAddArgs{
		Stream: stream,
		ID:     "*",
		Values: fields,
	}
	if b.config.StreamMaxLen > 0 {
		args.MaxLen = b.config.StreamMaxLen
		args.Approx = b.config.ApproxTrim
	}

	id, err := b.client.XAdd(ctx, args).Result()
	if err != nil {
		return errors.PublishError("failed to publish message to Redis stream", err)
	}

	b.GetLogger().Debug("Message published to Redis stream",
		logging.String("stream", stream),
		logging.String("entry_id", id),
		logging.String("message_id", message.MessageID),
	)
	return nil
}

// Health pings the server.
func (b *Broker) Health(ctx context.Context) error {
	if b.client == nil {
		return errors.ConnectionError("Redis broker not connected", nil)
	}
	if err := b.client.Ping(ctx).Err(); err != nil {
		return errors.ConnectionError("Redis ping failed", err)
	}
	return nil
}

// Close releases the connection pool.
func (b *Broker) Close() error {
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}

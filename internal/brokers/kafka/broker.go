// Package kafka provides a Kafka implementation of the broker interface on
// top of librdkafka. Each message is keyed by interaction id and carries its
// routing attributes as record headers.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/brokers/base"
	"interactions-relay/internal/common/errors"
	"interactions-relay/internal/common/logging"
)

// Header carrying the message id
const HeaderMessageID = "message_id"

type Broker struct {
	*base.BaseBroker
	config   *Config
	producer *kafka.Producer
}

// NewBroker creates the producer. librdkafka connects lazily, so an
// unreachable cluster surfaces on the first publish or health check.
func NewBroker(config *Config) (*Broker, error) {
	baseBroker, err := base.NewBaseBroker("kafka", config)
	if err != nil {
		return nil, err
	}

	configMap := kafka.ConfigMap{}
	for k, v := range config.ConfigMap() {
		configMap[k] = v
	}

	producer, err := kafka.NewProducer(&configMap)
	if err != nil {
		return nil, errors.ConnectionError("failed to create Kafka producer", err)
	}

	b := &Broker{
		BaseBroker: baseBroker,
		config:     config,
		producer:   producer,
	}
	go b.logProducerEvents(producer.Events())

	return b, nil
}

// logProducerEvents drains producer-level events such as connection errors.
// Delivery reports go to per-message channels instead.
func (b *Broker) logProducerEvents(events chan kafka.Event) {
	for e := range events {
		switch ev := e.(type) {
		case kafka.Error:
			b.GetLogger().Warn("Kafka producer error",
				logging.String("code", ev.Code().String()),
				logging.Err(ev),
			)
		case *kafka.Message:
			// Reports for messages produced without a delivery channel
			if ev.TopicPartition.Error != nil {
				b.GetLogger().Error("Kafka delivery failed", ev.TopicPartition.Error)
			}
		}
	}
}

// buildMessage converts a broker message into a Kafka record
func buildMessage(topic string, message *brokers.Message) *kafka.Message {
	headers := make([]kafka.Header, 0, len(message.Attributes)+1)
	for _, key := range base.SortedAttributeKeys(message.Attributes) {
		headers = append(headers, kafka.Header{
			Key:   key,
			Value: []byte(message.Attributes[key]),
		})
	}
	if message.MessageID != "" {
		headers = append(headers, kafka.Header{
			Key:   HeaderMessageID,
			Value: []byte(message.MessageID),
		})
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: kafka.PartitionAny,
		},
		Value:     message.Body,
		Headers:   headers,
		Timestamp: message.Timestamp,
	}
	if message.MessageID != "" {
		msg.Key = []byte(message.MessageID)
	}
	return msg
}

// Publish produces the record and waits for its delivery report or for ctx
// to end. Message.Topic overrides the configured topic.
func (b *Broker) Publish(ctx context.Context, message *brokers.Message) error {
	if err := base.ValidateMessage(message); err != nil {
		return err
	}
	if b.producer == nil {
		return errors.ConnectionError("Kafka broker not connected", nil)
	}

	topic := b.config.Topic
	if message.Topic != "" {
		topic = message.Topic
	}

	// Buffered so librdkafka never blocks on a report nobody reads after ctx ends
	deliveryChan := make(chan kafka.Event, 1)
	if err := b.producer.Produce(buildMessage(topic, message), deliveryChan); err != nil {
		return errors.PublishError("failed to produce message", err)
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return errors.PublishError(fmt.Sprintf("unexpected delivery event %v", e), nil)
		}
		if m.TopicPartition.Error != nil {
			return errors.PublishError("delivery failed", m.TopicPartition.Error)
		}

		b.GetLogger().Debug("Message delivered to Kafka",
			logging.String("topic", topic),
			logging.Int("partition", int(m.TopicPartition.Partition)),
			logging.String("offset", m.TopicPartition.Offset.String()),
			logging.String("message_id", message.MessageID),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health fetches metadata for the configured topic.
func (b *Broker) Health(ctx context.Context) error {
	if b.producer == nil {
		return errors.ConnectionError("Kafka broker not connected", nil)
	}

	timeout := b.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return ctx.Err()
	}

	topic := b.config.Topic
	if _, err := b.producer.GetMetadata(&topic, false, int(timeout.Milliseconds())); err != nil {
		return errors.ConnectionError("failed to fetch Kafka metadata", err)
	}
	return nil
}

// Close flushes outstanding records for up to the configured timeout and
// closes the producer.
func (b *Broker) Close() error {
	if b.producer == nil {
		return nil
	}

	if remaining := b.producer.Flush(int(b.config.Timeout.Milliseconds())); remaining > 0 {
		b.GetLogger().Warn("Kafka producer closed with undelivered messages",
			logging.Int("remaining", remaining),
		)
	}
	b.producer.Close()
	b.producer = nil
	return nil
}

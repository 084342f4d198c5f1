// Package gcp provides the Google Cloud Pub/Sub implementation of the broker
// interface. Interactions are published to a single topic with their routing
// attributes carried as Pub/Sub message attributes.
package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/brokers/base"
	"interactions-relay/internal/common/errors"
	"interactions-relay/internal/common/logging"
)

// Broker implements the brokers.Broker interface for Google Cloud Pub/Sub.
type Broker struct {
	*base.BaseBroker
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewBroker creates a Pub/Sub client from the configured credentials, or
// Application Default Credentials when none are set, and prepares the topic.
func NewBroker(config *Config) (*Broker, error) {
	if config == nil {
		return nil, errors.ConfigError("gcp config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid gcp config: %v", err))
	}

	var opts []option.ClientOption
	if config.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(config.CredentialsJSON)))
	} else if config.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsPath))
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	client, err := pubsub.NewClient(ctx, config.ProjectID, opts...)
	if err != nil {
		return nil, errors.ConnectionError("failed to create Pub/Sub client", err)
	}

	broker, err := NewBrokerWithClient(ctx, config, client)
	if err != nil {
		client.Close()
		return nil, err
	}
	return broker, nil
}

// NewBrokerWithClient prepares the topic on an existing client. The broker
// takes ownership of client and closes it on Close.
func NewBrokerWithClient(ctx context.Context, config *Config, client *pubsub.Client) (*Broker, error) {
	baseBroker, err := base.NewBaseBroker("gcp", config)
	if err != nil {
		return nil, err
	}

	topic, err := ensureTopic(ctx, client, config, baseBroker.GetLogger())
	if err != nil {
		return nil, err
	}

	topic.PublishSettings.NumGoroutines = config.NumGoroutines
	topic.PublishSettings.CountThreshold = config.CountThreshold
	topic.PublishSettings.DelayThreshold = config.DelayThreshold

	return &Broker{
		BaseBroker: baseBroker,
		client:     client,
		topic:      topic,
	}, nil
}

// ensureTopic returns the topic handle, creating the topic when allowed.
// Lookup and creation failures other than a definite "missing" are logged
// and tolerated: publish-only credentials often cannot read topic metadata.
func ensureTopic(ctx context.Context, client *pubsub.Client, config *Config, logger logging.Logger) (*pubsub.Topic, error) {
	topic := client.Topic(config.TopicID)

	exists, err := topic.Exists(ctx)
	if err != nil {
		logger.Warn("Could not check Pub/Sub topic, assuming it exists",
			logging.String("topic_id", config.TopicID),
			logging.Err(err),
		)
		return topic, nil
	}
	if exists {
		return topic, nil
	}

	if !config.CreateTopic {
		return nil, errors.ConfigError(fmt.Sprintf("topic %s does not exist", config.TopicID))
	}

	created, err := client.CreateTopic(ctx, config.TopicID)
	if err != nil {
		logger.Warn("Failed to create Pub/Sub topic",
			logging.String("topic_id", config.TopicID),
			logging.Err(err),
		)
		return topic, nil
	}

	logger.Info("Created Pub/Sub topic", logging.String("topic_id", config.TopicID))
	return created, nil
}

// Publish sends a message to the configured topic and waits for the server
// to acknowledge it or for ctx to end.
func (b *Broker) Publish(ctx context.Context, message *brokers.Message) error {
	if err := base.ValidateMessage(message); err != nil {
		return err
	}
	if b.client == nil || b.topic == nil {
		return errors.ConnectionError("not connected to Pub/Sub", nil)
	}

	attributes := make(map[string]string, len(message.Attributes))
	for k, v := range message.Attributes {
		attributes[k] = v
	}

	result := b.topic.Publish(ctx, &pubsub.Message{
		Data:       message.Body,
		Attributes: attributes,
	})

	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.PublishError("failed to publish to Pub/Sub", err)
	}

	b.GetLogger().Debug("Message published to Pub/Sub",
		logging.String("server_message_id", serverID),
		logging.String("message_id", message.MessageID),
		logging.String("topic_id", b.topic.ID()),
	)

	return nil
}

// Health verifies the topic is reachable.
func (b *Broker) Health(ctx context.Context) error {
	if b.client == nil || b.topic == nil {
		return errors.ConnectionError("not connected to Pub/Sub", nil)
	}

	exists, err := b.topic.Exists(ctx)
	if err != nil {
		return errors.ConnectionError("failed to check topic", err)
	}
	if !exists {
		return errors.NotFoundError(fmt.Sprintf("topic %s", b.topic.ID()))
	}
	return nil
}

// Close flushes pending publishes and releases the client.
func (b *Broker) Close() error {
	if b.topic != nil {
		b.topic.Stop()
	}

	if b.client != nil {
		return b.client.Close()
	}

	return nil
}

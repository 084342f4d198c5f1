package app

import (
	"context"
	"fmt"
	"strings"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/brokers/aws"
	"interactions-relay/internal/brokers/gcp"
	"interactions-relay/internal/brokers/kafka"
	"interactions-relay/internal/brokers/rabbitmq"
	redisbroker "interactions-relay/internal/brokers/redis"
	"interactions-relay/internal/common/errors"
	"interactions-relay/internal/common/logging"
	"interactions-relay/internal/config"
)

// NewBrokerRegistry returns a registry with every supported bus backend.
func NewBrokerRegistry() *brokers.Registry {
	registry := brokers.NewRegistry()
	registry.Register("gcp", gcp.GetFactory())
	registry.Register("aws", aws.GetFactory())
	registry.Register("redis", redisbroker.GetFactory())
	registry.Register("rabbitmq", rabbitmq.GetFactory())
	registry.Register("kafka", kafka.GetFactory())
	return registry
}

// BrokerConfig maps the environment settings of the selected bus onto that
// backend's config.
func BrokerConfig(cfg *config.Config) (brokers.BrokerConfig, error) {
	switch cfg.BusType {
	case "gcp":
		c := gcp.DefaultConfig()
		c.ProjectID = cfg.GoogleCloudProject
		c.TopicID = cfg.PubSubTopic
		c.CredentialsPath = cfg.GoogleCredentialsPath
		c.CreateTopic = cfg.PubSubCreateTopic
		return c, nil

	case "aws":
		c := aws.DefaultConfig()
		if cfg.AWSRegion != "" {
			c.Region = cfg.AWSRegion
		}
		c.AccessKeyID = cfg.AWSAccessKeyID
		c.SecretAccessKey = cfg.AWSSecretAccessKey
		c.SessionToken = cfg.AWSSessionToken
		c.EndpointURL = cfg.AWSEndpointURL
		c.TopicArn = cfg.SNSTopicARN
		c.QueueURL = cfg.SQSQueueURL
		return c, nil

	case "redis":
		c := redisbroker.DefaultConfig()
		c.Address = cfg.RedisAddress
		c.Password = cfg.RedisPassword
		c.DB = cfg.RedisDB
		c.Stream = cfg.RedisStream
		c.StreamMaxLen = cfg.RedisStreamMaxLen
		return c, nil

	case "rabbitmq":
		return &rabbitmq.Config{
			URL:        cfg.RabbitMQURL,
			Exchange:   cfg.RabbitMQExchange,
			RoutingKey: cfg.RabbitMQRoutingKey,
			Queue:      cfg.RabbitMQQueue,
		}, nil

	case "kafka":
		c := kafka.DefaultConfig()
		if brokerList := splitList(cfg.KafkaBrokers); len(brokerList) > 0 {
			c.Brokers = brokerList
		}
		c.Topic = cfg.KafkaTopic
		c.ClientID = cfg.KafkaClientID
		return c, nil

	default:
		return nil, errors.ConfigError(fmt.Sprintf("unsupported bus type %q", cfg.BusType))
	}
}

// ConnectBroker provisions the configured bus. It returns nil when
// publishing is disabled, and also when provisioning fails: the relay then
// keeps answering interactions without publishing.
func ConnectBroker(cfg *config.Config, registry *brokers.Registry, logger logging.Logger) brokers.Broker {
	if !cfg.PublishingEnabled() {
		logger.Info("No message bus configured, publishing disabled")
		return nil
	}

	brokerConfig, err := BrokerConfig(cfg)
	if err != nil {
		logger.Warn("Message bus not configured, publishing disabled", logging.Err(err))
		return nil
	}

	broker, err := registry.Create(cfg.BusType, brokerConfig)
	if err != nil {
		logger.Warn("Failed to connect to message bus, publishing disabled",
			logging.String("bus", cfg.BusType),
			logging.String("connection", brokerConfig.GetConnectionString()),
			logging.Err(err),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), brokerHealthTimeout)
	defer cancel()
	if err := broker.Health(ctx); err != nil {
		logger.Warn("Message bus health check failed",
			logging.String("bus", cfg.BusType),
			logging.Err(err),
		)
	}

	logger.Info("Message bus connected",
		logging.String("bus", cfg.BusType),
		logging.String("connection", brokerConfig.GetConnectionString()),
	)
	return broker
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

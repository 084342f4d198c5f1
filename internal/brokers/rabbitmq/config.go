package rabbitmq

import (
	"fmt"
	"net/url"

	"interactions-relay/internal/common/validation"
)

type Config struct {
	URL      string `json:"url" validate:"required,url"`
	PoolSize int    `json:"pool_size" validate:"min=1,max=100"`

	// Exchange is optional; without one messages go through the default
	// exchange straight to Queue.
	Exchange     string `json:"exchange"`
	ExchangeType string `json:"exchange_type" validate:"oneof=direct topic fanout headers"`
	RoutingKey   string `json:"routing_key"`
	Queue        string `json:"queue"`
}

func (c *Config) Validate() error {
	// Apply defaults first
	if c.PoolSize <= 0 {
		c.PoolSize = 2
	}
	if c.ExchangeType == "" {
		c.ExchangeType = "topic"
	}
	if c.RoutingKey == "" {
		c.RoutingKey = "interactions"
	}

	// Use centralized validation with struct tags
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.Exchange == "" && c.Queue == "" {
		return fmt.Errorf("queue is required when no exchange is configured")
	}

	return nil
}

func (c *Config) GetConnectionString() string {
	// Sanitize URL to remove credentials from logs
	if parsedURL, err := url.Parse(c.URL); err == nil {
		return fmt.Sprintf("rabbitmq://%s", parsedURL.Host)
	}
	return "rabbitmq://***"
}

func (c *Config) GetType() string {
	return "rabbitmq"
}

// Destination returns the exchange and routing key messages are published with.
func (c *Config) Destination() (exchange, routingKey string) {
	if c.Exchange == "" {
		return "", c.Queue
	}
	return c.Exchange, c.RoutingKey
}

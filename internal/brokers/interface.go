// Package brokers defines the contract between the interaction publisher and
// the message bus backends it can deliver sanitized events to.
package brokers

import (
	"context"
	"time"
)

// Broker publishes messages to a single configured destination.
type Broker interface {
	Name() string
	Publish(ctx context.Context, message *Message) error
	Health(ctx context.Context) error
	Close() error
}

type BrokerConfig interface {
	Validate() error
	GetConnectionString() string
	GetType() string
}

// Message is the bus-neutral envelope for one published event. Attributes
// travel as native message metadata where the backend supports it.
type Message struct {
	Topic      string
	Attributes map[string]string
	Body       []byte
	Timestamp  time.Time
	MessageID  string
}

type BrokerFactory interface {
	Create(config BrokerConfig) (Broker, error)
	GetType() string
}

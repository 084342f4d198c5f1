package gcp

import (
	"interactions-relay/internal/brokers"
	"interactions-relay/internal/common/factory"
)

// GetFactory returns a factory function for creating GCP Pub/Sub brokers.
func GetFactory() brokers.BrokerFactory {
	return factory.NewBrokerFactory[*Config](
		"gcp",
		func(config *Config) (brokers.Broker, error) {
			return NewBroker(config)
		},
	)
}

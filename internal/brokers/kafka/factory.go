package kafka

import (
	"interactions-relay/internal/brokers"
	"interactions-relay/internal/common/factory"
)

// GetFactory returns a factory for Kafka brokers
func GetFactory() brokers.BrokerFactory {
	return factory.NewBrokerFactory[*Config](
		"kafka",
		func(config *Config) (brokers.Broker, error) {
			return NewBroker(config)
		},
	)
}

package redis

import (
	"interactions-relay/internal/brokers"
	"interactions-relay/internal/common/factory"
)

// GetFactory returns a factory for Redis Streams brokers
func GetFactory() brokers.BrokerFactory {
	return factory.NewBrokerFactory[*Config](
		"redis",
		func(config *Config) (brokers.Broker, error) {
			return NewBroker(config)
		},
	)
}

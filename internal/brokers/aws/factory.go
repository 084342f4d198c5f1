package aws

import (
	"interactions-relay/internal/brokers"
	"interactions-relay/internal/common/factory"
)

// GetFactory returns an AWS broker factory using the generic factory pattern
func GetFactory() brokers.BrokerFactory {
	return factory.NewBrokerFactory[*Config](
		"aws",
		func(config *Config) (brokers.Broker, error) {
			return NewBroker(config)
		},
	)
}

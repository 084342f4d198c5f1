package rabbitmq

import (
	"interactions-relay/internal/brokers"
	"interactions-relay/internal/common/factory"
)

// GetFactory returns a factory for RabbitMQ brokers
func GetFactory() brokers.BrokerFactory {
	return factory.NewBrokerFactory[*Config](
		"rabbitmq",
		func(config *Config) (brokers.Broker, error) {
			return NewBroker(config)
		},
	)
}

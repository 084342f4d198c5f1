package factory

import (
	"interactions-relay/internal/brokers"
)

// BrokerFactoryAdapter adapts the generic factory to the BrokerFactory interface
type BrokerFactoryAdapter[C brokers.BrokerConfig] struct {
	*Factory[C, brokers.Broker]
}

// NewBrokerFactory creates a broker factory that implements brokers.BrokerFactory
func NewBrokerFactory[C brokers.BrokerConfig](typeName string, creator func(C) (brokers.Broker, error)) brokers.BrokerFactory {
	return &BrokerFactoryAdapter[C]{NewFactory[C, brokers.Broker](typeName, creator)}
}

// Create implements brokers.BrokerFactory
func (a *BrokerFactoryAdapter[C]) Create(config brokers.BrokerConfig) (brokers.Broker, error) {
	return a.Factory.Create(config)
}

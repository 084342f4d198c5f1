package brokers

import (
	"fmt"
	"sort"
	"sync"

	"interactions-relay/internal/common/errors"
)

type Registry struct {
	factories map[string]BrokerFactory
	mu        sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]BrokerFactory),
	}
}

func (r *Registry) Register(brokerType string, factory BrokerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[brokerType] = factory
}

func (r *Registry) Create(brokerType string, config BrokerConfig) (Broker, error) {
	r.mu.RLock()
	factory, exists := r.factories[brokerType]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.NotFoundError(fmt.Sprintf("broker type %s", brokerType))
	}

	return factory.Create(config)
}

// GetAvailableTypes returns the registered broker types in sorted order.
func (r *Registry) GetAvailableTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for brokerType := range r.factories {
		types = append(types, brokerType)
	}
	sort.Strings(types)
	return types
}

func (r *Registry) IsRegistered(brokerType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[brokerType]
	return exists
}

// Package base provides common infrastructure for broker implementations.
package base

import (
	"fmt"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/common/errors"
	"interactions-relay/internal/common/logging"
)

// BaseBroker provides common functionality for all broker implementations.
// It handles shared concerns like naming, logging, and configuration management.
type BaseBroker struct {
	name   string
	logger logging.Logger
	config brokers.BrokerConfig
}

// NewBaseBroker creates a new base broker instance with the specified name and configuration.
// Returns an error if configuration validation fails.
func NewBaseBroker(name string, config brokers.BrokerConfig) (*BaseBroker, error) {
	if config == nil {
		return nil, errors.ConfigError(fmt.Sprintf("%s config is required", name))
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid %s config: %v", name, err))
	}

	logger := logging.GetGlobalLogger().WithFields(
		logging.Field{Key: "broker", Value: name},
		logging.Field{Key: "connection", Value: config.GetConnectionString()},
	)

	return &BaseBroker{
		name:   name,
		config: config,
		logger: logger,
	}, nil
}

// Name returns the broker type name.
func (b *BaseBroker) Name() string {
	return b.name
}

// GetLogger returns the configured logger instance.
func (b *BaseBroker) GetLogger() logging.Logger {
	return b.logger
}

// GetConfig returns the broker configuration.
func (b *BaseBroker) GetConfig() brokers.BrokerConfig {
	return b.config
}

// Package config holds configuration fragments shared by every broker
// backend.
//
// Example usage:
//
//	type Config struct {
//		config.BaseConnConfig
//		// broker-specific fields...
//	}
package config

import (
	"time"
)

// BaseConnConfig carries the connection settings common to all broker
// types.
type BaseConnConfig struct {
	// Timeout bounds connection setup and health probes
	Timeout time.Duration `json:"timeout"`
	// RetryMax is the number of attempts the client library may make for a single publish
	RetryMax int `json:"retry_max"`
}

// SetConnectionDefaults applies standard defaults for connection configuration.
//
// Default values:
//   - Timeout: 30 seconds (or custom default if provided)
//   - RetryMax: 3 attempts
func (c *BaseConnConfig) SetConnectionDefaults(defaultTimeout time.Duration) {
	if defaultTimeout == 0 {
		defaultTimeout = 30 * time.Second
	}

	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.RetryMax <= 0 {
		c.RetryMax = 3
	}
}

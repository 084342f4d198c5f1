// Package testutil provides common testing utilities for broker implementations.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"interactions-relay/internal/brokers"
)

// TestConfig is used to test broker configurations
type TestConfig struct {
	Name          string
	Config        brokers.BrokerConfig
	ExpectError   bool
	ErrorContains string
}

// RunConfigValidationTests runs standard configuration validation tests
func RunConfigValidationTests(t *testing.T, configs []TestConfig) {
	for _, tc := range configs {
		t.Run(tc.Name, func(t *testing.T) {
			err := tc.Config.Validate()
			if tc.ExpectError {
				assert.Error(t, err)
				if tc.ErrorContains != "" {
					assert.Contains(t, err.Error(), tc.ErrorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestTimestamp is the timestamp carried by CreateTestMessage
var TestTimestamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// CreateTestMessage returns a message shaped like a published interaction
func CreateTestMessage() *brokers.Message {
	return &brokers.Message{
		Body: []byte(`{"id":"1100","type":2,"application_id":"77","guild_id":"88","data":{"name":"ping"}}`),
		Attributes: map[string]string{
			"interaction_id":    "1100",
			"interaction_type":  "2",
			"application_id":    "77",
			"guild_id":          "88",
			"command_name":      "ping",
			"publish_timestamp": TestTimestamp.Format(time.RFC3339),
		},
		Timestamp: TestTimestamp,
		MessageID: "1100",
	}
}

// GenerateMessageID generates a unique message ID for testing
func GenerateMessageID() string {
	return "test-msg-" + uuid.NewString()
}

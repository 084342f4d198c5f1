package kafka

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Brokers          []string
	Topic            string
	ClientID         string
	Acks             string
	SecurityProtocol string
	SASLMechanism    string
	SASLUsername     string
	SASLPassword     string
	Timeout          time.Duration
	RetryMax         int
	FlushFrequency   time.Duration
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("Kafka brokers are required")
	}

	// Validate broker addresses
	for _, broker := range c.Brokers {
		if strings.TrimSpace(broker) == "" {
			return fmt.Errorf("empty Kafka broker address")
		}
	}

	// Set defaults
	if c.Topic == "" {
		c.Topic = "interactions"
	}

	if c.ClientID == "" {
		c.ClientID = "interactions-relay"
	}

	if c.Acks == "" {
		c.Acks = "all"
	}

	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}

	if c.RetryMax <= 0 {
		c.RetryMax = 3
	}

	if c.FlushFrequency <= 0 {
		c.FlushFrequency = 5 * time.Millisecond
	}

	if c.SecurityProtocol == "" {
		c.SecurityProtocol = "PLAINTEXT"
	}

	switch c.Acks {
	case "all", "0", "1":
	default:
		return fmt.Errorf("invalid acks setting: %s", c.Acks)
	}

	// Validate security protocol
	validProtocols := []string{"PLAINTEXT", "SSL", "SASL_PLAINTEXT", "SASL_SSL"}
	valid := false
	for _, protocol := range validProtocols {
		if c.SecurityProtocol == protocol {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid security protocol: %s", c.SecurityProtocol)
	}

	// Validate SASL mechanism if SASL is used
	if strings.HasPrefix(c.SecurityProtocol, "SASL_") {
		if c.SASLMechanism == "" {
			c.SASLMechanism = "PLAIN"
		}

		validMechanisms := []string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"}
		valid := false
		for _, mechanism := range validMechanisms {
			if c.SASLMechanism == mechanism {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid SASL mechanism: %s", c.SASLMechanism)
		}

		if c.SASLUsername == "" || c.SASLPassword == "" {
			return fmt.Errorf("SASL username and password are required for SASL authentication")
		}
	}

	return nil
}

func (c *Config) GetType() string {
	return "kafka"
}

func (c *Config) GetConnectionString() string {
	return fmt.Sprintf("kafka://%s/%s", strings.Join(c.Brokers, ","), c.Topic)
}

// ConfigMap builds the librdkafka producer configuration
func (c *Config) ConfigMap() map[string]interface{} {
	m := map[string]interface{}{
		"bootstrap.servers":       strings.Join(c.Brokers, ","),
		"client.id":               c.ClientID,
		"acks":                    c.Acks,
		"retries":                 c.RetryMax,
		"message.timeout.ms":      int(c.Timeout.Milliseconds()),
		"linger.ms":               int(c.FlushFrequency.Milliseconds()),
		"enable.idempotence":      c.Acks == "all",
		"go.delivery.reports":     true,
		"socket.keepalive.enable": true,
	}

	if c.SecurityProtocol != "PLAINTEXT" {
		m["security.protocol"] = c.SecurityProtocol
	}

	if strings.HasPrefix(c.SecurityProtocol, "SASL_") {
		m["sasl.mechanism"] = c.SASLMechanism
		m["sasl.username"] = c.SASLUsername
		m["sasl.password"] = c.SASLPassword
	}

	return m
}

func DefaultConfig() *Config {
	return &Config{
		Brokers:          []string{"localhost:9092"},
		Topic:            "interactions",
		ClientID:         "interactions-relay",
		Acks:             "all",
		SecurityProtocol: "PLAINTEXT",
		Timeout:          30 * time.Second,
		RetryMax:         3,
		FlushFrequency:   5 * time.Millisecond,
	}
}

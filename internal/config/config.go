// Package config provides configuration management for the interactions relay.
// It loads configuration from environment variables with sensible defaults
// and validates it so the application starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FORMAT: console or json (default: console)
//   - TLS_CERT_FILE / TLS_KEY_FILE: serve HTTPS when both are set
//   - SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 30s)
//   - TRACING_ENABLED: Export OpenTelemetry spans to stdout (default: false)
//
// Request Verification:
//   - DISCORD_PUBLIC_KEY: Hex encoded Ed25519 application key (required)
//   - SIGNATURE_MAX_AGE: Replay window for signed timestamps (default: 5s)
//   - SIGNATURE_MAX_FUTURE_SKEW: Reject timestamps further ahead than this; 0 disables (default: 0)
//   - MAX_BODY_BYTES: Largest accepted request body (default: 1048576)
//
// Message Bus:
//   - BUS_TYPE: gcp, aws, redis, rabbitmq, kafka or none. When unset, gcp is
//     chosen if GOOGLE_CLOUD_PROJECT and PUBSUB_TOPIC are both set, otherwise none.
//   - GOOGLE_CLOUD_PROJECT, PUBSUB_TOPIC, PUBSUB_CREATE_TOPIC (default: true),
//     GOOGLE_APPLICATION_CREDENTIALS
//   - AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN,
//     AWS_ENDPOINT_URL, SNS_TOPIC_ARN, SQS_QUEUE_URL
//   - REDIS_ADDRESS (default: localhost:6379), REDIS_PASSWORD, REDIS_DB,
//     REDIS_STREAM (default: interactions), REDIS_STREAM_MAXLEN
//   - RABBITMQ_URL, RABBITMQ_EXCHANGE, RABBITMQ_ROUTING_KEY, RABBITMQ_QUEUE
//   - KAFKA_BROKERS, KAFKA_TOPIC (default: interactions), KAFKA_CLIENT_ID
//
// Publishing:
//   - PUBLISH_TIMEOUT: Deadline for a single publish (default: 10s)
//   - PUBLISH_MAX_IN_FLIGHT: Concurrent publishes before new events are dropped; 0 is unbounded (default: 1000)
//
// Rate Limiting:
//   - RATE_LIMIT_ENABLED: Per client IP ingress limiting (default: false)
//   - RATE_LIMIT_RPS: Sustained requests per second (default: 50)
//   - RATE_LIMIT_BURST: Burst size (default: 100)
//   - RATE_LIMIT_TRUST_PROXY: Key on X-Forwarded-For / X-Real-IP (default: false)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"interactions-relay/internal/common/validation"
)

// BusNone disables publishing.
const BusNone = "none"

// Config holds all configuration values for the relay. It is built once by
// Load and treated as read-only afterwards.
type Config struct {
	// Application settings
	Port            string
	LogLevel        string
	LogFormat       string
	TLSCertFile     string
	TLSKeyFile      string
	ShutdownTimeout time.Duration
	TracingEnabled  bool

	// Request verification
	DiscordPublicKey       string
	SignatureMaxAge        time.Duration
	SignatureMaxFutureSkew time.Duration
	MaxBodyBytes           int64

	// Bus selection
	BusType string

	// Google Cloud Pub/Sub
	GoogleCloudProject    string
	PubSubTopic           string
	PubSubCreateTopic     bool
	GoogleCredentialsPath string

	// AWS SNS / SQS
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSSessionToken    string
	AWSEndpointURL     string
	SNSTopicARN        string
	SQSQueueURL        string

	// Redis Streams
	RedisAddress      string
	RedisPassword     string
	RedisDB           int
	RedisStream       string
	RedisStreamMaxLen int64

	// RabbitMQ
	RabbitMQURL        string
	RabbitMQExchange   string
	RabbitMQRoutingKey string
	RabbitMQQueue      string

	// Kafka
	KafkaBrokers  string
	KafkaTopic    string
	KafkaClientID string

	// Publishing
	PublishTimeout     time.Duration
	PublishMaxInFlight int

	// Rate limiting
	RateLimitEnabled    bool
	RateLimitRPS        int
	RateLimitBurst      int
	RateLimitTrustProxy bool
}

// Load creates a new Config from environment variables, falling back to the
// documented defaults. It does not validate; call Validate before use.
func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		TLSCertFile:     getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:      getEnv("TLS_KEY_FILE", ""),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),

		DiscordPublicKey:       strings.TrimSpace(getEnv("DISCORD_PUBLIC_KEY", "")),
		SignatureMaxAge:        getDurationEnv("SIGNATURE_MAX_AGE", 5*time.Second),
		SignatureMaxFutureSkew: getDurationEnv("SIGNATURE_MAX_FUTURE_SKEW", 0),
		MaxBodyBytes:           int64(getIntEnv("MAX_BODY_BYTES", 1<<20)),

		BusType: strings.ToLower(getEnv("BUS_TYPE", "")),

		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		PubSubTopic:           getEnv("PUBSUB_TOPIC", ""),
		PubSubCreateTopic:     getBoolEnv("PUBSUB_CREATE_TOPIC", true),
		GoogleCredentialsPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		AWSRegion:          getEnv("AWS_REGION", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSSessionToken:    getEnv("AWS_SESSION_TOKEN", ""),
		AWSEndpointURL:     getEnv("AWS_ENDPOINT_URL", ""),
		SNSTopicARN:        getEnv("SNS_TOPIC_ARN", ""),
		SQSQueueURL:        getEnv("SQS_QUEUE_URL", ""),

		RedisAddress:      getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getIntEnv("REDIS_DB", 0),
		RedisStream:       getEnv("REDIS_STREAM", "interactions"),
		RedisStreamMaxLen: int64(getIntEnv("REDIS_STREAM_MAXLEN", 0)),

		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange:   getEnv("RABBITMQ_EXCHANGE", ""),
		RabbitMQRoutingKey: getEnv("RABBITMQ_ROUTING_KEY", "interactions"),
		RabbitMQQueue:      getEnv("RABBITMQ_QUEUE", "interactions"),

		KafkaBrokers:  getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "interactions"),
		KafkaClientID: getEnv("KAFKA_CLIENT_ID", "interactions-relay"),

		PublishTimeout:     getDurationEnv("PUBLISH_TIMEOUT", 10*time.Second),
		PublishMaxInFlight: getIntEnv("PUBLISH_MAX_IN_FLIGHT", 1000),

		RateLimitEnabled:    getBoolEnv("RATE_LIMIT_ENABLED", false),
		RateLimitRPS:        getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst:      getIntEnv("RATE_LIMIT_BURST", 100),
		RateLimitTrustProxy: getBoolEnv("RATE_LIMIT_TRUST_PROXY", false),
	}

	if cfg.BusType == "" {
		cfg.BusType = BusNone
		if cfg.GoogleCloudProject != "" && cfg.PubSubTopic != "" {
			cfg.BusType = "gcp"
		}
	}

	return cfg
}

// PublishingEnabled reports whether a bus backend was selected.
func (c *Config) PublishingEnabled() bool {
	return c.BusType != BusNone
}

// TLSEnabled reports whether both certificate and key are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a default value.
//
// This function accepts common boolean representations:
//   - "true", "1", "t", "TRUE", "True" -> true
//   - "false", "0", "f", "FALSE", "False" -> false
//   - Any other value or parsing error -> returns defaultValue
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable, returning defaultValue
// when unset or unparsable.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go duration strings ("5s", "250ms") or a bare
// number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

// Validate checks that required values are present and every value is in
// range. Bus specific settings are validated by the selected broker's own
// config when it is provisioned.
func (c *Config) Validate() error {
	v := validation.NewValidator()

	v.RequireString(c.DiscordPublicKey, "DISCORD_PUBLIC_KEY")
	if c.DiscordPublicKey != "" {
		v.RequireTag(c.DiscordPublicKey, "ed25519_hex", "DISCORD_PUBLIC_KEY", "must be a 64 character hex encoded Ed25519 public key")
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil {
		port = 0
	}
	v.RequireRange(port, 1, 65535, "PORT")

	v.RequireOneOf(strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "warning", "error"}, "LOG_LEVEL")
	v.RequireOneOf(strings.ToLower(c.LogFormat), []string{"console", "json"}, "LOG_FORMAT")

	v.RequireTag(c.SignatureMaxAge, "min=1s", "SIGNATURE_MAX_AGE", "must be at least 1s")
	v.RequireTag(c.SignatureMaxFutureSkew, "min=0s", "SIGNATURE_MAX_FUTURE_SKEW", "must not be negative")
	v.RequireTag(c.MaxBodyBytes, "min=1", "MAX_BODY_BYTES", "must be positive")

	v.RequireOneOf(c.BusType, append([]string{BusNone}, validation.BrokerTypes...), "BUS_TYPE")

	v.RequireTag(c.PublishTimeout, "min=1ms", "PUBLISH_TIMEOUT", "must be at least 1ms")
	v.RequireNonNegative(c.PublishMaxInFlight, "PUBLISH_MAX_IN_FLIGHT")

	if c.RateLimitEnabled {
		v.RequirePositive(c.RateLimitRPS, "RATE_LIMIT_RPS")
		v.RequirePositive(c.RateLimitBurst, "RATE_LIMIT_BURST")
	}

	v.RequireTag(c.ShutdownTimeout, "min=1ms", "SHUTDOWN_TIMEOUT", "must be at least 1ms")

	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		v.Validate(func() error {
			return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
		})
	}

	return v.Error()
}

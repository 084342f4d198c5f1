package redis

import (
	"fmt"
	"time"

	"interactions-relay/internal/common/validation"
)

type Config struct {
	Address  string        `json:"address" validate:"required,hostname_port"`
	Password string        `json:"-"`
	DB       int           `json:"db" validate:"min=0,max=15"`
	PoolSize int           `json:"pool_size"`
	Timeout  time.Duration `json:"timeout"`
	RetryMax int           `json:"retry_max"`

	Stream string `json:"stream" validate:"required"`

	// StreamMaxLen caps the stream length (0 = no limit). ApproxTrim trims
	// with MAXLEN ~ instead of an exact cap.
	StreamMaxLen int64 `json:"stream_max_len" validate:"min=0"`
	ApproxTrim   bool  `json:"approx_trim"`
}

func (c *Config) Validate() error {
	if c.Stream == "" {
		c.Stream = "interactions"
	}

	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("Redis config: %w", err)
	}

	// Set defaults
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}

	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}

	if c.RetryMax <= 0 {
		c.RetryMax = 3
	}

	return nil
}

func (c *Config) GetType() string {
	return "redis"
}

func (c *Config) GetConnectionString() string {
	return fmt.Sprintf("redis://%s/%d/%s", c.Address, c.DB, c.Stream)
}

func DefaultConfig() *Config {
	return &Config{
		Address:  "localhost:6379",
		DB:       0,
		PoolSize: 10,
		Timeout:  5 * time.Second,
		RetryMax: 3,
		Stream:   "interactions",
	}
}

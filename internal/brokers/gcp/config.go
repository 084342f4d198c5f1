package gcp

import (
	"fmt"
	"time"

	"interactions-relay/internal/common/config"
	"interactions-relay/internal/common/validation"
)

type Config struct {
	config.BaseConnConfig

	ProjectID string `json:"project_id"`
	TopicID   string `json:"topic_id"`

	// Credentials are optional; Application Default Credentials are used otherwise
	CredentialsJSON string `json:"-"`
	CredentialsPath string `json:"credentials_path"`

	// CreateTopic creates the topic at startup when it is missing
	CreateTopic bool `json:"create_topic"`

	// Publish batching; zero values use the defaults below
	NumGoroutines  int           `json:"num_goroutines"`
	CountThreshold int           `json:"count_threshold"`
	DelayThreshold time.Duration `json:"delay_threshold"`
}

func (c *Config) Validate() error {
	v := validation.NewValidatorWithPrefix("GCP Pub/Sub config")

	v.RequireString(c.ProjectID, "project_id")
	v.RequireString(c.TopicID, "topic_id")

	c.SetConnectionDefaults(30 * time.Second)

	if c.NumGoroutines <= 0 {
		c.NumGoroutines = 2
	}
	if c.CountThreshold <= 0 {
		c.CountThreshold = 10
	}
	if c.DelayThreshold <= 0 {
		c.DelayThreshold = 10 * time.Millisecond
	}

	// Pub/Sub topic ids: 3-255 characters, must not start with "goog"
	v.ValidateIf(c.TopicID != "", func() error {
		if len(c.TopicID) < 3 || len(c.TopicID) > 255 {
			return fmt.Errorf("topic_id must be between 3 and 255 characters")
		}
		if len(c.TopicID) >= 4 && c.TopicID[:4] == "goog" {
			return fmt.Errorf("topic_id must not start with \"goog\"")
		}
		return nil
	})

	return v.Error()
}

func (c *Config) GetType() string {
	return "gcp"
}

func (c *Config) GetConnectionString() string {
	return fmt.Sprintf("pubsub://projects/%s/topics/%s", c.ProjectID, c.TopicID)
}

func DefaultConfig() *Config {
	config := &Config{
		NumGoroutines:  2,
		CountThreshold: 10,
		DelayThreshold: 10 * time.Millisecond,
	}
	config.SetConnectionDefaults(30 * time.Second)
	return config
}

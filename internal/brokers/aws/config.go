package aws

import (
	"fmt"
	"time"

	"interactions-relay/internal/common/config"
	"interactions-relay/internal/common/validation"
)

type Config struct {
	config.BaseConnConfig

	Region string `json:"region"`

	// Optional static credentials; the default credential chain is used when empty
	AccessKeyID     string `json:"-"`
	SecretAccessKey string `json:"-"`
	SessionToken    string `json:"-"`

	// EndpointURL overrides the service endpoint, e.g. for LocalStack
	EndpointURL string `json:"endpoint_url"`

	// Destination: an SNS topic or an SQS queue
	TopicArn string `json:"topic_arn"`
	QueueURL string `json:"queue_url"`
}

func (c *Config) Validate() error {
	v := validation.NewValidatorWithPrefix("AWS config")

	v.RequireString(c.Region, "region")

	// Exactly one destination
	v.Validate(func() error {
		switch {
		case c.QueueURL == "" && c.TopicArn == "":
			return fmt.Errorf("either queue_url (for SQS) or topic_arn (for SNS) is required")
		case c.QueueURL != "" && c.TopicArn != "":
			return fmt.Errorf("queue_url and topic_arn are mutually exclusive")
		}
		return nil
	})

	// Static credentials come as a pair
	v.ValidateIf((c.AccessKeyID == "") != (c.SecretAccessKey == ""), func() error {
		return fmt.Errorf("access_key_id and secret_access_key must be set together")
	})

	if c.EndpointURL != "" {
		v.RequireTag(c.EndpointURL, "url", "endpoint_url", "must be a valid URL")
	}

	c.SetConnectionDefaults(30 * time.Second)

	return v.Error()
}

func (c *Config) GetType() string {
	return "aws"
}

func (c *Config) GetConnectionString() string {
	if c.QueueURL != "" {
		return fmt.Sprintf("sqs://%s/%s", c.Region, c.QueueURL)
	}
	if c.TopicArn != "" {
		return fmt.Sprintf("sns://%s/%s", c.Region, c.TopicArn)
	}
	return fmt.Sprintf("aws://%s", c.Region)
}

// UsesSNS reports whether messages go to an SNS topic rather than an SQS queue.
func (c *Config) UsesSNS() bool {
	return c.TopicArn != ""
}

func DefaultConfig() *Config {
	config := &Config{
		Region: "us-east-1",
	}
	config.SetConnectionDefaults(30 * time.Second)
	return config
}

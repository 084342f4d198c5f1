// Package aws provides AWS SNS and SQS implementations of the broker interface.
// Routing attributes travel as String message attributes so SNS subscription
// filter policies and SQS consumers can select on them.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/brokers/base"
	"interactions-relay/internal/common/errors"
	"interactions-relay/internal/common/logging"
)

// SNSAPI is the subset of the SNS client used by the broker
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	GetTopicAttributes(ctx context.Context, params *sns.GetTopicAttributesInput, optFns ...func(*sns.Options)) (*sns.GetTopicAttributesOutput, error)
}

// SQSAPI is the subset of the SQS client used by the broker
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

// Broker implements the brokers.Broker interface for AWS SNS and SQS.
type Broker struct {
	*base.BaseBroker
	config    *Config
	snsClient SNSAPI
	sqsClient SQSAPI
}

// NewBroker creates a new AWS SNS/SQS broker. Static credentials are used
// when configured, otherwise the SDK's default credential chain.
func NewBroker(config *Config) (*Broker, error) {
	baseBroker, err := base.NewBaseBroker("aws", config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	loadOpts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(config.Region),
		awsConfig.WithRetryMaxAttempts(config.RetryMax),
	}
	if config.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, config.SessionToken),
		))
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.ConnectionError("failed to load AWS config", err)
	}

	broker := &Broker{BaseBroker: baseBroker, config: config}
	if config.UsesSNS() {
		broker.snsClient = sns.NewFromConfig(cfg, func(o *sns.Options) {
			if config.EndpointURL != "" {
				o.BaseEndpoint = aws.String(config.EndpointURL)
			}
		})
	} else {
		broker.sqsClient = sqs.NewFromConfig(cfg, func(o *sqs.Options) {
			if config.EndpointURL != "" {
				o.BaseEndpoint = aws.String(config.EndpointURL)
			}
		})
	}

	return broker, nil
}

// NewBrokerWithClients creates a broker over existing clients. Only the
// client matching the configured destination is required.
func NewBrokerWithClients(config *Config, snsClient SNSAPI, sqsClient SQSAPI) (*Broker, error) {
	baseBroker, err := base.NewBaseBroker("aws", config)
	if err != nil {
		return nil, err
	}
	return &Broker{
		BaseBroker: baseBroker,
		config:     config,
		snsClient:  snsClient,
		sqsClient:  sqsClient,
	}, nil
}

// Publish sends the message to the configured SNS topic or SQS queue
func (b *Broker) Publish(ctx context.Context, message *brokers.Message) error {
	if err := base.ValidateMessage(message); err != nil {
		return err
	}

	if b.config.UsesSNS() {
		return b.publishToSNS(ctx, message)
	}
	return b.publishToSQS(ctx, message)
}

func (b *Broker) publishToSNS(ctx context.Context, message *brokers.Message) error {
	if b.snsClient == nil {
		return errors.ConnectionError("SNS client not initialized", nil)
	}

	attributes := make(map[string]snsTypes.MessageAttributeValue, len(message.Attributes))
	for _, key := range attributeKeys(message.Attributes) {
		attributes[key] = snsTypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(message.Attributes[key]),
		}
	}

	result, err := b.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(b.config.TopicArn),
		Message:           aws.String(string(message.Body)),
		MessageAttributes: attributes,
	})
	if err != nil {
		return errors.PublishError("failed to publish message to SNS", err)
	}

	b.GetLogger().Debug("Message published to SNS",
		logging.String("sns_message_id", aws.ToString(result.MessageId)),
		logging.String("message_id", message.MessageID),
		logging.String("topic_arn", b.config.TopicArn),
	)
	return nil
}

func (b *Broker) publishToSQS(ctx context.Context, message *brokers.Message) error {
	if b.sqsClient == nil {
		return errors.ConnectionError("SQS client not initialized", nil)
	}

	attributes := make(map[string]sqsTypes.MessageAttributeValue, len(message.Attributes))
	for _, key := range attributeKeys(message.Attributes) {
		attributes[key] = sqsTypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(message.Attributes[key]),
		}
	}

	result, err := b.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(b.config.QueueURL),
		MessageBody:       aws.String(string(message.Body)),
		MessageAttributes: attributes,
	})
	if err != nil {
		return errors.PublishError("failed to send message to SQS", err)
	}

	b.GetLogger().Debug("Message sent to SQS",
		logging.String("sqs_message_id", aws.ToString(result.MessageId)),
		logging.String("message_id", message.MessageID),
		logging.String("queue_url", b.config.QueueURL),
	)
	return nil
}

// Health checks that the destination topic or queue is reachable
func (b *Broker) Health(ctx context.Context) error {
	if b.config.UsesSNS() {
		if b.snsClient == nil {
			return errors.ConnectionError("SNS client not initialized", nil)
		}
		if _, err := b.snsClient.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{
			TopicArn: aws.String(b.config.TopicArn),
		}); err != nil {
			return errors.ConnectionError("failed to get SNS topic attributes", err)
		}
		return nil
	}

	if b.sqsClient == nil {
		return errors.ConnectionError("SQS client not initialized", nil)
	}
	if _, err := b.sqsClient.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(b.config.QueueURL),
		AttributeNames: []sqsTypes.QueueAttributeName{sqsTypes.QueueAttributeNameApproximateNumberOfMessages},
	}); err != nil {
		return errors.ConnectionError("failed to get SQS queue attributes", err)
	}
	return nil
}

// Close is a no-op; AWS SDK v2 clients hold no resources that need releasing.
func (b *Broker) Close() error {
	return nil
}

// attributeKeys returns the sorted keys with non-empty values. SNS and SQS
// reject String attributes whose value is empty.
func attributeKeys(attributes map[string]string) []string {
	keys := make([]string, 0, len(attributes))
	for _, key := range base.SortedAttributeKeys(attributes) {
		if attributes[key] != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

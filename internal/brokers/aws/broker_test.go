package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/brokers/testutil"
	apperrors "interactions-relay/internal/common/errors"
)

const (
	testTopicArn = "arn:aws:sns:us-east-1:123456789012:interactions"
	testQueueURL = "https://sqs.us-east-1.amazonaws.com/123456789012/interactions"
)

type stubSNS struct {
	input     *sns.PublishInput
	err       error
	healthErr error
}

func (s *stubSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	s.input = params
	if s.err != nil {
		return nil, s.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func (s *stubSNS) GetTopicAttributes(ctx context.Context, params *sns.GetTopicAttributesInput, optFns ...func(*sns.Options)) (*sns.GetTopicAttributesOutput, error) {
	return &sns.GetTopicAttributesOutput{}, s.healthErr
}

type stubSQS struct {
	input     *sqs.SendMessageInput
	err       error
	healthErr error
}

func (s *stubSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	s.input = params
	if s.err != nil {
		return nil, s.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("sqs-1")}, nil
}

func (s *stubSQS) GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
	return &sqs.GetQueueAttributesOutput{}, s.healthErr
}

func TestConfigValidation(t *testing.T) {
	testutil.RunConfigValidationTests(t, []testutil.TestConfig{
		{
			Name:   "valid SNS config",
			Config: &Config{Region: "us-east-1", TopicArn: testTopicArn},
		},
		{
			Name:   "valid SQS config with static credentials",
			Config: &Config{Region: "us-east-1", QueueURL: testQueueURL, AccessKeyID: "key", SecretAccessKey: "secret"},
		},
		{
			Name:          "missing region",
			Config:        &Config{TopicArn: testTopicArn},
			ExpectError:   true,
			ErrorContains: "region is required",
		},
		{
			Name:          "missing destination",
			Config:        &Config{Region: "us-east-1"},
			ExpectError:   true,
			ErrorContains: "either queue_url (for SQS) or topic_arn (for SNS) is required",
		},
		{
			Name:          "both destinations",
			Config:        &Config{Region: "us-east-1", TopicArn: testTopicArn, QueueURL: testQueueURL},
			ExpectError:   true,
			ErrorContains: "mutually exclusive",
		},
		{
			Name:          "half of a credential pair",
			Config:        &Config{Region: "us-east-1", TopicArn: testTopicArn, AccessKeyID: "key"},
			ExpectError:   true,
			ErrorContains: "must be set together",
		},
		{
			Name:          "bad endpoint",
			Config:        &Config{Region: "us-east-1", TopicArn: testTopicArn, EndpointURL: "not a url"},
			ExpectError:   true,
			ErrorContains: "endpoint_url",
		},
	})
}

func TestConfig_ConnectionString(t *testing.T) {
	snsCfg := &Config{Region: "eu-west-1", TopicArn: testTopicArn}
	assert.Equal(t, "sns://eu-west-1/"+testTopicArn, snsCfg.GetConnectionString())
	assert.True(t, snsCfg.UsesSNS())

	sqsCfg := &Config{Region: "eu-west-1", QueueURL: testQueueURL}
	assert.Equal(t, "sqs://eu-west-1/"+testQueueURL, sqsCfg.GetConnectionString())
	assert.False(t, sqsCfg.UsesSNS())

	require.NoError(t, sqsCfg.Validate())
	assert.Equal(t, 30*time.Second, sqsCfg.Timeout)
	assert.Equal(t, "aws", sqsCfg.GetType())
}

func TestBroker_PublishSNS(t *testing.T) {
	client := &stubSNS{}
	broker, err := NewBrokerWithClients(&Config{Region: "us-east-1", TopicArn: testTopicArn}, client, nil)
	require.NoError(t, err)

	msg := testutil.CreateTestMessage()
	require.NoError(t, broker.Publish(context.Background(), msg))

	require.NotNil(t, client.input)
	assert.Equal(t, testTopicArn, aws.ToString(client.input.TopicArn))
	assert.Equal(t, string(msg.Body), aws.ToString(client.input.Message))
	require.Len(t, client.input.MessageAttributes, len(msg.Attributes))
	for k, v := range msg.Attributes {
		attr := client.input.MessageAttributes[k]
		assert.Equal(t, "String", aws.ToString(attr.DataType))
		assert.Equal(t, v, aws.ToString(attr.StringValue))
	}
}

func TestBroker_PublishSQS(t *testing.T) {
	client := &stubSQS{}
	broker, err := NewBrokerWithClients(&Config{Region: "us-east-1", QueueURL: testQueueURL}, nil, client)
	require.NoError(t, err)

	msg := testutil.CreateTestMessage()
	require.NoError(t, broker.Publish(context.Background(), msg))

	require.NotNil(t, client.input)
	assert.Equal(t, testQueueURL, aws.ToString(client.input.QueueUrl))
	assert.Equal(t, string(msg.Body), aws.ToString(client.input.MessageBody))
	assert.Equal(t, "1100", aws.ToString(client.input.MessageAttributes["interaction_id"].StringValue))
}

func TestBroker_PublishSkipsEmptyAttributes(t *testing.T) {
	msg := testutil.CreateTestMessage()
	msg.Attributes["guild_id"] = ""
	msg.Attributes["channel_id"] = ""

	snsClient := &stubSNS{}
	broker, err := NewBrokerWithClients(&Config{Region: "us-east-1", TopicArn: testTopicArn}, snsClient, nil)
	require.NoError(t, err)
	require.NoError(t, broker.Publish(context.Background(), msg))
	assert.Len(t, snsClient.input.MessageAttributes, len(msg.Attributes)-2)
	assert.NotContains(t, snsClient.input.MessageAttributes, "guild_id")
	assert.NotContains(t, snsClient.input.MessageAttributes, "channel_id")

	sqsClient := &stubSQS{}
	broker, err = NewBrokerWithClients(&Config{Region: "us-east-1", QueueURL: testQueueURL}, nil, sqsClient)
	require.NoError(t, err)
	require.NoError(t, broker.Publish(context.Background(), msg))
	assert.NotContains(t, sqsClient.input.MessageAttributes, "guild_id")
	assert.Equal(t, "ping", aws.ToString(sqsClient.input.MessageAttributes["command_name"].StringValue))
}

func TestBroker_PublishErrors(t *testing.T) {
	sendErr := errors.New("throttled")
	broker, err := NewBrokerWithClients(&Config{Region: "us-east-1", TopicArn: testTopicArn}, &stubSNS{err: sendErr}, nil)
	require.NoError(t, err)

	err = broker.Publish(context.Background(), testutil.CreateTestMessage())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypePublish))
	assert.ErrorIs(t, err, sendErr)

	err = broker.Publish(context.Background(), &brokers.Message{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestBroker_MissingClient(t *testing.T) {
	broker, err := NewBrokerWithClients(&Config{Region: "us-east-1", QueueURL: testQueueURL}, nil, nil)
	require.NoError(t, err)

	err = broker.Publish(context.Background(), testutil.CreateTestMessage())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConnection))
	assert.Error(t, broker.Health(context.Background()))
}

func TestBroker_Health(t *testing.T) {
	snsClient := &stubSNS{}
	broker, err := NewBrokerWithClients(&Config{Region: "us-east-1", TopicArn: testTopicArn}, snsClient, nil)
	require.NoError(t, err)
	assert.NoError(t, broker.Health(context.Background()))

	snsClient.healthErr = errors.New("not found")
	err = broker.Health(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConnection))

	sqsClient := &stubSQS{}
	broker, err = NewBrokerWithClients(&Config{Region: "us-east-1", QueueURL: testQueueURL}, nil, sqsClient)
	require.NoError(t, err)
	assert.NoError(t, broker.Health(context.Background()))
	assert.NoError(t, broker.Close())
}

func TestNewBroker_StaticCredentials(t *testing.T) {
	broker, err := NewBroker(&Config{
		Region:          "us-east-1",
		TopicArn:        testTopicArn,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		EndpointURL:     "http://localhost:4566",
	})
	require.NoError(t, err)
	assert.Equal(t, "aws", broker.Name())
	assert.NotNil(t, broker.snsClient)
	assert.Nil(t, broker.sqsClient)
}

func TestGetFactory(t *testing.T) {
	f := GetFactory()
	assert.Equal(t, "aws", f.GetType())

	_, err := f.Create(&Config{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

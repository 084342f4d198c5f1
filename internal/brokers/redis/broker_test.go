package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/brokers/testutil"
	apperrors "interactions-relay/internal/common/errors"
)

func setupBroker(t *testing.T, mutate func(*Config)) (*Broker, *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := &Config{Address: mr.Addr()}
	if mutate != nil {
		mutate(cfg)
	}

	broker, err := NewBroker(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })

	reader := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { reader.Close() })

	return broker, mr, reader
}

func TestConfigValidation(t *testing.T) {
	testutil.RunConfigValidationTests(t, []testutil.TestConfig{
		{
			Name:   "valid config",
			Config: &Config{Address: "localhost:6379"},
		},
		{
			Name:          "missing address",
			Config:        &Config{},
			ExpectError:   true,
			ErrorContains: "address",
		},
		{
			Name:          "address without port",
			Config:        &Config{Address: "localhost"},
			ExpectError:   true,
			ErrorContains: "address",
		},
		{
			Name:          "negative max length",
			Config:        &Config{Address: "localhost:6379", StreamMaxLen: -1},
			ExpectError:   true,
			ErrorContains: "stream_max_len",
		},
		{
			Name:          "db out of range",
			Config:        &Config{Address: "localhost:6379", DB: 16},
			ExpectError:   true,
			ErrorContains: "db",
		},
	})
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{Address: "localhost:6379"}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "interactions", cfg.Stream)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.RetryMax)
	assert.Equal(t, "redis", cfg.GetType())
	assert.Equal(t, "redis://localhost:6379/0/interactions", cfg.GetConnectionString())
	assert.NotContains(t, (&Config{Address: "h:1", Password: "hunter2"}).GetConnectionString(), "hunter2")
}

func TestBroker_Publish(t *testing.T) {
	broker, _, reader := setupBroker(t, nil)
	ctx := context.Background()

	msg := testutil.CreateTestMessage()
	require.NoError(t, broker.Publish(ctx, msg))

	entries, err := reader.XRange(ctx, "interactions", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, string(msg.Body), values[FieldBody])
	assert.Equal(t, "1100", values[FieldMessageID])
	assert.Equal(t, "1709294400000", values[FieldTimestamp])
	assert.Equal(t, "2", values["attr_interaction_type"])
	assert.Equal(t, "ping", values["attr_command_name"])
	assert.Equal(t, "88", values["attr_guild_id"])
}

func TestBroker_PublishTopicOverride(t *testing.T) {
	broker, _, reader := setupBroker(t, nil)
	ctx := context.Background()

	msg := testutil.CreateTestMessage()
	msg.Topic = "commands"
	require.NoError(t, broker.Publish(ctx, msg))

	n, err := reader.XLen(ctx, "commands").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBroker_StreamMaxLen(t *testing.T) {
	broker, _, reader := setupBroker(t, func(c *Config) {
		c.Stream = "capped"
		c.StreamMaxLen = 2
	})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, broker.Publish(ctx, testutil.CreateTestMessage()))
	}

	n, err := reader.XLen(ctx, "capped").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBroker_PublishValidation(t *testing.T) {
	broker, _, _ := setupBroker(t, nil)

	err := broker.Publish(context.Background(), &brokers.Message{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestBroker_HealthAndServerLoss(t *testing.T) {
	broker, mr, _ := setupBroker(t, func(c *Config) {
		c.Timeout = 200 * time.Millisecond
		c.RetryMax = 1
	})
	ctx := context.Background()

	require.NoError(t, broker.Health(ctx))
	assert.Equal(t, "redis", broker.Name())

	mr.Close()

	err := broker.Health(ctx)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConnection))

	err = broker.Publish(ctx, testutil.CreateTestMessage())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypePublish))
}

func TestNewBroker_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewBroker(&Config{Address: addr, Timeout: 200 * time.Millisecond, RetryMax: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConnection))
}

func TestBroker_NotConnected(t *testing.T) {
	broker := &Broker{config: DefaultConfig()}
	assert.Error(t, broker.Publish(context.Background(), testutil.CreateTestMessage()))
	assert.Error(t, broker.Health(context.Background()))
	assert.NoError(t, broker.Close())
}

func TestGetFactory(t *testing.T) {
	mr := miniredis.RunT(t)

	f := GetFactory()
	assert.Equal(t, "redis", f.GetType())

	b, err := f.Create(&Config{Address: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, b.Close())
}

package testutil

import (
	"context"
	"sync"

	"interactions-relay/internal/brokers"
)

// MockBroker is an in-memory brokers.Broker.
type MockBroker struct {
	mu       sync.Mutex
	messages []*brokers.Message
	closed   bool

	// PublishErr, when set, is returned by every Publish call.
	PublishErr error
	// HealthErr is returned by Health.
	HealthErr error
	// Block makes Publish wait for the context to end before returning its error.
	Block bool
	// Release, when non-nil, makes Publish wait for it to be closed or for the context to end.
	Release chan struct{}

	published chan *brokers.Message
}

// NewMockBroker creates a broker that accepts every message.
func NewMockBroker() *MockBroker {
	return &MockBroker{published: make(chan *brokers.Message, 128)}
}

func (m *MockBroker) Name() string { return "mock" }

func (m *MockBroker) Publish(ctx context.Context, message *brokers.Message) error {
	if m.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	if m.Release != nil {
		select {
		case <-m.Release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.PublishErr != nil {
		return m.PublishErr
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrNotConnected
	}
	m.messages = append(m.messages, message)
	m.mu.Unlock()

	select {
	case m.published <- message:
	default:
	}
	return nil
}

func (m *MockBroker) Health(ctx context.Context) error {
	return m.HealthErr
}

func (m *MockBroker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Messages returns a copy of the accepted messages.
func (m *MockBroker) Messages() []*brokers.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*brokers.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Published delivers each accepted message, for tests that wait on delivery.
func (m *MockBroker) Published() <-chan *brokers.Message {
	return m.published
}

// IsClosed reports whether Close was called.
func (m *MockBroker) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

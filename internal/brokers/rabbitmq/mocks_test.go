package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

type mockPool struct {
	mu        sync.Mutex
	client    *mockClient
	newErr    error
	closed    bool
	checkouts int
}

func newMockPool() *mockPool {
	return &mockPool{client: &mockClient{}}
}

func (m *mockPool) NewClient(ctx context.Context) (ClientInterface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("connection pool is closed")
	}
	if m.newErr != nil {
		return nil, m.newErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.checkouts++
	return m.client, nil
}

func (m *mockPool) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

type publishCall struct {
	exchange   string
	routingKey string
	msg        amqp.Publishing
}

type declaredExchange struct {
	name    string
	kind    string
	durable bool
}

type binding struct {
	queue    string
	key      string
	exchange string
}

type mockClient struct {
	mu         sync.Mutex
	published  []publishCall
	exchanges  []declaredExchange
	queues     []string
	bindings   []binding
	publishErr error
	declareErr error
	closes     int
}

func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
}

func (c *mockClient) Publish(exchange, routingKey string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, publishCall{exchange: exchange, routingKey: routingKey, msg: msg})
	return nil
}

func (c *mockClient) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.declareErr != nil {
		return amqp.Queue{}, c.declareErr
	}
	c.queues = append(c.queues, name)
	return amqp.Queue{Name: name}, nil
}

func (c *mockClient) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.declareErr != nil {
		return c.declareErr
	}
	c.exchanges = append(c.exchanges, declaredExchange{name: name, kind: kind, durable: durable})
	return nil
}

func (c *mockClient) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = append(c.bindings, binding{queue: name, key: key, exchange: exchange})
	return nil
}

package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"interactions-relay/internal/common/logging"
)

type ConnectionPool struct {
	url         string
	maxSize     int
	connections chan *amqp.Connection
	mu          sync.RWMutex
	closed      bool
	logger      logging.Logger
}

// Client is a pooled connection with its own channel. Close returns the
// connection to the pool.
type Client struct {
	pool *ConnectionPool
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConnectionPool(url string, maxSize int, logger logging.Logger) (*ConnectionPool, error) {
	pool := &ConnectionPool{
		url:         url,
		maxSize:     maxSize,
		connections: make(chan *amqp.Connection, maxSize),
		logger:      logger.WithFields(logging.String("component", "rabbitmq_pool")),
	}

	// Pre-fill the pool with connections
	for i := 0; i < maxSize; i++ {
		conn, err := amqp.Dial(url)
		if err != nil {
			// Close any connections we've already created
			pool.Close()
			return nil, fmt.Errorf("failed to create initial RabbitMQ connection: %w", err)
		}
		pool.connections <- conn
	}

	return pool, nil
}

// GetConnection takes a connection from the pool, redialing when the pooled
// one has been closed by the server. It waits until ctx is done.
func (p *ConnectionPool) GetConnection(ctx context.Context) (*amqp.Connection, error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, fmt.Errorf("connection pool is closed")
	}
	p.mu.RUnlock()

	select {
	case conn, ok := <-p.connections:
		if !ok {
			return nil, fmt.Errorf("connection pool is closed")
		}
		if conn.IsClosed() {
			p.logger.Warn("Pooled RabbitMQ connection closed, redialing")
			newConn, err := amqp.Dial(p.url)
			if err != nil {
				return nil, fmt.Errorf("failed to create new RabbitMQ connection: %w", err)
			}
			return newConn, nil
		}
		return conn, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for connection from pool: %w", ctx.Err())
	}
}

func (p *ConnectionPool) ReturnConnection(conn *amqp.Connection) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		conn.Close()
		return
	}

	if !conn.IsClosed() {
		select {
		case p.connections <- conn:
		default:
			// Pool is full, close the connection
			conn.Close()
		}
	}
}

func (p *ConnectionPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	close(p.connections)
	for conn := range p.connections {
		conn.Close()
	}
}

func (p *ConnectionPool) NewClient(ctx context.Context) (ClientInterface, error) {
	conn, err := p.GetConnection(ctx)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		p.ReturnConnection(conn)
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &Client{
		pool: p,
		conn: conn,
		ch:   ch,
	}, nil
}

func (c *Client) Close() {
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.pool.ReturnConnection(c.conn)
	}
}

func (c *Client) Publish(exchange, routingKey string, mandatory, immediate bool, msg amqp.Publishing) error {
	return c.ch.Publish(exchange, routingKey, mandatory, immediate, msg)
}

func (c *Client) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	return c.ch.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
}

func (c *Client) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return c.ch.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

func (c *Client) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return c.ch.QueueBind(name, key, exchange, noWait, args)
}

package publisher

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"interactions-relay/internal/brokers"
	"interactions-relay/internal/circuitbreaker"
	"interactions-relay/internal/common/errors"
	"interactions-relay/internal/common/logging"
	"interactions-relay/internal/interaction"
	"interactions-relay/internal/telemetry"
)

const (
	// DefaultTimeout bounds a single publish, serialization included
	DefaultTimeout = 10 * time.Second
	// DefaultMaxInFlight bounds concurrent publishes
	DefaultMaxInFlight = 1000
)

// Async publishes each event on its own goroutine. Failures are logged and
// the event is dropped.
type Async struct {
	broker  brokers.Broker
	breaker *circuitbreaker.GoBreakerAdapter
	logger  logging.Logger
	tracer  trace.Tracer
	timeout time.Duration
	now     func() time.Time

	inFlight *semaphore.Weighted

	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// Option configures an Async publisher
type Option func(*Async)

// WithTimeout sets the per-publish deadline. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Async) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithMaxInFlight bounds concurrent publishes. Zero removes the bound.
func WithMaxInFlight(n int64) Option {
	return func(a *Async) {
		if n > 0 {
			a.inFlight = semaphore.NewWeighted(n)
		} else {
			a.inFlight = nil
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(a *Async) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithBreaker replaces the default publish circuit breaker
func WithBreaker(breaker *circuitbreaker.GoBreakerAdapter) Option {
	return func(a *Async) {
		if breaker != nil {
			a.breaker = breaker
		}
	}
}

// WithTracer sets the tracer used for publish spans
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Async) {
		if tracer != nil {
			a.tracer = tracer
		}
	}
}

// WithClock overrides the clock used for publish timestamps
func WithClock(now func() time.Time) Option {
	return func(a *Async) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAsync creates a publisher delivering to broker
func NewAsync(broker brokers.Broker, opts ...Option) *Async {
	a := &Async{
		broker:   broker,
		logger:   logging.GetGlobalLogger(),
		tracer:   telemetry.Tracer(),
		timeout:  DefaultTimeout,
		now:      time.Now,
		inFlight: semaphore.NewWeighted(DefaultMaxInFlight),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.logger = a.logger.WithFields(logging.String("bus", broker.Name()))
	if a.breaker == nil {
		a.breaker = circuitbreaker.NewGoBreaker("publish-"+broker.Name(), circuitbreaker.PublishConfig, a.logger)
	}
	return a
}

// Publish schedules delivery of event and returns immediately. The event is
// dropped with a warning when the in-flight bound is reached or the
// publisher is closed.
func (a *Async) Publish(event interaction.SanitizedEvent) {
	if a.inFlight != nil && !a.inFlight.TryAcquire(1) {
		a.drop(event, "in-flight publish limit reached")
		return
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.release()
		a.drop(event, "publisher closed")
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()

	go a.dispatch(event)
}

func (a *Async) dispatch(event interaction.SanitizedEvent) {
	defer a.wg.Done()
	defer a.release()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Panic while publishing interaction",
				fmt.Errorf("panic: %v", r),
				logging.String("interaction_id", event.ID()),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	ctx, span := a.tracer.Start(ctx, "interaction.publish", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(
		attribute.String("interaction.id", event.ID()),
		attribute.String("interaction.type", event.Type.String()),
		attribute.String("messaging.system", a.broker.Name()),
	)

	start := a.now()
	if err := a.publish(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.WithContext(ctx).Error("Failed to publish interaction", err,
			logging.String("interaction_id", event.ID()),
			logging.String("interaction_type", event.Type.String()),
		)
		return
	}

	a.logger.WithContext(ctx).Debug("Published interaction",
		logging.String("interaction_id", event.ID()),
		logging.Duration("duration", a.now().Sub(start)),
	)
}

// publish serializes event and hands it to the bus through the breaker
func (a *Async) publish(ctx context.Context, event interaction.SanitizedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.PublishError("failed to serialize interaction", err)
	}

	now := a.now()
	message := &brokers.Message{
		Body:       body,
		Attributes: event.Attributes(now),
		MessageID:  event.ID(),
		Timestamp:  now,
	}

	err = a.breaker.Execute(ctx, func() error {
		return a.broker.Publish(ctx, message)
	})
	if err == nil {
		return nil
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.TimeoutError("publish", err)
	}
	return errors.PublishError("failed to publish interaction", err)
}

func (a *Async) release() {
	if a.inFlight != nil {
		a.inFlight.Release(1)
	}
}

func (a *Async) drop(event interaction.SanitizedEvent, reason string) {
	a.dropped.Add(1)
	a.logger.Warn("Dropping interaction event",
		logging.String("reason", reason),
		logging.String("interaction_id", event.ID()),
	)
}

// Dropped returns the number of events dropped without a publish attempt
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// BreakerStats returns the publish circuit breaker statistics
func (a *Async) BreakerStats() circuitbreaker.Stats {
	return a.breaker.Stats()
}

// Close stops accepting events and waits for in-flight publishes until ctx
// is done. It does not close the broker.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.TimeoutError("publisher shutdown", ctx.Err())
	}
}

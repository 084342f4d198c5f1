package testutil

import (
	"sync"
	"time"

	"interactions-relay/internal/interaction"
)

// RecordingPublisher captures published events in memory.
type RecordingPublisher struct {
	mu        sync.Mutex
	events    []interaction.SanitizedEvent
	published chan struct{}
}

// NewRecordingPublisher creates an empty recorder.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{published: make(chan struct{}, 128)}
}

// Publish records event.
func (p *RecordingPublisher) Publish(event interaction.SanitizedEvent) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()

	select {
	case p.published <- struct{}{}:
	default:
	}
}

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []interaction.SanitizedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]interaction.SanitizedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Count returns the number of recorded events.
func (p *RecordingPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// WaitForEvent blocks until an event is published or timeout elapses.
func (p *RecordingPublisher) WaitForEvent(timeout time.Duration) bool {
	select {
	case <-p.published:
		return true
	case <-time.After(timeout):
		return false
	}
}

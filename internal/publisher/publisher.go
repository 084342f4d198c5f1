// Package publisher hands sanitized interactions to the message bus without
// holding up the HTTP response.
package publisher

import "interactions-relay/internal/interaction"

// Publisher accepts events for out-of-band delivery. Publish must return
// without waiting on the bus.
type Publisher interface {
	Publish(event interaction.SanitizedEvent)
}

// Noop discards every event. It is used when no bus is configured.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(interaction.SanitizedEvent) {}

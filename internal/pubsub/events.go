// Package pubsub provides a generic publish/subscribe event system used to fan
// state changes and log entries out to asynchronous consumers.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// ChangedEvent is published when a value is stored.
	ChangedEvent EventType = "changed"
	// ClearedEvent is published when a value is unset.
	ClearedEvent EventType = "cleared"
	// LoggedEvent is published for every written log entry.
	LoggedEvent EventType = "logged"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

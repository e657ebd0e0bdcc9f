// Package pubsub fans canvas changes out to browser tabs over
// Server-Sent Events.
package pubsub

import (
	"context"
	"encoding/json"
)

// Event is one published message
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`    // e.g. "node_moved", "edge_added", "note"
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // per-topic sequence number
}

// Subscription is a client's view of one topic
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher manages subscriptions and publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic.
	// Context cancellation closes the subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data any) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

const (
	// TopicCanvas carries node, edge and note changes
	TopicCanvas = "canvas"
	// TopicSelection carries selection changes. The last one is replayed so
	// a newly opened stream starts from the current selection.
	TopicSelection = "selection"
)

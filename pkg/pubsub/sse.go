package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/ritzau/roadmap/pkg/logging"
)

// ErrClosed is returned once the publisher has shut down
var ErrClosed = errors.New("publisher is closed")

// TopicConfig configures buffering behavior for a topic
type TopicConfig struct {
	BufferSize int  // events kept for late subscribers (0 = none)
	ReplayAll  bool // replay the whole buffer instead of just the last event
}

// SSEPublisher implements Publisher for Server-Sent Events
type SSEPublisher struct {
	mu            sync.RWMutex
	subscriptions map[string]map[*sseSubscription]struct{}
	version       map[string]int
	eventBuffer   map[string][]Event
	topicConfig   map[string]TopicConfig
	queueSize     int
	closed        bool
}

// NewSSEPublisher creates a publisher whose subscribers each queue up to
// queueSize events before new ones are dropped for them
func NewSSEPublisher(queueSize int) *SSEPublisher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &SSEPublisher{
		subscriptions: make(map[string]map[*sseSubscription]struct{}),
		version:       make(map[string]int),
		eventBuffer:   make(map[string][]Event),
		topicConfig:   make(map[string]TopicConfig),
		queueSize:     queueSize,
	}
}

// ConfigureTopic sets buffering configuration for a topic
func (p *SSEPublisher) ConfigureTopic(topic string, config TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topicConfig[topic] = config
}

// Subscribe creates a new subscription and replays buffered events into it
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}

	sub := &sseSubscription{
		topic:     topic,
		events:    make(chan Event, p.queueSize),
		publisher: p,
	}
	if p.subscriptions[topic] == nil {
		p.subscriptions[topic] = make(map[*sseSubscription]struct{})
	}
	p.subscriptions[topic][sub] = struct{}{}

	replay := p.eventBuffer[topic]
	if !p.topicConfig[topic].ReplayAll && len(replay) > 0 {
		replay = replay[len(replay)-1:]
	}
	// Deliver while still holding the lock so no newer event can overtake
	// the replay.
	for _, event := range replay {
		sub.offer(event)
	}
	p.mu.Unlock()

	if len(replay) > 0 {
		logging.Debug("replayed events to new subscriber", "topic", topic, "count", len(replay))
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub, nil
}

// Publish sends an event to all current subscribers of a topic.
// Subscribers whose queue is full miss the event rather than block.
func (p *SSEPublisher) Publish(topic string, eventType string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.version[topic]++
	event := Event{
		Topic:   topic,
		Type:    eventType,
		Data:    jsonData,
		Version: p.version[topic],
	}

	if size := p.topicConfig[topic].BufferSize; size > 0 {
		buffer := append(p.eventBuffer[topic], event)
		if len(buffer) > size {
			buffer = buffer[len(buffer)-size:]
		}
		p.eventBuffer[topic] = buffer
	}

	for sub := range p.subscriptions[topic] {
		if !sub.offer(event) {
			logging.Warn("subscriber queue full, dropping event", "topic", topic, "type", eventType)
		}
	}
	return nil
}

// Close shuts down the publisher and ends every subscription
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, subs := range p.subscriptions {
		for sub := range subs {
			sub.finish()
		}
	}
	p.subscriptions = make(map[string]map[*sseSubscription]struct{})
	return nil
}

func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if subs := p.subscriptions[sub.topic]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(p.subscriptions, sub.topic)
		}
	}
	sub.finish()
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher

	mu     sync.Mutex
	closed bool
}

func (s *sseSubscription) Topic() string {
	return s.topic
}

func (s *sseSubscription) Events() <-chan Event {
	return s.events
}

// Close detaches the subscription and closes its event channel
func (s *sseSubscription) Close() error {
	s.publisher.unsubscribe(s)
	return nil
}

// offer queues an event without blocking. Callers hold the publisher lock.
func (s *sseSubscription) offer(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- event:
		return true
	default:
		return false
	}
}

func (s *sseSubscription) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

// WriteSSE writes one event in SSE wire format:
//
//	event: <type>
//	data: {json}
func WriteSSE(w io.Writer, event Event) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, jsonData)
	return err
}

// Stream subscribes the request to a topic and writes events until the
// client goes away or the publisher closes
func Stream(w http.ResponseWriter, r *http.Request, p Publisher, topic string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub, err := p.Subscribe(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Initial comment establishes the stream (Safari waits for a first byte)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for event := range sub.Events() {
		if err := WriteSSE(w, event); err != nil {
			logging.DebugContext(r.Context(), "stream write failed", "topic", topic, "error", err)
			return
		}
		flusher.Flush()
	}
}

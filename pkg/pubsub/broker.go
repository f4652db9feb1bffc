package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/dotlite/pkg/logging"
)

// ErrClosed is returned once the broker has been closed
var ErrClosed = errors.New("publisher is closed")

// subscriberBuffer is the channel capacity of each subscription
const subscriberBuffer = 100

// TopicConfig controls what a new subscriber is replayed
type TopicConfig struct {
	BufferSize int  // events kept per topic, 0 keeps none
	ReplayAll  bool // replay the whole buffer instead of only the last event
}

// Broker is an in-memory Publisher whose subscribers are streamed out as SSE
type Broker struct {
	mu      sync.RWMutex
	subs    map[string]map[*subscription]struct{}
	version map[string]int
	buffer  map[string][]Event
	config  map[string]TopicConfig
	closed  bool
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{
		subs:    make(map[string]map[*subscription]struct{}),
		version: make(map[string]int),
		buffer:  make(map[string][]Event),
		config:  make(map[string]TopicConfig),
	}
}

// ConfigureTopic sets the replay buffer of a topic
func (b *Broker) ConfigureTopic(topic string, config TopicConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config[topic] = config
}

// Subscribe registers a subscriber and replays buffered events to it
func (b *Broker) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}

	sub := &subscription{
		topic:  topic,
		events: make(chan Event, subscriberBuffer),
		broker: b,
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*subscription]struct{})
	}
	b.subs[topic][sub] = struct{}{}

	replay := b.buffer[topic]
	if len(replay) > 0 && !b.config[topic].ReplayAll {
		replay = replay[len(replay)-1:]
	}
	// Sent under the lock so a concurrent Publish cannot overtake the replay
	for _, event := range replay {
		sub.send(event)
	}
	b.mu.Unlock()

	if len(replay) > 0 {
		logging.Debug("replayed events to new subscriber", "topic", topic, "count", len(replay))
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub, nil
}

// Publish sends an event to every subscriber of the topic without blocking.
// Subscribers with a full channel miss the event.
func (b *Broker) Publish(topic string, eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.version[topic]++
	event := Event{
		Topic:   topic,
		Type:    eventType,
		Data:    payload,
		Version: b.version[topic],
	}

	if size := b.config[topic].BufferSize; size > 0 {
		buf := append(b.buffer[topic], event)
		if len(buf) > size {
			buf = buf[len(buf)-size:]
		}
		b.buffer[topic] = buf
	}

	for sub := range b.subs[topic] {
		sub.send(event)
	}

	logging.Trace("published event", "topic", topic, "type", eventType, "version", event.Version, "subscribers", len(b.subs[topic]))
	return nil
}

// Close closes every subscription channel. Further calls are no-ops.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.subs {
		for sub := range subs {
			close(sub.events)
		}
	}
	b.subs = make(map[string]map[*subscription]struct{})

	return nil
}

// Subscribers returns the number of live subscriptions of a topic
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *Broker) unsubscribe(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs := b.subs[sub.topic]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(b.subs, sub.topic)
		}
	}
}

type subscription struct {
	topic  string
	events chan Event
	broker *Broker
	mu     sync.Mutex
	closed bool
}

func (s *subscription) Topic() string {
	return s.topic
}

func (s *subscription) Events() <-chan Event {
	return s.events
}

func (s *subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.broker.unsubscribe(s)
	return nil
}

// send must be called with the broker lock held
func (s *subscription) send(event Event) {
	select {
	case s.events <- event:
	default:
		logging.Warn("subscriber channel full, dropping event", "topic", s.topic, "version", event.Version)
	}
}

// WriteSSE writes an event as a single SSE data frame
func WriteSSE(w io.Writer, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

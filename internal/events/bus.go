// Package events implements the topic-keyed publish/subscribe bus the
// combat, world generation, and replay subsystems emit state-change
// notifications through (§4.G). Grounded directly on the teacher's
// Simulation.Subscribe/EmitEvent/Unsubscribe (internal/engine/simulation.go),
// generalized from a single untyped event slice + fixed subscriber set to a
// topic-keyed registry so callers subscribe to just the events they need.
package events

import (
	"log/slog"
	"sort"
	"sync"
)

// Event is one notable occurrence in the kernel: a combat action, a world
// generation completion, an encounter lifecycle transition (§4.G).
type Event struct {
	Topic     string
	Type      string
	Payload   any
	SessionID string
}

// Bus dispatches events to topic subscribers in registration order. Each
// subscriber reads from its own buffered channel, so the bus never runs
// subscriber code itself, and a full buffer drops the event rather than
// blocking the publisher or the other subscribers (§4.G: generalizes the
// teacher's single "drop for slow consumers" comment).
type Bus struct {
	mu        sync.RWMutex
	subs      map[string]map[int]chan Event
	nextSubID int
	logger    *slog.Logger
}

// New builds an empty Bus. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[string]map[int]chan Event),
		logger: logger,
	}
}

// Subscribe returns a subscription ID and a buffered channel that receives
// every Event published to topic. Unsubscribe(topic, id) releases it.
func (b *Bus) Subscribe(topic string) (int, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	id := b.nextSubID
	b.nextSubID++
	ch := make(chan Event, 64)
	b.subs[topic][id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(topic string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[topic]
	if subs == nil {
		return
	}
	if ch, ok := subs[id]; ok {
		close(ch)
		delete(subs, id)
	}
}

// Publish broadcasts e to every subscriber of e.Topic. A full subscriber
// buffer drops the event rather than blocking the publisher (teacher's
// "drop for slow consumers" behavior).
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	subs := b.subs[e.Topic]
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	// Subscription ids increase monotonically, so ascending id order is
	// registration order.
	sort.Ints(ids)
	for _, id := range ids {
		select {
		case subs[id] <- e:
		default:
			b.logger.Warn("event dropped: subscriber buffer full", "topic", e.Topic, "type", e.Type)
		}
	}
}

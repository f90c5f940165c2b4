package notify

import (
	"context"
	"sync"
)

const defaultSubscriberBuffer = 8

// MemoryBus is an in-process Notifier/Subscriber backed by channels. Publish
// never blocks: a subscriber whose buffer is full misses that event and the
// drop is counted, which is acceptable for a cache-invalidation signal where
// only the latest event matters.
type MemoryBus struct {
	mu      sync.RWMutex
	subs    map[string][]chan Payload
	dropped int
	closed  bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string][]chan Payload)}
}

func (b *MemoryBus) Publish(_ context.Context, topic string, payload Payload) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	for _, ch := range b.subs[topic] {
		select {
		case ch <- payload:
		default:
			b.dropped++
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(topic string) (<-chan Payload, func()) {
	ch := make(chan Payload, defaultSubscriberBuffer)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		channels := b.subs[topic]
		for i, c := range channels {
			if c == ch {
				b.subs[topic] = append(channels[:i], channels[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Dropped reports how many events were discarded because a subscriber's
// buffer was full.
func (b *MemoryBus) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Close drops all subscriptions and closes their channels. Publish becomes a
// no-op afterwards.
func (b *MemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, channels := range b.subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	b.subs = make(map[string][]chan Payload)
}

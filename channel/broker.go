package channel

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/promptforge/refinery/core"
)

// DefaultSubscriberBuffer is the per-subscription event buffer used when
// none is configured. Events beyond the buffer are dropped, not queued.
const DefaultSubscriberBuffer = 64

// InMemoryBroker is a process-local Broker. Fan-out happens inline on the
// publisher goroutine with a non-blocking send per subscriber, so a stalled
// consumer loses events instead of stalling the run.
type InMemoryBroker struct {
	mu      sync.RWMutex
	topics  map[string]map[*Subscription]chan core.ProgressEvent
	buffer  int
	closed  bool
	dropped atomic.Int64
}

// BrokerOptions configures an InMemoryBroker.
type BrokerOptions struct {
	// SubscriberBuffer is the per-subscription channel capacity.
	SubscriberBuffer int
}

// NewInMemoryBroker constructs a broker with no topics.
func NewInMemoryBroker(optFns ...func(o *BrokerOptions)) *InMemoryBroker {
	opts := BrokerOptions{SubscriberBuffer: DefaultSubscriberBuffer}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = DefaultSubscriberBuffer
	}
	return &InMemoryBroker{
		topics: make(map[string]map[*Subscription]chan core.ProgressEvent),
		buffer: opts.SubscriberBuffer,
	}
}

// Publish implements Publisher. Events for topics without subscribers are
// discarded.
func (b *InMemoryBroker) Publish(topic string, ev core.ProgressEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("broker is closed")
	}

	for _, ch := range b.topics[topic] {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}

	return nil
}

// Subscribe implements Subscriber.
func (b *InMemoryBroker) Subscribe(topic string) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}

	ch := make(chan core.ProgressEvent, b.buffer)
	sub := &Subscription{C: ch, topic: topic}

	var once sync.Once
	sub.cancel = func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.detach(topic, sub, ch)
		})
	}

	if b.topics[topic] == nil {
		b.topics[topic] = make(map[*Subscription]chan core.ProgressEvent)
	}
	b.topics[topic][sub] = ch

	return sub, nil
}

// detach removes a subscription and closes its channel. Caller holds b.mu.
func (b *InMemoryBroker) detach(topic string, sub *Subscription, ch chan core.ProgressEvent) {
	subs, ok := b.topics[topic]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
	close(ch)
}

// Dropped reports how many events were discarded because a subscriber
// buffer was full.
func (b *InMemoryBroker) Dropped() int64 {
	return b.dropped.Load()
}

// SubscriberCount returns the number of active subscriptions for topic.
func (b *InMemoryBroker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Close implements Broker. All subscription channels are closed; further
// publishes are no-ops and further subscribes fail.
func (b *InMemoryBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for topic, subs := range b.topics {
		for sub, ch := range subs {
			delete(subs, sub)
			close(ch)
		}
		delete(b.topics, topic)
	}
}

// Package channel provides session-scoped progress event distribution.
// Publishers are fire-and-forget: delivery to slow or absent subscribers
// never blocks or fails a refinement run. Events published without any
// subscriber are discarded; there is no replay for late subscribers.
package channel

import "github.com/promptforge/refinery/core"

// Publisher delivers progress events to a topic. A publish failure is
// logged and ignored by callers; it must never delay or fail the
// refinement work that emitted the event.
type Publisher interface {
	// Publish sends ev to all current subscribers of topic. It never
	// blocks on subscriber consumption.
	Publish(topic string, ev core.ProgressEvent) error
}

// Subscriber attaches consumers to topics.
type Subscriber interface {
	// Subscribe registers a consumer for topic and returns the
	// subscription handle. Events published before the call are not
	// replayed.
	Subscribe(topic string) (*Subscription, error)
}

// SubscribeFunc attaches handler to topic on sub, draining events on a
// dedicated goroutine so a slow handler only affects its own
// subscription. The handler observes per-publisher emission order.
func SubscribeFunc(sub Subscriber, topic string, handler func(ev core.ProgressEvent)) (*Subscription, error) {
	s, err := sub.Subscribe(topic)
	if err != nil {
		return nil, err
	}

	go func() {
		for ev := range s.C {
			handler(ev)
		}
	}()

	return s, nil
}

// Broker combines both sides of the channel.
type Broker interface {
	Publisher
	Subscriber

	// Close shuts the broker down and closes all subscriptions.
	Close()
}

// Subscription is a single consumer attachment to a topic. Events arrive
// on C in publish order. The channel is closed when the subscription is
// cancelled or the broker shuts down.
type Subscription struct {
	// C delivers events for the subscribed topic.
	C <-chan core.ProgressEvent

	topic  string
	cancel func()
}

// Topic returns the topic this subscription is attached to.
func (s *Subscription) Topic() string { return s.topic }

// Cancel detaches the subscription and closes C. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

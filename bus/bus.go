// Package bus is a small in-process pub/sub used for advisory events
// (status LED, diagnostics taps). Delivery is non-blocking: when a
// subscriber queue is full the oldest message is dropped. Nothing on the
// boot-critical path ever waits on this bus.
package bus

import "sync"

// Message is one published event.
type Message struct {
	Topic    string
	Payload  any
	Retained bool
}

// Subscription receives messages for exactly one topic.
type Subscription struct {
	topic string
	ch    chan *Message
	bus   *Bus
}

func (s *Subscription) Topic() string            { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.bus.unsubscribe(s) }

type entry struct {
	subs     []*Subscription
	retained *Message
}

// Bus routes messages by exact topic match.
type Bus struct {
	mu     sync.Mutex
	topics map[string]*entry
	qLen   int
}

// New creates a bus with the given per-subscription queue length.
func New(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8 // safe default
	}
	return &Bus{
		topics: make(map[string]*entry),
		qLen:   queueLen,
	}
}

// Publish delivers msg to all subscribers of its topic. A retained message
// with a nil payload clears the retained slot.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.topics[msg.Topic]
	if !ok {
		if !msg.Retained {
			return
		}
		e = &entry{}
		b.topics[msg.Topic] = e
	}

	for _, sub := range e.subs {
		select {
		case sub.ch <- msg:
		default:
			// drop oldest if queue full
			<-sub.ch
			sub.ch <- msg
		}
	}

	if msg.Retained {
		if msg.Payload == nil {
			e.retained = nil
		} else {
			e.retained = msg
		}
	}
}

// Subscribe registers interest in one topic. A retained message, if any,
// is delivered immediately.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan *Message, b.qLen),
		bus:   b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.topics[topic]
	if !ok {
		e = &entry{}
		b.topics[topic] = e
	}
	e.subs = append(e.subs, sub)

	if e.retained != nil {
		select {
		case sub.ch <- e.retained:
		default:
		}
	}
	return sub
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.topics[sub.topic]
	if !ok {
		return
	}
	for i, s := range e.subs {
		if s == sub {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			break
		}
	}
	if len(e.subs) == 0 && e.retained == nil {
		delete(b.topics, sub.topic)
	}
	close(sub.ch)
}

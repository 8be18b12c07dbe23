package ecs

import "sync"

// UnsubscribeToken is the opaque weak handle returned from Subscribe; the
// bus owns the subscription, not the caller.
type UnsubscribeToken struct {
	typeID ComponentTypeID
	id     uint64
}

type busSubscriber struct {
	id      uint64
	handler func(any)
}

type topicQueue struct {
	mu          sync.Mutex
	queue       []any
	subscribers []busSubscriber
	nextSubID   uint64
}

// MessageBus is a per-type FIFO queue plus subscriber list, with typed
// handlers, subscription ids, and FIFO delivery order.
//
// Subscribe/Publish are safe for concurrent use by many producer
// goroutines; delivery itself runs synchronously on whichever goroutine
// calls PumpAll.
type MessageBus struct {
	mu     sync.Mutex
	topics map[ComponentTypeID]*topicQueue
	order  []ComponentTypeID // first-touch order, pinned stable once a topic is created
}

// NewMessageBus returns an empty bus.
func NewMessageBus() *MessageBus {
	return &MessageBus{topics: map[ComponentTypeID]*topicQueue{}}
}

func (b *MessageBus) topicFor(id ComponentTypeID) *topicQueue {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[id]
	if !ok {
		t = &topicQueue{}
		b.topics[id] = t
		b.order = append(b.order, id)
	}
	return t
}

// Subscribe registers handler for every future Publish of message type M.
func Subscribe[M any](b *MessageBus, handler func(M)) UnsubscribeToken {
	id := componentTypeID[M]()
	t := b.topicFor(id)
	t.mu.Lock()
	defer t.mu.Unlock()
	subID := t.nextSubID
	t.nextSubID++
	t.subscribers = append(t.subscribers, busSubscriber{
		id:      subID,
		handler: func(v any) { handler(v.(M)) },
	})
	return UnsubscribeToken{typeID: id, id: subID}
}

// Publish appends value to M's FIFO queue. Delivery happens on the next
// PumpAll.
func Publish[M any](b *MessageBus, value M) {
	id := componentTypeID[M]()
	t := b.topicFor(id)
	t.mu.Lock()
	t.queue = append(t.queue, value)
	t.mu.Unlock()
}

// Unsubscribe removes a subscription. Safe to call during a pump; it only
// affects the *next* pump.
func (b *MessageBus) Unsubscribe(tok UnsubscribeToken) {
	b.mu.Lock()
	t, ok := b.topics[tok.typeID]
	b.mu.Unlock()
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subscribers {
		if s.id == tok.id {
			t.subscribers = append(t.subscribers[:i], t.subscribers[i+1:]...)
			break
		}
	}
}

// PumpAll delivers every queued message to a per-topic snapshot of
// subscribers taken at pump entry, topics visited in stable first-touch
// order, FIFO within a topic. It returns the number of messages dequeued,
// not the number of handler invocations.
// Called exactly once per frame, at the start of begin_frame.
func (b *MessageBus) PumpAll() int {
	b.mu.Lock()
	topicIDs := make([]ComponentTypeID, len(b.order))
	copy(topicIDs, b.order)
	b.mu.Unlock()

	delivered := 0
	for _, id := range topicIDs {
		b.mu.Lock()
		t := b.topics[id]
		b.mu.Unlock()

		t.mu.Lock()
		pending := t.queue
		t.queue = nil
		snapshot := make([]busSubscriber, len(t.subscribers))
		copy(snapshot, t.subscribers)
		t.mu.Unlock()

		for _, msg := range pending {
			for _, sub := range snapshot {
				sub.handler(msg)
			}
			delivered++
		}
	}
	return delivered
}

// Clear drops every queued message and every subscriber across all topics.
func (b *MessageBus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.topics {
		t.mu.Lock()
		t.queue = nil
		t.subscribers = nil
		t.mu.Unlock()
	}
}

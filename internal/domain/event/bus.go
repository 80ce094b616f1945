package event

import (
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/shared/id"
)

// Wildcard subscribes to every event type
const Wildcard = "*"

// Handler is a function that handles an event
type Handler func(Event)

type subscription struct {
	id        id.SubscriptionID
	eventType string
	handler   Handler
}

// Bus is a synchronous pub-sub bus. Handlers run on the publisher's goroutine,
// which for core events is the main loop; handlers must not block.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription
	logger        *zap.Logger
}

// NewBus creates an event bus. A nil logger discards handler panics silently.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subscriptions: make(map[string][]subscription),
		logger:        logger,
	}
}

// Subscribe registers a handler for one event type
func (b *Bus) Subscribe(eventType string, handler Handler) id.SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := subscription{id: id.NewSubscriptionID(), eventType: eventType, handler: handler}
	b.subscriptions[eventType] = append(b.subscriptions[eventType], sub)
	return sub.id
}

// SubscribeAll registers a handler for every event type
func (b *Bus) SubscribeAll(handler Handler) id.SubscriptionID {
	return b.Subscribe(Wildcard, handler)
}

// Unsubscribe removes a subscription. Returns false if it was not registered.
func (b *Bus) Unsubscribe(subID id.SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id != subID {
				continue
			}
			// Copy so a Publish holding the old slice is unaffected.
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.subscriptions, eventType)
			} else {
				b.subscriptions[eventType] = next
			}
			return true
		}
	}
	return false
}

// Publish delivers ev to the handlers of its type, then to wildcard handlers,
// each group in registration order. A panicking handler is logged and skipped.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	specific := b.subscriptions[ev.EventType()]
	wildcard := b.subscriptions[Wildcard]
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub, ev)
	}
	for _, sub := range wildcard {
		b.safeCall(sub, ev)
	}
}

func (b *Bus) safeCall(sub subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event", ev.EventType()),
				zap.String("subscription", sub.id.String()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	sub.handler(ev)
}

// SubscriptionCount returns the number of active subscriptions
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, subs := range b.subscriptions {
		n += len(subs)
	}
	return n
}

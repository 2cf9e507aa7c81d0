package event

import (
	"context"
	"sync"
)

// Handler is a function that processes events
type Handler func(ctx context.Context, e Event)

// Subscription identifies a registered handler so it can be removed later.
// The zero value is never issued by an emitter.
type Subscription struct {
	id   uint64
	name string
	all  bool
}

// subscription is the internal registration record. The active flag lets an
// in-flight Emit skip handlers removed after the dispatch snapshot was taken.
type subscription struct {
	id      uint64
	handler Handler
	active  bool
}

// Emitter manages event subscriptions and dispatching. Each owner creates
// its own emitter; there is no process-wide instance. Handlers for a given
// event run synchronously in registration order.
type Emitter struct {
	mu               sync.Mutex
	nextID           uint64
	subscribers      map[string][]*subscription // Type-specific handlers
	wildcardHandlers []*subscription            // Handlers for all events
	count            int
}

// NewEmitter creates a new emitter with no subscriptions.
func NewEmitter() *Emitter {
	return &Emitter{
		subscribers: make(map[string][]*subscription),
	}
}

// On registers a handler for a specific event name and returns the
// subscription used to remove it.
func (e *Emitter) On(name string, handler Handler) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	sub := &subscription{id: e.nextID, handler: handler, active: true}
	e.subscribers[name] = append(e.subscribers[name], sub)
	e.count++

	return Subscription{id: sub.id, name: name}
}

// OnAll registers a handler invoked for every event.
func (e *Emitter) OnAll(handler Handler) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	sub := &subscription{id: e.nextID, handler: handler, active: true}
	e.wildcardHandlers = append(e.wildcardHandlers, sub)
	e.count++

	return Subscription{id: sub.id, all: true}
}

// Off removes a previously registered handler. Removing a subscription that
// was never registered, or was already removed, is a no-op.
func (e *Emitter) Off(s Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.all {
		e.wildcardHandlers = e.remove(e.wildcardHandlers, s.id)
		return
	}

	subs, ok := e.subscribers[s.name]
	if !ok {
		return
	}
	subs = e.remove(subs, s.id)
	if len(subs) == 0 {
		delete(e.subscribers, s.name)
	} else {
		e.subscribers[s.name] = subs
	}
}

// remove deactivates and drops the subscription with the given id.
// Caller must hold the mutex.
func (e *Emitter) remove(subs []*subscription, id uint64) []*subscription {
	for i, sub := range subs {
		if sub.id == id {
			sub.active = false
			e.count--
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}

// Count returns the number of live handlers across all event names,
// wildcard handlers included.
func (e *Emitter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// Reset removes every subscription. Owners call this when tearing the
// emitter down; it is safe to keep using the emitter afterwards.
func (e *Emitter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, subs := range e.subscribers {
		for _, sub := range subs {
			sub.active = false
		}
	}
	for _, sub := range e.wildcardHandlers {
		sub.active = false
	}
	e.subscribers = make(map[string][]*subscription)
	e.wildcardHandlers = nil
	e.count = 0
}

// Emit dispatches an event to all handlers registered for its name, then to
// wildcard handlers, preserving registration order. Handlers removed while
// the emission is in progress are not invoked; handlers added during the
// emission only see later events.
func (e *Emitter) Emit(ctx context.Context, evt Event) {
	e.mu.Lock()
	snapshot := make([]*subscription, 0, len(e.subscribers[evt.Name])+len(e.wildcardHandlers))
	snapshot = append(snapshot, e.subscribers[evt.Name]...)
	snapshot = append(snapshot, e.wildcardHandlers...)
	e.mu.Unlock()

	for _, sub := range snapshot {
		e.mu.Lock()
		alive := sub.active
		e.mu.Unlock()
		if !alive {
			continue
		}
		sub.handler(ctx, evt)
	}
}

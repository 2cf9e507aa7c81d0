package net

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/miniappkit/miniappkit/sdk/bridge"
)

// PostedEvent records one outbound event for inspection.
type PostedEvent struct {
	Name    string
	Payload []byte
}

// Loopback is an in-memory transport. The host side is scripted with Handle
// callbacks that may answer outbound events with response envelopes, and
// EmitIncoming injects unsolicited host events. Used by tests and the
// bundled example.
type Loopback struct {
	mu       sync.Mutex
	handlers map[string]func(payload []byte) []bridge.Envelope
	posted   []PostedEvent
	postErr  error

	events    chan bridge.Envelope
	done      chan struct{}
	closeOnce sync.Once
}

var _ bridge.Transport = (*Loopback)(nil)

// NewLoopback creates a loopback transport with a buffered event stream.
func NewLoopback() *Loopback {
	return &Loopback{
		handlers: make(map[string]func(payload []byte) []bridge.Envelope),
		events:   make(chan bridge.Envelope, 64),
		done:     make(chan struct{}),
	}
}

// Handle scripts the host's reaction to an outbound event name. Returned
// envelopes are delivered on the event stream in order.
func (l *Loopback) Handle(name string, fn func(payload []byte) []bridge.Envelope) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[name] = fn
}

// FailWith makes every subsequent Post return err, simulating a missing
// host bridge.
func (l *Loopback) FailWith(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.postErr = err
}

// EmitIncoming injects a host-originated event into the stream.
func (l *Loopback) EmitIncoming(name string, payload []byte) {
	l.deliver(bridge.Envelope{Name: name, Payload: payload})
}

// deliver sends one envelope, giving up when the transport closes. The
// send happens outside any lock so a full buffer with no consumer cannot
// wedge Close or Post behind the mutex.
func (l *Loopback) deliver(env bridge.Envelope) {
	select {
	case l.events <- env:
	case <-l.done:
	}
}

// Posted returns a copy of all outbound events seen so far.
func (l *Loopback) Posted() []PostedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]PostedEvent, len(l.posted))
	copy(out, l.posted)
	return out
}

// Post records the event and runs the scripted host reaction, if any.
func (l *Loopback) Post(_ context.Context, name string, payload []byte) error {
	select {
	case <-l.done:
		return errors.New("loopback transport closed")
	default:
	}

	l.mu.Lock()
	if l.postErr != nil {
		err := l.postErr
		l.mu.Unlock()
		return err
	}
	l.posted = append(l.posted, PostedEvent{Name: name, Payload: payload})
	handler := l.handlers[name]
	l.mu.Unlock()

	if handler == nil {
		return nil
	}
	// Deliver responses asynchronously, as a real host would.
	go func() {
		for _, env := range handler(payload) {
			l.deliver(env)
		}
	}()
	return nil
}

// Events returns the host event stream. The channel stays open; consumers
// stop on their own shutdown signal, and pending deliveries drain via done.
func (l *Loopback) Events() <-chan bridge.Envelope {
	return l.events
}

// Close shuts the transport down and releases any blocked deliveries.
func (l *Loopback) Close(context.Context) error {
	l.closeOnce.Do(func() {
		close(l.done)
	})
	return nil
}

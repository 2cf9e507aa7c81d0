package bridge

import (
	"context"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/miniappkit/miniappkit/sdk/event"
	"github.com/miniappkit/miniappkit/sdk/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Bridge multiplexes the host connection. Outbound events go straight to
// the transport; inbound events are fanned into a per-bridge emitter that
// both the correlator and external subscribers listen on. Events nobody
// subscribed to are dropped.
type Bridge struct {
	transport Transport
	emitter   *event.Emitter
	logger    log.Logger

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a bridge over the given transport and starts dispatching
// incoming events. A nil logger defaults to the noop logger.
func New(transport Transport, logger log.Logger) *Bridge {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	b := &Bridge{
		transport: transport,
		emitter:   event.NewEmitter(),
		logger:    logger,
		done:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// dispatch forwards transport events into the emitter in arrival order.
func (b *Bridge) dispatch() {
	defer b.wg.Done()

	ctx := context.Background()
	for {
		select {
		case env, ok := <-b.transport.Events():
			if !ok {
				b.logger.Debug(ctx, "Transport event stream closed")
				return
			}
			b.logger.Debug(ctx, "Received bridge event", "name", env.Name)
			b.emitter.Emit(ctx, event.NewBridgeEvent(env.Name, env.Payload))
		case <-b.done:
			return
		}
	}
}

// PostEvent serializes the payload and dispatches it to the host. A nil
// payload posts the bare event name. Transport failures are surfaced as
// ErrBridgeUnsupported so callers can fall back to legacy paths.
func (b *Bridge) PostEvent(ctx context.Context, name string, payload interface{}) error {
	if name == "" {
		return fmt.Errorf("%w: empty event name", ErrInvalidArgument)
	}

	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: marshal %s payload: %v", ErrInvalidArgument, name, err)
		}
	}

	b.logger.Debug(ctx, "Posting bridge event", "name", name, "payloadBytes", len(raw))

	if err := b.transport.Post(ctx, name, raw); err != nil {
		b.logger.Error(ctx, "Bridge post failed", "name", name, "error", err)
		return fmt.Errorf("%w: post %s: %v", ErrBridgeUnsupported, name, err)
	}
	return nil
}

// On registers a handler for a named incoming event.
func (b *Bridge) On(name string, handler event.Handler) event.Subscription {
	return b.emitter.On(name, handler)
}

// OnAll registers a handler for every incoming event.
func (b *Bridge) OnAll(handler event.Handler) event.Subscription {
	return b.emitter.OnAll(handler)
}

// Off removes a handler previously registered with On or OnAll.
func (b *Bridge) Off(s event.Subscription) {
	b.emitter.Off(s)
}

// ListenerCount returns the number of live incoming-event handlers.
func (b *Bridge) ListenerCount() int {
	return b.emitter.Count()
}

// Close stops dispatching, clears subscriptions and closes the transport.
func (b *Bridge) Close(ctx context.Context) error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		err = b.transport.Close(ctx)
		b.wg.Wait()
		b.emitter.Reset()
	})
	return err
}

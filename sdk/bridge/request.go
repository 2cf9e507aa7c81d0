package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/miniappkit/miniappkit/sdk/event"
)

// DefaultRequestTimeout bounds a request when the caller supplies none.
const DefaultRequestTimeout = 10 * time.Second

// RequestIDKey is the payload field used for default response correlation.
const RequestIDKey = "req_id"

// CaptureFunc decides whether an incoming event is the response to a
// particular request. Each pending request holds its own capture, so any
// number of concurrent requests may await the same response event name
// without cross-resolving.
type CaptureFunc func(e event.Event) bool

// RequestParams describes one request/response exchange.
type RequestParams struct {
	// Method is the outbound bridge event name.
	Method string

	// Payload is the outbound payload. When Capture is nil a req_id field
	// is injected here for default correlation, so the map may be mutated.
	Payload map[string]interface{}

	// ResponseEvent is the incoming event name carrying the response.
	ResponseEvent string

	// Capture claims a response among possibly interleaved events. Nil
	// selects req_id matching.
	Capture CaptureFunc

	// Timeout bounds the wait; zero selects DefaultRequestTimeout.
	Timeout time.Duration
}

// pendingRequest is the per-request state machine: awaiting until settled
// exactly once by a matching response, a timeout or cancellation.
type pendingRequest struct {
	once    sync.Once
	done    chan struct{}
	payload jsoniter.RawMessage
}

func newPendingRequest() *pendingRequest {
	return &pendingRequest{done: make(chan struct{})}
}

// settle records the first matching response and ignores the rest.
func (p *pendingRequest) settle(payload jsoniter.RawMessage) {
	p.once.Do(func() {
		p.payload = payload
		close(p.done)
	})
}

// CaptureByRequestID matches responses whose payload carries the given
// req_id value.
func CaptureByRequestID(id string) CaptureFunc {
	return func(e event.Event) bool {
		var body struct {
			ReqID string `json:"req_id"`
		}
		if err := json.Unmarshal(e.Payload, &body); err != nil {
			return false
		}
		return body.ReqID == id
	}
}

// CaptureFirst claims the first response event regardless of payload, for
// exchanges whose response carries no correlation field.
func CaptureFirst() CaptureFunc {
	return func(event.Event) bool { return true }
}

// Request emits an event and waits for the matching response event,
// building a request/response exchange on top of the one-way transport.
// The listener is registered before posting and released on every exit
// path. Cancel by cancelling ctx; the call settles with ErrCancelled.
func (b *Bridge) Request(ctx context.Context, p RequestParams) (jsoniter.RawMessage, error) {
	if p.Method == "" {
		return nil, fmt.Errorf("%w: empty request method", ErrInvalidArgument)
	}
	if p.ResponseEvent == "" {
		return nil, fmt.Errorf("%w: empty response event for %s", ErrInvalidArgument, p.Method)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	capture := p.Capture
	payload := p.Payload
	if capture == nil {
		reqID := uuid.NewString()
		if payload == nil {
			payload = make(map[string]interface{}, 1)
		}
		if existing, ok := payload[RequestIDKey].(string); ok && existing != "" {
			reqID = existing
		} else {
			payload[RequestIDKey] = reqID
		}
		capture = CaptureByRequestID(reqID)
	}

	pending := newPendingRequest()
	sub := b.emitter.On(p.ResponseEvent, func(_ context.Context, e event.Event) {
		if !capture(e) {
			return
		}
		pending.settle(e.Payload)
	})

	var outbound interface{}
	if payload != nil {
		outbound = payload
	}
	if err := b.PostEvent(ctx, p.Method, outbound); err != nil {
		// Post failed synchronously: release the listener before anyone
		// could have delivered a response.
		b.emitter.Off(sub)
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-pending.done:
		b.emitter.Off(sub)
		return pending.payload, nil
	case <-timer.C:
		b.emitter.Off(sub)
		// The response may have raced the timer; prefer it.
		select {
		case <-pending.done:
			return pending.payload, nil
		default:
		}
		return nil, fmt.Errorf("%w: no %s within %s", ErrTimeout, p.ResponseEvent, timeout)
	case <-ctx.Done():
		b.emitter.Off(sub)
		select {
		case <-pending.done:
			return pending.payload, nil
		default:
		}
		return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	}
}

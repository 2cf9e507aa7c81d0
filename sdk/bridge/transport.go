package bridge

import (
	"context"

	jsoniter "github.com/json-iterator/go"
)

//go:generate mockgen -destination=mocks/mock_transport.go -package=bridgemocks github.com/miniappkit/miniappkit/sdk/bridge Transport

// Envelope is the wire framing shared by all transports: an event name plus
// an optional JSON payload.
type Envelope struct {
	Name    string              `json:"eventType"`
	Payload jsoniter.RawMessage `json:"eventData,omitempty"`
}

// Transport is the one-way outbound channel to the host plus the stream of
// events the host sends back. Post is fire-and-forget: a nil error only
// means the event was handed to the host, never that it was acted upon.
type Transport interface {
	// Post dispatches an outbound event. Implementations must fail fast
	// when no host connection exists.
	Post(ctx context.Context, name string, payload []byte) error

	// Events returns the channel of host-delivered events. The channel is
	// closed when the transport shuts down.
	Events() <-chan Envelope

	// Close releases the transport's resources.
	Close(ctx context.Context) error
}

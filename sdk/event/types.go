package event

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Event represents an event flowing through an emitter. Bridge-delivered
// events carry the raw host payload; locally emitted change events carry
// contextual data instead.
type Event struct {
	Name      string                 // event name
	Timestamp time.Time              // when the event was created
	Payload   jsoniter.RawMessage    // raw host payload, nil for local events
	Data      map[string]interface{} // additional contextual data
}

// New creates a local event with the given name and data.
func New(name string, data map[string]interface{}) Event {
	if data == nil {
		data = make(map[string]interface{})
	}

	return Event{
		Name:      name,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// NewBridgeEvent creates an event carrying a raw payload received from the
// host.
func NewBridgeEvent(name string, payload jsoniter.RawMessage) Event {
	return Event{
		Name:      name,
		Timestamp: time.Now(),
		Payload:   payload,
		Data:      make(map[string]interface{}),
	}
}

// Package mainbutton wraps the host-rendered main action button. All reads
// are local; every mutation posts the full button setup to the host first,
// applies the new state second and notifies listeners last.
package mainbutton

import (
	"context"
	"fmt"
	"sync"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/compat"
	"github.com/miniappkit/miniappkit/sdk/event"
	"github.com/miniappkit/miniappkit/sdk/log"
)

// Poster is the slice of the bridge the button needs.
type Poster interface {
	PostEvent(ctx context.Context, name string, payload interface{}) error
	On(name string, handler event.Handler) event.Subscription
	Off(s event.Subscription)
}

// State is the button's full visual state, posted to the host as one
// setup payload on every mutation.
type State struct {
	Text              string `json:"text"`
	Color             string `json:"color"`
	TextColor         string `json:"text_color"`
	IsVisible         bool   `json:"is_visible"`
	IsActive          bool   `json:"is_active"`
	IsProgressVisible bool   `json:"is_progress_visible"`
}

// Field names carried by change events.
const (
	FieldText            = "text"
	FieldColor           = "color"
	FieldTextColor       = "text_color"
	FieldVisible         = "is_visible"
	FieldActive          = "is_active"
	FieldProgressVisible = "is_progress_visible"
)

// MainButton is the stateful wrapper.
type MainButton struct {
	mu      sync.Mutex
	state   State
	bridge  Poster
	emitter *event.Emitter
	logger  log.Logger
}

// New creates a main button in its initial hidden, active state.
func New(poster Poster, logger log.Logger) *MainButton {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &MainButton{
		state:   State{IsActive: true},
		bridge:  poster,
		emitter: event.NewEmitter(),
		logger:  logger,
	}
}

// State returns a copy of the current local state. Never touches the
// bridge.
func (b *MainButton) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Text returns the current label.
func (b *MainButton) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Text
}

// IsVisible reports whether the button is shown.
func (b *MainButton) IsVisible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.IsVisible
}

// IsActive reports whether the button accepts presses.
func (b *MainButton) IsActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.IsActive
}

// SetText updates the button label. The label must be non-empty.
func (b *MainButton) SetText(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("%w: main button text cannot be empty", bridge.ErrInvalidArgument)
	}
	next := b.State()
	next.Text = text
	return b.commit(ctx, next, FieldText, text)
}

// SetColor updates the button background color.
func (b *MainButton) SetColor(ctx context.Context, color string) error {
	next := b.State()
	next.Color = color
	return b.commit(ctx, next, FieldColor, color)
}

// SetTextColor updates the label color.
func (b *MainButton) SetTextColor(ctx context.Context, color string) error {
	next := b.State()
	next.TextColor = color
	return b.commit(ctx, next, FieldTextColor, color)
}

// Show makes the button visible. The label must have been set first.
func (b *MainButton) Show(ctx context.Context) error {
	next := b.State()
	if next.Text == "" {
		return fmt.Errorf("%w: cannot show main button without text", bridge.ErrInvalidArgument)
	}
	next.IsVisible = true
	return b.commit(ctx, next, FieldVisible, true)
}

// Hide removes the button.
func (b *MainButton) Hide(ctx context.Context) error {
	next := b.State()
	next.IsVisible = false
	return b.commit(ctx, next, FieldVisible, false)
}

// Enable lets the button accept presses.
func (b *MainButton) Enable(ctx context.Context) error {
	next := b.State()
	next.IsActive = true
	return b.commit(ctx, next, FieldActive, true)
}

// Disable makes the button inert without hiding it.
func (b *MainButton) Disable(ctx context.Context) error {
	next := b.State()
	next.IsActive = false
	return b.commit(ctx, next, FieldActive, false)
}

// ShowProgress displays the loading indicator on the button.
func (b *MainButton) ShowProgress(ctx context.Context) error {
	next := b.State()
	next.IsProgressVisible = true
	return b.commit(ctx, next, FieldProgressVisible, true)
}

// HideProgress removes the loading indicator.
func (b *MainButton) HideProgress(ctx context.Context) error {
	next := b.State()
	next.IsProgressVisible = false
	return b.commit(ctx, next, FieldProgressVisible, false)
}

// OnChange registers a handler for local state changes. Events carry the
// mutated field name and its new value.
func (b *MainButton) OnChange(handler event.Handler) event.Subscription {
	return b.emitter.On(event.MainButtonChanged, handler)
}

// OffChange removes a change handler.
func (b *MainButton) OffChange(s event.Subscription) {
	b.emitter.Off(s)
}

// OnClick registers a handler for host-delivered button presses.
func (b *MainButton) OnClick(handler event.Handler) event.Subscription {
	return b.bridge.On(compat.EventMainButtonPressed, handler)
}

// OffClick removes a click handler.
func (b *MainButton) OffClick(s event.Subscription) {
	b.bridge.Off(s)
}

// Detach drops every local change handler. Click handlers live on the
// bridge and die with it.
func (b *MainButton) Detach() {
	b.emitter.Reset()
}

// commit is the single state-update entry point: bridge call first, local
// state second, change notification last.
func (b *MainButton) commit(ctx context.Context, next State, field string, value interface{}) error {
	if err := b.bridge.PostEvent(ctx, compat.MethodSetupMainButton, next); err != nil {
		return err
	}

	b.mu.Lock()
	b.state = next
	b.mu.Unlock()

	b.logger.Debug(ctx, "Main button updated", "field", field, "value", value)
	b.emitter.Emit(ctx, event.New(event.MainButtonChanged, map[string]interface{}{
		event.KeyField: field,
		event.KeyValue: value,
	}))
	return nil
}

// Package webapp wraps the host-facing surface of an embedded app:
// lifecycle signals, payload submission, link and invoice opening, popups,
// clipboard access, viewport and theme tracking.
package webapp

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/compat"
	"github.com/miniappkit/miniappkit/sdk/event"
	"github.com/miniappkit/miniappkit/sdk/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxSendDataBytes is the host-imposed ceiling on one sendData payload.
const MaxSendDataBytes = 4096

// Bridge is the slice of the bridge the component needs.
type Bridge interface {
	PostEvent(ctx context.Context, name string, payload interface{}) error
	Request(ctx context.Context, p bridge.RequestParams) (jsoniter.RawMessage, error)
	On(name string, handler event.Handler) event.Subscription
	Off(s event.Subscription)
}

// URLOpener is the legacy fallback used when the host cannot open links
// through the bridge: a plain browser navigation.
type URLOpener interface {
	Open(ctx context.Context, url string) error
}

// Field names carried by change events.
const (
	FieldHeaderColor     = "header_color"
	FieldBackgroundColor = "background_color"
	FieldClosingConfirm  = "closing_confirmation"
	FieldViewport        = "viewport"
	FieldTheme           = "theme"
)

var headerColorKeys = map[string]bool{
	"bg_color":           true,
	"secondary_bg_color": true,
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// WebApp is the stateful wrapper over the app-level host surface.
type WebApp struct {
	mu    sync.Mutex
	state struct {
		HeaderColor     string
		BackgroundColor string
		ClosingConfirm  bool
		Viewport        Viewport
		Theme           ThemeParams
	}

	bridge  Bridge
	table   *compat.Table
	opener  URLOpener
	emitter *event.Emitter
	logger  log.Logger

	subs []event.Subscription
}

// New creates the component and subscribes to unsolicited viewport and
// theme updates from the host.
func New(b Bridge, table *compat.Table, opener URLOpener, logger log.Logger) *WebApp {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	w := &WebApp{
		bridge:  b,
		table:   table,
		opener:  opener,
		emitter: event.NewEmitter(),
		logger:  logger,
	}

	w.subs = append(w.subs,
		b.On(compat.EventViewportChanged, w.handleViewportEvent),
		b.On(compat.EventThemeChanged, w.handleThemeEvent),
	)

	return w
}

// Ready tells the host the app finished loading and may be displayed.
func (w *WebApp) Ready(ctx context.Context) error {
	return w.bridge.PostEvent(ctx, compat.MethodReady, nil)
}

// Expand asks the host to expand the app to maximum height.
func (w *WebApp) Expand(ctx context.Context) error {
	return w.bridge.PostEvent(ctx, compat.MethodExpand, nil)
}

// Close asks the host to close the app.
func (w *WebApp) Close(ctx context.Context) error {
	return w.bridge.PostEvent(ctx, compat.MethodClose, nil)
}

// Detach drops the component's standing host-event subscriptions.
func (w *WebApp) Detach() {
	for _, s := range w.subs {
		w.bridge.Off(s)
	}
	w.subs = nil
	w.emitter.Reset()
}

// SendData submits a payload to the host chat. The host rejects empty and
// oversized payloads, so both are refused here before any bridge call.
func (w *WebApp) SendData(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: sendData payload is empty", bridge.ErrInvalidArgument)
	}
	if len(data) > MaxSendDataBytes {
		return fmt.Errorf("%w: sendData payload is %d bytes, limit is %d",
			bridge.ErrInvalidArgument, len(data), MaxSendDataBytes)
	}
	return w.bridge.PostEvent(ctx, compat.MethodDataSend, map[string]interface{}{
		"data": string(data),
	})
}

// HeaderColor returns the last header color set locally.
func (w *WebApp) HeaderColor() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.HeaderColor
}

// BackgroundColor returns the last background color set locally.
func (w *WebApp) BackgroundColor() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.BackgroundColor
}

// SetHeaderColor changes the host-rendered header. Accepts the named keys
// every host understands, or a raw #RRGGBB value on hosts recent enough to
// honor it. On hosts without header coloring at all the call is a no-op.
func (w *WebApp) SetHeaderColor(ctx context.Context, color string) error {
	named := headerColorKeys[color]
	if !named && !hexColorRe.MatchString(color) {
		return fmt.Errorf("%w: header color %q is neither a color key nor #RRGGBB", bridge.ErrInvalidArgument, color)
	}

	if !w.table.Supports(compat.CapabilityHeaderColor) {
		w.logger.Warn(ctx, "Host does not support header color, ignoring", "color", color)
		return nil
	}
	if !named && !w.table.SupportsParam(compat.CapabilityHeaderColor, "color") {
		return fmt.Errorf("%w: raw header colors require host %s+", bridge.ErrUnsupported, "6.9")
	}

	payload := map[string]interface{}{}
	if named {
		payload["color_key"] = color
	} else {
		payload["color"] = color
	}
	if err := w.bridge.PostEvent(ctx, compat.MethodSetHeaderColor, payload); err != nil {
		return err
	}

	w.mu.Lock()
	w.state.HeaderColor = color
	w.mu.Unlock()

	w.notify(ctx, FieldHeaderColor, color)
	return nil
}

// SetBackgroundColor changes the app background.
func (w *WebApp) SetBackgroundColor(ctx context.Context, color string) error {
	if !hexColorRe.MatchString(color) {
		return fmt.Errorf("%w: background color %q is not #RRGGBB", bridge.ErrInvalidArgument, color)
	}
	if !w.table.Supports(compat.CapabilityBackgroundColor) {
		w.logger.Warn(ctx, "Host does not support background color, ignoring", "color", color)
		return nil
	}

	if err := w.bridge.PostEvent(ctx, compat.MethodSetBackgroundColor, map[string]interface{}{
		"color": color,
	}); err != nil {
		return err
	}

	w.mu.Lock()
	w.state.BackgroundColor = color
	w.mu.Unlock()

	w.notify(ctx, FieldBackgroundColor, color)
	return nil
}

// EnableClosingConfirmation asks the host to confirm before closing.
func (w *WebApp) EnableClosingConfirmation(ctx context.Context) error {
	return w.setClosingConfirmation(ctx, true)
}

// DisableClosingConfirmation removes the close confirmation.
func (w *WebApp) DisableClosingConfirmation(ctx context.Context) error {
	return w.setClosingConfirmation(ctx, false)
}

func (w *WebApp) setClosingConfirmation(ctx context.Context, on bool) error {
	if !w.table.Supports(compat.CapabilityClosingConfirmation) {
		w.logger.Warn(ctx, "Host does not support closing confirmation, ignoring")
		return nil
	}

	if err := w.bridge.PostEvent(ctx, compat.MethodSetupClosingBehavior, map[string]interface{}{
		"need_confirmation": on,
	}); err != nil {
		return err
	}

	w.mu.Lock()
	w.state.ClosingConfirm = on
	w.mu.Unlock()

	w.notify(ctx, FieldClosingConfirm, on)
	return nil
}

// SwitchInlineQuery inserts the query into the chat input on supported
// hosts.
func (w *WebApp) SwitchInlineQuery(ctx context.Context, query string, chatTypes []string) error {
	if len(query) > 256 {
		return fmt.Errorf("%w: inline query exceeds 256 characters", bridge.ErrInvalidArgument)
	}
	if !w.table.Supports(compat.CapabilitySwitchInlineQuery) {
		return fmt.Errorf("%w: switch_inline_query requires a newer host", bridge.ErrUnsupported)
	}

	return w.bridge.PostEvent(ctx, compat.MethodSwitchInlineQuery, map[string]interface{}{
		"query":      query,
		"chat_types": chatTypes,
	})
}

// OnChange registers a handler for local state changes.
func (w *WebApp) OnChange(handler event.Handler) event.Subscription {
	return w.emitter.On(event.WebAppChanged, handler)
}

// OffChange removes a change handler.
func (w *WebApp) OffChange(s event.Subscription) {
	w.emitter.Off(s)
}

func (w *WebApp) notify(ctx context.Context, field string, value interface{}) {
	w.emitter.Emit(ctx, event.New(event.WebAppChanged, map[string]interface{}{
		event.KeyField: field,
		event.KeyValue: value,
	}))
}

package webapp

import (
	"context"
	"fmt"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/compat"
	"github.com/miniappkit/miniappkit/sdk/event"
)

// Viewport is the host-reported geometry of the app window.
type Viewport struct {
	Height        float64 `json:"height"`
	Width         float64 `json:"width"`
	IsExpanded    bool    `json:"is_expanded"`
	IsStateStable bool    `json:"is_state_stable"`
}

// Popup button types the host renders.
const (
	PopupButtonDefault     = "default"
	PopupButtonOK          = "ok"
	PopupButtonClose       = "close"
	PopupButtonCancel      = "cancel"
	PopupButtonDestructive = "destructive"
)

// PopupButton is one button of a host popup.
type PopupButton struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// PopupParams describes a host popup. The host enforces the same bounds,
// so they are validated here before anything is posted.
type PopupParams struct {
	Title   string        `json:"title,omitempty"`
	Message string        `json:"message"`
	Buttons []PopupButton `json:"buttons"`
}

func (p PopupParams) validate() error {
	if len(p.Title) > 64 {
		return fmt.Errorf("%w: popup title exceeds 64 characters", bridge.ErrInvalidArgument)
	}
	if p.Message == "" || len(p.Message) > 256 {
		return fmt.Errorf("%w: popup message must be 1..256 characters", bridge.ErrInvalidArgument)
	}
	if len(p.Buttons) == 0 || len(p.Buttons) > 3 {
		return fmt.Errorf("%w: popup needs 1..3 buttons", bridge.ErrInvalidArgument)
	}
	return nil
}

// Viewport returns the last viewport reported by the host.
func (w *WebApp) Viewport() Viewport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Viewport
}

// RequestViewport asks the host for its current geometry and blocks until
// the next viewport report arrives. The report also refreshes the cached
// viewport.
func (w *WebApp) RequestViewport(ctx context.Context) (Viewport, error) {
	raw, err := w.bridge.Request(ctx, bridge.RequestParams{
		Method:        compat.MethodRequestViewport,
		ResponseEvent: compat.EventViewportChanged,
		Capture:       bridge.CaptureFirst(),
	})
	if err != nil {
		return Viewport{}, err
	}

	var vp Viewport
	if err := json.Unmarshal(raw, &vp); err != nil {
		return Viewport{}, fmt.Errorf("decode viewport_changed payload: %w", err)
	}
	return vp, nil
}

// ReadTextFromClipboard asks the host for its clipboard text. Gated both by
// version and by per-platform overrides where the host is known to never
// answer.
func (w *WebApp) ReadTextFromClipboard(ctx context.Context) (string, error) {
	if !w.table.Supports(compat.CapabilityClipboardRead) {
		return "", fmt.Errorf("%w: clipboard read is unavailable on %s %s",
			bridge.ErrUnsupported, w.table.Platform(), w.table.Version())
	}

	raw, err := w.bridge.Request(ctx, bridge.RequestParams{
		Method:        compat.MethodReadTextFromClipboard,
		ResponseEvent: compat.EventClipboardTextReceived,
	})
	if err != nil {
		return "", err
	}

	var received struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(raw, &received); err != nil {
		return "", fmt.Errorf("decode clipboard_text_received payload: %w", err)
	}
	return received.Data, nil
}

// ShowPopup displays a host popup and blocks until it is dismissed.
// Returns the pressed button id, or the empty string when the popup was
// dismissed without a button press.
func (w *WebApp) ShowPopup(ctx context.Context, params PopupParams) (string, error) {
	if err := params.validate(); err != nil {
		return "", err
	}
	if !w.table.Supports(compat.CapabilityPopup) {
		return "", fmt.Errorf("%w: popups require host %s+", bridge.ErrUnsupported, "6.2")
	}

	raw, err := w.bridge.Request(ctx, bridge.RequestParams{
		Method:        compat.MethodOpenPopup,
		Payload:       map[string]interface{}{"title": params.Title, "message": params.Message, "buttons": params.Buttons},
		ResponseEvent: compat.EventPopupClosed,
		Capture:       bridge.CaptureFirst(),
	})
	if err != nil {
		return "", err
	}

	var closed struct {
		ButtonID string `json:"button_id"`
	}
	if err := json.Unmarshal(raw, &closed); err != nil {
		return "", fmt.Errorf("decode popup_closed payload: %w", err)
	}
	return closed.ButtonID, nil
}

// handleViewportEvent refreshes the cached viewport on every host report,
// solicited or not, and re-emits the update as a local change.
func (w *WebApp) handleViewportEvent(ctx context.Context, e event.Event) {
	var vp Viewport
	if err := json.Unmarshal(e.Payload, &vp); err != nil {
		w.logger.Warn(ctx, "Discarding malformed viewport report", "error", err)
		return
	}

	w.mu.Lock()
	w.state.Viewport = vp
	w.mu.Unlock()

	w.notify(ctx, FieldViewport, vp)
}

package webapp

import (
	"context"
	"fmt"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/compat"
	"github.com/miniappkit/miniappkit/sdk/event"
)

// ThemeParams is the host color scheme in #RRGGBB values.
type ThemeParams struct {
	BgColor          string `json:"bg_color,omitempty"`
	TextColor        string `json:"text_color,omitempty"`
	HintColor        string `json:"hint_color,omitempty"`
	LinkColor        string `json:"link_color,omitempty"`
	ButtonColor      string `json:"button_color,omitempty"`
	ButtonTextColor  string `json:"button_text_color,omitempty"`
	SecondaryBgColor string `json:"secondary_bg_color,omitempty"`
}

// Theme returns the last theme reported by the host.
func (w *WebApp) Theme() ThemeParams {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Theme
}

// RequestTheme asks the host for its current color scheme and blocks until
// the next theme report arrives. The report also refreshes the cached
// theme.
func (w *WebApp) RequestTheme(ctx context.Context) (ThemeParams, error) {
	raw, err := w.bridge.Request(ctx, bridge.RequestParams{
		Method:        compat.MethodRequestTheme,
		ResponseEvent: compat.EventThemeChanged,
		Capture:       bridge.CaptureFirst(),
	})
	if err != nil {
		return ThemeParams{}, err
	}

	var report themeReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return ThemeParams{}, fmt.Errorf("decode theme_changed payload: %w", err)
	}
	return report.ThemeParams, nil
}

type themeReport struct {
	ThemeParams ThemeParams `json:"theme_params"`
}

// handleThemeEvent refreshes the cached theme on every host report and
// re-emits the update as a local change.
func (w *WebApp) handleThemeEvent(ctx context.Context, e event.Event) {
	var report themeReport
	if err := json.Unmarshal(e.Payload, &report); err != nil {
		w.logger.Warn(ctx, "Discarding malformed theme report", "error", err)
		return
	}

	w.mu.Lock()
	w.state.Theme = report.ThemeParams
	w.mu.Unlock()

	w.notify(ctx, FieldTheme, report.ThemeParams)
}

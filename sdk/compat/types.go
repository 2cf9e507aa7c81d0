package compat

// Capability identifies a gated unit of host functionality. Capabilities are
// a closed enumeration; availability is resolved against the host version
// through a Table rather than by string lookup at call sites.
type Capability string

const (
	CapabilityMainButton          Capability = "main_button"
	CapabilityBackButton          Capability = "back_button"
	CapabilitySendData            Capability = "send_data"
	CapabilityOpenLink            Capability = "open_link"
	CapabilityOpenInvoice         Capability = "open_invoice"
	CapabilityHeaderColor         Capability = "header_color"
	CapabilityBackgroundColor     Capability = "background_color"
	CapabilityClosingConfirmation Capability = "closing_confirmation"
	CapabilityPopup               Capability = "popup"
	CapabilityClipboardRead       Capability = "clipboard_read"
	CapabilitySwitchInlineQuery   Capability = "switch_inline_query"
	CapabilityHapticFeedback      Capability = "haptic_feedback"
	CapabilityViewport            Capability = "viewport"
	CapabilityTheme               Capability = "theme"
)

// Descriptor maps a capability to the bridge methods it requires and the
// minimum host version that honors them. Immutable after table construction.
type Descriptor struct {
	Methods    []string `mapstructure:"methods" yaml:"methods"`
	MinVersion string   `mapstructure:"min_version" yaml:"min_version"`
}

// Override marks a method as known-unsupported for a specific platform and
// version pair even though the version gate would pass.
type Override struct {
	Platform string `mapstructure:"platform" yaml:"platform"`
	Version  string `mapstructure:"version" yaml:"version"`
	Method   string `mapstructure:"method" yaml:"method"`
}

// Bridge method names used by the SDK.
const (
	MethodSetupMainButton       = "web_app_setup_main_button"
	MethodSetupBackButton       = "web_app_setup_back_button"
	MethodDataSend              = "web_app_data_send"
	MethodOpenLink              = "web_app_open_link"
	MethodOpenInvoice           = "web_app_open_invoice"
	MethodSetHeaderColor        = "web_app_set_header_color"
	MethodSetBackgroundColor    = "web_app_set_background_color"
	MethodSetupClosingBehavior  = "web_app_setup_closing_behavior"
	MethodOpenPopup             = "web_app_open_popup"
	MethodReadTextFromClipboard = "web_app_read_text_from_clipboard"
	MethodSwitchInlineQuery     = "web_app_switch_inline_query"
	MethodTriggerHapticFeedback = "web_app_trigger_haptic_feedback"
	MethodRequestViewport       = "web_app_request_viewport"
	MethodRequestTheme          = "web_app_request_theme"
	MethodReady                 = "web_app_ready"
	MethodExpand                = "web_app_expand"
	MethodClose                 = "web_app_close"
)

// Incoming event names delivered by the host.
const (
	EventMainButtonPressed     = "main_button_pressed"
	EventBackButtonPressed     = "back_button_pressed"
	EventInvoiceClosed         = "invoice_closed"
	EventPopupClosed           = "popup_closed"
	EventClipboardTextReceived = "clipboard_text_received"
	EventViewportChanged       = "viewport_changed"
	EventThemeChanged          = "theme_changed"
)

// defaultDescriptors is the built-in compatibility table. Methods absent
// from the table are treated as baseline functionality available on every
// host version.
var defaultDescriptors = map[Capability]Descriptor{
	CapabilityMainButton:          {Methods: []string{MethodSetupMainButton}, MinVersion: "6.0"},
	CapabilityBackButton:          {Methods: []string{MethodSetupBackButton}, MinVersion: "6.1"},
	CapabilitySendData:            {Methods: []string{MethodDataSend}, MinVersion: "6.0"},
	CapabilityOpenLink:            {Methods: []string{MethodOpenLink}, MinVersion: "6.0"},
	CapabilityOpenInvoice:         {Methods: []string{MethodOpenInvoice}, MinVersion: "6.1"},
	CapabilityHeaderColor:         {Methods: []string{MethodSetHeaderColor}, MinVersion: "6.1"},
	CapabilityBackgroundColor:     {Methods: []string{MethodSetBackgroundColor}, MinVersion: "6.1"},
	CapabilityClosingConfirmation: {Methods: []string{MethodSetupClosingBehavior}, MinVersion: "6.2"},
	CapabilityPopup:               {Methods: []string{MethodOpenPopup}, MinVersion: "6.2"},
	CapabilityClipboardRead:       {Methods: []string{MethodReadTextFromClipboard}, MinVersion: "6.4"},
	CapabilitySwitchInlineQuery:   {Methods: []string{MethodSwitchInlineQuery}, MinVersion: "6.7"},
	CapabilityHapticFeedback:      {Methods: []string{MethodTriggerHapticFeedback}, MinVersion: "6.1"},
	CapabilityViewport:            {Methods: []string{MethodRequestViewport}, MinVersion: "6.0"},
	CapabilityTheme:               {Methods: []string{MethodRequestTheme}, MinVersion: "6.0"},
}

// defaultParams gates optional payload fields that older hosts silently
// ignore. Keyed by capability, then parameter name, to minimum version.
var defaultParams = map[Capability]map[string]string{
	CapabilityHeaderColor: {
		// Raw "#RRGGBB" values; older hosts only accept named color keys.
		"color": "6.9",
	},
	CapabilityOpenLink: {
		"try_instant_view": "6.4",
	},
}

// defaultOverrides lists platform/version pairs where a method is known to
// be broken despite passing the version gate.
var defaultOverrides = []Override{
	{Platform: "macos", Version: "6.4", Method: MethodReadTextFromClipboard},
}

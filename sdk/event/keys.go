package event

// DataKey defines standard keys used in event data
type DataKey = string

const (
	// State-change event keys
	KeyField DataKey = "field"
	KeyValue DataKey = "value"

	// Common data keys
	KeyError   DataKey = "error"
	KeyMessage DataKey = "message"

	// Navigation event keys
	KeyIndex   DataKey = "index"
	KeyPath    DataKey = "path"
	KeyEntries DataKey = "entries"
)

// Change event names emitted by stateful components.
const (
	MainButtonChanged = "main_button.changed"
	WebAppChanged     = "web_app.changed"
	ThemeChanged      = "theme.changed"
	HistoryChanged    = "history.changed"
)

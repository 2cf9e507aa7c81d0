// Package navigator implements the in-memory navigation history of an
// embedded app: an ordered entry stack with a cursor, change notifications
// and a persistable snapshot.
package navigator

import (
	"context"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/miniappkit/miniappkit/sdk/event"
	"github.com/miniappkit/miniappkit/sdk/log"
	"github.com/miniappkit/miniappkit/sdk/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry is one history position.
type Entry struct {
	Path  string              `json:"path"`
	State jsoniter.RawMessage `json:"state,omitempty"`
}

// snapshot is the persisted wire form, captured and restored verbatim.
type snapshot struct {
	Index   int     `json:"index"`
	History []Entry `json:"history"`
}

// Navigator owns the entry stack. The cursor always satisfies
// 0 <= index < len(entries); the stack is never empty.
type Navigator struct {
	mu      sync.Mutex
	entries []Entry
	index   int
	emitter *event.Emitter
	logger  log.Logger
}

// New creates a navigator with a single-entry history.
func New(initial Entry, logger log.Logger) *Navigator {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Navigator{
		entries: []Entry{initial},
		emitter: event.NewEmitter(),
		logger:  logger,
	}
}

// Restore rebuilds a navigator from the snapshot stored under key. A
// missing, unreadable or inconsistent snapshot falls back to a single-entry
// history seeded with fallback; that recovery is local and never surfaced.
func Restore(ctx context.Context, store storage.Store, key string, fallback Entry, logger log.Logger) *Navigator {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	raw, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		if err != nil {
			logger.Warn(ctx, "Reading persisted history failed, deriving fresh history",
				"key", key, "error", err)
		}
		return New(fallback, logger)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		logger.Warn(ctx, "Persisted history is malformed, deriving fresh history",
			"key", key, "error", err)
		return New(fallback, logger)
	}
	if len(snap.History) == 0 || snap.Index < 0 || snap.Index >= len(snap.History) {
		logger.Warn(ctx, "Persisted history is inconsistent, deriving fresh history",
			"key", key, "index", snap.Index, "entries", len(snap.History))
		return New(fallback, logger)
	}

	return &Navigator{
		entries: snap.History,
		index:   snap.Index,
		emitter: event.NewEmitter(),
		logger:  logger,
	}
}

// OnChange registers a handler invoked after every history mutation.
func (n *Navigator) OnChange(handler event.Handler) event.Subscription {
	return n.emitter.On(event.HistoryChanged, handler)
}

// Off removes a change handler.
func (n *Navigator) Off(s event.Subscription) {
	n.emitter.Off(s)
}

// Detach drops every change handler. The history itself stays usable.
func (n *Navigator) Detach() {
	n.emitter.Reset()
}

// Push truncates any forward history, appends the entry and advances the
// cursor onto it.
func (n *Navigator) Push(ctx context.Context, e Entry) {
	n.mu.Lock()
	n.entries = append(n.entries[:n.index+1:n.index+1], e)
	n.index = len(n.entries) - 1
	n.mu.Unlock()

	n.notify(ctx)
}

// Replace overwrites the current entry in place.
func (n *Navigator) Replace(ctx context.Context, e Entry) {
	n.mu.Lock()
	n.entries[n.index] = e
	n.mu.Unlock()

	n.notify(ctx)
}

// Back moves the cursor one entry backwards. Reports false, without
// emitting, when already at the oldest entry.
func (n *Navigator) Back(ctx context.Context) bool {
	return n.Go(ctx, -1)
}

// Forward moves the cursor one entry forwards. Reports false, without
// emitting, when already at the newest entry.
func (n *Navigator) Forward(ctx context.Context) bool {
	return n.Go(ctx, 1)
}

// Go moves the cursor by delta entries. Out-of-bounds moves are rejected
// outright rather than clamped.
func (n *Navigator) Go(ctx context.Context, delta int) bool {
	n.mu.Lock()
	target := n.index + delta
	if delta == 0 || target < 0 || target >= len(n.entries) {
		n.mu.Unlock()
		return false
	}
	n.index = target
	n.mu.Unlock()

	n.notify(ctx)
	return true
}

// Current returns the entry under the cursor.
func (n *Navigator) Current() Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.entries[n.index]
}

// Index returns the cursor position.
func (n *Navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

// Len returns the number of history entries.
func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entries)
}

// Snapshot serializes the verbatim {index, history} state for persistence.
func (n *Navigator) Snapshot() ([]byte, error) {
	n.mu.Lock()
	snap := snapshot{Index: n.index, History: append([]Entry(nil), n.entries...)}
	n.mu.Unlock()

	return json.Marshal(snap)
}

func (n *Navigator) notify(ctx context.Context) {
	n.mu.Lock()
	data := map[string]interface{}{
		event.KeyIndex:   n.index,
		event.KeyPath:    n.entries[n.index].Path,
		event.KeyEntries: len(n.entries),
	}
	n.mu.Unlock()

	n.emitter.Emit(ctx, event.New(event.HistoryChanged, data))
}

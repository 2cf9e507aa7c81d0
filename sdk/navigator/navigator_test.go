package navigator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miniappkit/miniappkit/sdk/event"
	"github.com/miniappkit/miniappkit/sdk/navigator"
	"github.com/miniappkit/miniappkit/sdk/storage"
)

func TestPushAfterBackTruncatesForwardHistory(t *testing.T) {
	ctx := context.Background()
	nav := navigator.New(navigator.Entry{Path: "/"}, nil)

	nav.Push(ctx, navigator.Entry{Path: "/a"})
	nav.Push(ctx, navigator.Entry{Path: "/b"})
	require.Equal(t, 3, nav.Len())

	require.True(t, nav.Back(ctx))
	assert.Equal(t, "/a", nav.Current().Path)

	nav.Push(ctx, navigator.Entry{Path: "/c"})

	assert.Equal(t, 3, nav.Len(), "push must drop the truncated forward entry")
	assert.Equal(t, "/c", nav.Current().Path)
	assert.Equal(t, 2, nav.Index())

	// The old forward entry is unreachable.
	require.False(t, nav.Forward(ctx))
}

func TestBackAtOldestEntryIsNoop(t *testing.T) {
	ctx := context.Background()
	nav := navigator.New(navigator.Entry{Path: "/"}, nil)

	moved := 0
	nav.OnChange(func(ctx context.Context, e event.Event) {
		moved++
	})

	assert.False(t, nav.Back(ctx))
	assert.Zero(t, moved, "boundary no-op must not emit a change")
	assert.Equal(t, 0, nav.Index())
}

func TestForwardAtNewestEntryIsNoop(t *testing.T) {
	ctx := context.Background()
	nav := navigator.New(navigator.Entry{Path: "/"}, nil)
	nav.Push(ctx, navigator.Entry{Path: "/a"})

	assert.False(t, nav.Forward(ctx))
	assert.Equal(t, 1, nav.Index())
}

func TestReplaceKeepsLengthAndIndex(t *testing.T) {
	ctx := context.Background()
	nav := navigator.New(navigator.Entry{Path: "/"}, nil)
	nav.Push(ctx, navigator.Entry{Path: "/a"})

	nav.Replace(ctx, navigator.Entry{Path: "/replaced"})

	assert.Equal(t, 2, nav.Len())
	assert.Equal(t, 1, nav.Index())
	assert.Equal(t, "/replaced", nav.Current().Path)
}

func TestChangeEventsCarryPosition(t *testing.T) {
	ctx := context.Background()
	nav := navigator.New(navigator.Entry{Path: "/"}, nil)

	var got []event.Event
	nav.OnChange(func(ctx context.Context, e event.Event) {
		got = append(got, e)
	})

	nav.Push(ctx, navigator.Entry{Path: "/a"})
	require.True(t, nav.Back(ctx))

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Data[event.KeyIndex])
	assert.Equal(t, "/a", got[0].Data[event.KeyPath])
	assert.Equal(t, 0, got[1].Data[event.KeyIndex])
	assert.Equal(t, "/", got[1].Data[event.KeyPath])
}

func TestRestoreValidSnapshot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(time.Minute)

	require.NoError(t, store.Put(ctx, "nav",
		[]byte(`{"index":1,"history":[{"path":"/a"},{"path":"/b"},{"path":"/c"}]}`)))

	nav := navigator.Restore(ctx, store, "nav", navigator.Entry{Path: "/fallback"}, nil)

	assert.Equal(t, 3, nav.Len())
	assert.Equal(t, 1, nav.Index())
	assert.Equal(t, "/b", nav.Current().Path)
}

func TestRestoreMalformedSnapshotFallsBack(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "corrupted_text", raw: `{"index": garbage`},
		{name: "empty_history", raw: `{"index":0,"history":[]}`},
		{name: "index_out_of_range", raw: `{"index":5,"history":[{"path":"/a"}]}`},
		{name: "negative_index", raw: `{"index":-1,"history":[{"path":"/a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore(time.Minute)
			require.NoError(t, store.Put(ctx, "nav", []byte(tt.raw)))

			nav := navigator.Restore(ctx, store, "nav", navigator.Entry{Path: "/current"}, nil)

			assert.Equal(t, 1, nav.Len())
			assert.Equal(t, 0, nav.Index())
			assert.Equal(t, "/current", nav.Current().Path)
		})
	}
}

func TestRestoreMissingSnapshotFallsBack(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(time.Minute)

	nav := navigator.Restore(ctx, store, "nav", navigator.Entry{Path: "/current"}, nil)

	assert.Equal(t, 1, nav.Len())
	assert.Equal(t, "/current", nav.Current().Path)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(time.Minute)

	nav := navigator.New(navigator.Entry{Path: "/"}, nil)
	nav.Push(ctx, navigator.Entry{Path: "/a", State: []byte(`{"scroll":10}`)})
	require.True(t, nav.Back(ctx))

	snap, err := nav.Snapshot()
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "nav", snap))

	restored := navigator.Restore(ctx, store, "nav", navigator.Entry{Path: "/fallback"}, nil)

	assert.Equal(t, 2, restored.Len())
	assert.Equal(t, 0, restored.Index())
	assert.Equal(t, "/", restored.Current().Path)
	require.True(t, restored.Forward(ctx))
	assert.Equal(t, "/a", restored.Current().Path)
	assert.JSONEq(t, `{"scroll":10}`, string(restored.Current().State))
}

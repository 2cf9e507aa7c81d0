package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miniappkit/miniappkit/sdk/storage"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(time.Minute)

	_, ok, err := store.Get(ctx, "nav")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "nav", []byte(`{"index":0}`)))

	value, ok, err := store.Get(ctx, "nav")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"index":0}`, string(value))

	require.NoError(t, store.Delete(ctx, "nav"))
	_, ok, err = store.Get(ctx, "nav")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreCopiesValue(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(time.Minute)

	buf := []byte("original")
	require.NoError(t, store.Put(ctx, "k", buf))
	buf[0] = 'X'

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", string(value))

	// Mutating a returned value must not corrupt the cached snapshot.
	value[0] = 'Y'
	again, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", string(again))
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := storage.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get(ctx, "nav")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "nav", []byte(`{"index":1}`)))

	// Upsert overwrites in place.
	require.NoError(t, store.Put(ctx, "nav", []byte(`{"index":2}`)))

	value, ok, err := store.Get(ctx, "nav")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"index":2}`, string(value))

	require.NoError(t, store.Delete(ctx, "nav"))
	_, ok, err = store.Get(ctx, "nav")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := storage.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "nav", []byte(`{"index":1}`)))
	require.NoError(t, store.Close())

	reopened, err := storage.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "nav")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"index":1}`, string(value))
}

package miniapp_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miniappkit/miniappkit/sdk/compat"
	"github.com/miniappkit/miniappkit/sdk/config"
	"github.com/miniappkit/miniappkit/sdk/event"
	"github.com/miniappkit/miniappkit/sdk/miniapp"
	"github.com/miniappkit/miniappkit/sdk/navigator"
	"github.com/miniappkit/miniappkit/sdk/net"
	"github.com/miniappkit/miniappkit/sdk/storage"
)

func testConfig(platform, version string) config.Config {
	var cfg config.Config
	cfg.Platform = platform
	cfg.Version = version
	cfg.Bridge.Transport = "loopback"
	cfg.Storage.Driver = "memory"
	cfg.Storage.SessionKey = "navigation"
	return cfg
}

func TestNewClientWiresComponents(t *testing.T) {
	ctx := context.Background()

	client, err := miniapp.NewClient(ctx, testConfig("ios", "7.0"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close(ctx)
	})

	assert.NotNil(t, client.MainButton())
	assert.NotNil(t, client.WebApp())
	assert.NotNil(t, client.Navigator())
	assert.True(t, client.Supports(compat.CapabilityOpenInvoice))
	assert.True(t, client.Supports(compat.CapabilitySwitchInlineQuery))
}

func TestSupportsReflectsHostVersion(t *testing.T) {
	ctx := context.Background()

	client, err := miniapp.NewClient(ctx, testConfig("ios", "6.0"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close(ctx)
	})

	assert.True(t, client.Supports(compat.CapabilityMainButton))
	assert.False(t, client.Supports(compat.CapabilityOpenInvoice))
	assert.False(t, client.Supports(compat.CapabilityPopup))
}

func TestNavigationSurvivesClientRestart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(time.Minute)
	cfg := testConfig("ios", "7.0")

	client, err := miniapp.NewClient(ctx, cfg, nil, miniapp.WithStore(store))
	require.NoError(t, err)

	client.Navigator().Push(ctx, navigator.Entry{Path: "/settings"})
	client.Navigator().Push(ctx, navigator.Entry{Path: "/settings/profile"})
	require.True(t, client.Navigator().Back(ctx))
	require.NoError(t, client.Close(ctx))

	restarted, err := miniapp.NewClient(ctx, cfg, nil, miniapp.WithStore(store))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = restarted.Close(ctx)
	})

	assert.Equal(t, 3, restarted.Navigator().Len())
	assert.Equal(t, 1, restarted.Navigator().Index())
	assert.Equal(t, "/settings", restarted.Navigator().Current().Path)
}

func TestSubscribeToAllEventsReceivesHostEvents(t *testing.T) {
	ctx := context.Background()
	loopback := net.NewLoopback()

	client, err := miniapp.NewClient(ctx, testConfig("ios", "7.0"), nil, miniapp.WithTransport(loopback))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close(ctx)
	})

	names := make(chan string, 2)
	client.SubscribeToAllEvents(func(ctx context.Context, e event.Event) {
		names <- e.Name
	})

	loopback.EmitIncoming("viewport_changed", []byte(`{"height":480}`))
	loopback.EmitIncoming("custom_host_event", nil)

	for _, want := range []string{"viewport_changed", "custom_host_event"} {
		select {
		case got := <-names:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("%s never delivered", want)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	loopback := net.NewLoopback()

	client, err := miniapp.NewClient(ctx, testConfig("ios", "7.0"), nil, miniapp.WithTransport(loopback))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close(ctx)
	})

	received := make(chan struct{}, 2)
	sub := client.SubscribeToEvents("custom_host_event", func(ctx context.Context, e event.Event) {
		received <- struct{}{}
	})

	loopback.EmitIncoming("custom_host_event", nil)
	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}

	client.Unsubscribe(sub)
	loopback.EmitIncoming("custom_host_event", nil)

	select {
	case <-received:
		t.Fatal("event delivered after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseDetachesComponentSubscriptions(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(time.Minute)
	cfg := testConfig("ios", "7.0")

	client, err := miniapp.NewClient(ctx, cfg, nil, miniapp.WithStore(store))
	require.NoError(t, err)

	navChanges := 0
	client.Navigator().OnChange(func(ctx context.Context, e event.Event) {
		navChanges++
	})
	buttonChanges := 0
	client.MainButton().OnChange(func(ctx context.Context, e event.Event) {
		buttonChanges++
	})

	client.Navigator().Push(ctx, navigator.Entry{Path: "/a"})
	require.Equal(t, 1, navChanges)
	require.NoError(t, client.Close(ctx))

	client.Navigator().Push(ctx, navigator.Entry{Path: "/b"})
	assert.Equal(t, 1, navChanges, "change handlers must not survive Close")
	assert.Zero(t, buttonChanges)

	// Without the persistence handler the post-Close push never lands.
	snap, ok, err := store.Get(ctx, "navigation")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(snap), "/b")
}

func TestNewClientLoadsCompatExtensionFile(t *testing.T) {
	ctx := context.Background()

	raw := "unsupported:\n  - platform: ios\n    version: \"7.0\"\n    method: web_app_open_popup\n"
	path := filepath.Join(t.TempDir(), "compat.yml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg := testConfig("ios", "7.0")
	cfg.CompatFile = path

	client, err := miniapp.NewClient(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close(ctx)
	})

	assert.False(t, client.Supports(compat.CapabilityPopup), "extension file must mark the popup method broken on this host")
	assert.True(t, client.Supports(compat.CapabilityMainButton))
}

func TestNewClientRejectsUnreadableCompatFile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("ios", "7.0")
	cfg.CompatFile = filepath.Join(t.TempDir(), "absent.yml")

	_, err := miniapp.NewClient(ctx, cfg, nil)
	require.Error(t, err)
}

func TestNewClientRejectsUnknownTransport(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("ios", "7.0")
	cfg.Bridge.Transport = "carrier-pigeon"

	_, err := miniapp.NewClient(ctx, cfg, nil)
	require.Error(t, err)
}

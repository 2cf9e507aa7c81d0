// Package miniapp assembles the SDK: transport, bridge, capability table,
// session storage and the stateful components, behind one client facade.
package miniapp

import (
	"context"
	"fmt"
	"io"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/compat"
	"github.com/miniappkit/miniappkit/sdk/config"
	"github.com/miniappkit/miniappkit/sdk/event"
	"github.com/miniappkit/miniappkit/sdk/log"
	"github.com/miniappkit/miniappkit/sdk/mainbutton"
	"github.com/miniappkit/miniappkit/sdk/navigator"
	"github.com/miniappkit/miniappkit/sdk/net"
	"github.com/miniappkit/miniappkit/sdk/storage"
	"github.com/miniappkit/miniappkit/sdk/webapp"
)

// Client is the app-facing SDK entry point.
type Client interface {
	MainButton() *mainbutton.MainButton

	WebApp() *webapp.WebApp

	Navigator() *navigator.Navigator

	// Supports reports capability availability on the current host.
	Supports(c compat.Capability) bool

	// SubscribeToEvents registers a handler for one host event name.
	SubscribeToEvents(name string, handler event.Handler) event.Subscription

	// SubscribeToAllEvents registers a handler for every host event.
	SubscribeToAllEvents(handler event.Handler) event.Subscription

	Unsubscribe(s event.Subscription)

	// Close persists the navigation state and shuts the bridge down.
	Close(ctx context.Context) error
}

// ClientImpl wires the SDK components together.
type ClientImpl struct {
	config     config.Config
	bridge     *bridge.Bridge
	table      *compat.Table
	store      storage.Store
	mainButton *mainbutton.MainButton
	webApp     *webapp.WebApp
	navigator  *navigator.Navigator
	logger     log.Logger
}

var _ Client = (*ClientImpl)(nil)

// Option customizes client construction.
type Option func(*options)

type options struct {
	transport bridge.Transport
	store     storage.Store
	opener    webapp.URLOpener
}

// WithTransport bypasses the transport factory, mostly for tests.
func WithTransport(t bridge.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithStore bypasses the storage factory.
func WithStore(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

// WithURLOpener sets the legacy link fallback.
func WithURLOpener(opener webapp.URLOpener) Option {
	return func(o *options) { o.opener = opener }
}

// NewClient builds a client from the session configuration. The navigation
// history is restored from storage when a usable snapshot exists.
func NewClient(ctx context.Context, cfg config.Config, logger log.Logger, opts ...Option) (Client, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	transport := o.transport
	if transport == nil {
		var err error
		transport, err = net.NewTransport(ctx, net.FactoryConfig{
			Kind:     cfg.Bridge.Transport,
			Endpoint: cfg.Bridge.Endpoint,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create transport: %w", err)
		}
	}

	store := o.store
	if store == nil {
		var err error
		store, err = newStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create session store: %w", err)
		}
	}

	table, err := newTable(cfg)
	if err != nil {
		return nil, err
	}

	b := bridge.New(transport, logger)

	c := &ClientImpl{
		config:     cfg,
		bridge:     b,
		table:      table,
		store:      store,
		mainButton: mainbutton.New(b, logger),
		webApp:     webapp.New(b, table, o.opener, logger),
		logger:     logger,
	}

	c.navigator = navigator.Restore(ctx, store, cfg.Storage.SessionKey, navigator.Entry{Path: "/"}, logger)
	c.navigator.OnChange(func(ctx context.Context, e event.Event) {
		c.persistHistory(ctx)
	})

	logger.Info(ctx, "Client initialized",
		"platform", cfg.Platform,
		"version", cfg.Version,
		"transport", cfg.Bridge.Transport,
		"storage", cfg.Storage.Driver,
	)
	return c, nil
}

func newStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return storage.NewSQLiteStore(ctx, cfg.Storage.Path)
	case "memory":
		return storage.NewMemoryStore(0), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func newTable(cfg config.Config) (*compat.Table, error) {
	var opts []compat.Option
	if cfg.CompatFile != "" {
		tableCfg, err := compat.LoadTableConfig(cfg.CompatFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load compatibility table: %w", err)
		}
		opts = tableCfg.Options()
	}
	return compat.NewTable(cfg.Platform, cfg.Version, opts...), nil
}

func (c *ClientImpl) MainButton() *mainbutton.MainButton {
	return c.mainButton
}

func (c *ClientImpl) WebApp() *webapp.WebApp {
	return c.webApp
}

func (c *ClientImpl) Navigator() *navigator.Navigator {
	return c.navigator
}

func (c *ClientImpl) Supports(capability compat.Capability) bool {
	return c.table.Supports(capability)
}

// SubscribeToEvents registers a handler for one host event name.
func (c *ClientImpl) SubscribeToEvents(name string, handler event.Handler) event.Subscription {
	c.logger.Debug(context.Background(), "Subscribing to host events", "name", name)
	return c.bridge.On(name, handler)
}

// SubscribeToAllEvents registers a handler for every host event.
func (c *ClientImpl) SubscribeToAllEvents(handler event.Handler) event.Subscription {
	c.logger.Debug(context.Background(), "Subscribing to all host events")
	return c.bridge.OnAll(handler)
}

func (c *ClientImpl) Unsubscribe(s event.Subscription) {
	c.bridge.Off(s)
}

// persistHistory writes the current navigation snapshot. Persistence
// failures are logged and swallowed so navigation itself never fails.
func (c *ClientImpl) persistHistory(ctx context.Context) {
	snap, err := c.navigator.Snapshot()
	if err != nil {
		c.logger.Warn(ctx, "Failed to serialize navigation history", "error", err)
		return
	}
	if err := c.store.Put(ctx, c.config.Storage.SessionKey, snap); err != nil {
		c.logger.Warn(ctx, "Failed to persist navigation history", "error", err)
	}
}

// Close persists the final navigation state, detaches the components and
// shuts the bridge down.
func (c *ClientImpl) Close(ctx context.Context) error {
	c.persistHistory(ctx)
	c.webApp.Detach()
	c.mainButton.Detach()
	c.navigator.Detach()

	err := c.bridge.Close(ctx)

	if closer, ok := c.store.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

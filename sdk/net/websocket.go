package net

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/log"
)

// WebsocketConfig configures the websocket transport.
type WebsocketConfig struct {
	// URL of the host bridge endpoint, e.g. wss://host/bridge.
	URL string

	// HandshakeTimeout bounds the initial dial. Zero selects 10s.
	HandshakeTimeout time.Duration

	// MaxReconnectElapsed bounds the reconnect loop after a dropped
	// connection. Zero selects 1 minute.
	MaxReconnectElapsed time.Duration
}

// WebsocketTransport carries bridge envelopes as JSON text frames over a
// single websocket connection, reconnecting with exponential backoff when
// the host drops it.
type WebsocketTransport struct {
	cfg    WebsocketConfig
	logger log.Logger

	writeMu sync.Mutex
	conn    *websocket.Conn

	events    chan bridge.Envelope
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ bridge.Transport = (*WebsocketTransport)(nil)

// NewWebsocketTransport dials the host and starts the read loop.
func NewWebsocketTransport(ctx context.Context, cfg WebsocketConfig, logger log.Logger) (*WebsocketTransport, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if cfg.URL == "" {
		return nil, errors.New("websocket transport: empty URL")
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.MaxReconnectElapsed <= 0 {
		cfg.MaxReconnectElapsed = time.Minute
	}

	t := &WebsocketTransport{
		cfg:    cfg,
		logger: logger,
		events: make(chan bridge.Envelope, 64),
		done:   make(chan struct{}),
	}

	conn, err := t.dial(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "websocket transport: dial %s", cfg.URL)
	}
	t.conn = conn

	t.wg.Add(1)
	go t.readLoop()

	return t, nil
}

func (t *WebsocketTransport) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: t.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, t.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	t.logger.Info(ctx, "Connected to host bridge", "url", t.cfg.URL)
	return conn, nil
}

// readLoop pumps frames into the event stream and reconnects on failure.
func (t *WebsocketTransport) readLoop() {
	defer t.wg.Done()
	defer close(t.events)

	ctx := context.Background()
	for {
		t.writeMu.Lock()
		conn := t.conn
		t.writeMu.Unlock()

		var env bridge.Envelope
		err := conn.ReadJSON(&env)
		if err == nil {
			select {
			case t.events <- env:
			case <-t.done:
				return
			}
			continue
		}

		select {
		case <-t.done:
			return
		default:
		}

		t.logger.Warn(ctx, "Bridge connection lost, reconnecting", "error", err)
		if reconnectErr := t.reconnect(ctx); reconnectErr != nil {
			t.logger.Error(ctx, "Bridge reconnect failed permanently", "error", reconnectErr)
			return
		}
	}
}

// reconnect re-dials with exponential backoff until MaxReconnectElapsed.
func (t *WebsocketTransport) reconnect(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = t.cfg.MaxReconnectElapsed

	return backoff.Retry(func() error {
		select {
		case <-t.done:
			return backoff.Permanent(errors.New("transport closed"))
		default:
		}

		conn, err := t.dial(ctx)
		if err != nil {
			return err
		}
		t.writeMu.Lock()
		t.conn = conn
		t.writeMu.Unlock()
		return nil
	}, backoff.WithContext(policy, ctx))
}

// Post writes one outbound envelope. Fails when the connection is gone.
func (t *WebsocketTransport) Post(_ context.Context, name string, payload []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	select {
	case <-t.done:
		return errors.New("websocket transport closed")
	default:
	}

	if err := t.conn.WriteJSON(bridge.Envelope{Name: name, Payload: payload}); err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	return nil
}

// Events returns the host event stream. Closed when the transport shuts
// down or reconnection is exhausted.
func (t *WebsocketTransport) Events() <-chan bridge.Envelope {
	return t.events
}

// Close tears the connection down.
func (t *WebsocketTransport) Close(ctx context.Context) error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		t.writeMu.Lock()
		if t.conn != nil {
			_ = t.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			err = t.conn.Close()
		}
		t.writeMu.Unlock()
		t.logger.Debug(ctx, "Websocket transport closed")
	})
	return err
}

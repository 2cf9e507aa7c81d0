package net

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/log"
)

// bridgeStreamMethod is the full method name of the host's bidirectional
// event stream.
const bridgeStreamMethod = "/miniapp.v1.Bridge/Events"

var bridgeStreamDesc = &grpc.StreamDesc{
	StreamName:    "Events",
	ClientStreams: true,
	ServerStreams: true,
}

// GRPCConfig configures the gRPC stream transport.
type GRPCConfig struct {
	// Addr is the host gateway address, e.g. localhost:9090.
	Addr string
}

// GRPCTransport carries bridge envelopes over one long-lived bidirectional
// gRPC stream using the JSON codec.
type GRPCTransport struct {
	logger log.Logger
	conn   *grpc.ClientConn

	sendMu sync.Mutex
	stream grpc.ClientStream

	events    chan bridge.Envelope
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ bridge.Transport = (*GRPCTransport)(nil)

// NewGRPCTransport connects to the host gateway and opens the event stream.
func NewGRPCTransport(ctx context.Context, cfg GRPCConfig, logger log.Logger) (*GRPCTransport, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if cfg.Addr == "" {
		return nil, errors.New("grpc transport: empty address")
	}

	conn, err := grpc.NewClient(cfg.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "grpc transport: connect %s", cfg.Addr)
	}

	stream, err := conn.NewStream(ctx, bridgeStreamDesc, bridgeStreamMethod)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "grpc transport: open event stream")
	}

	logger.Info(ctx, "Connected to host bridge gateway", "addr", cfg.Addr)

	t := &GRPCTransport{
		logger: logger,
		conn:   conn,
		stream: stream,
		events: make(chan bridge.Envelope, 64),
		done:   make(chan struct{}),
	}

	t.wg.Add(1)
	go t.readLoop()

	return t, nil
}

func (t *GRPCTransport) readLoop() {
	defer t.wg.Done()
	defer close(t.events)

	ctx := context.Background()
	for {
		var env bridge.Envelope
		if err := t.stream.RecvMsg(&env); err != nil {
			if err != io.EOF {
				select {
				case <-t.done:
				default:
					t.logger.Warn(ctx, "Bridge stream terminated", "error", err)
				}
			}
			return
		}

		select {
		case t.events <- env:
		case <-t.done:
			return
		}
	}
}

// Post sends one outbound envelope on the stream.
func (t *GRPCTransport) Post(_ context.Context, name string, payload []byte) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	select {
	case <-t.done:
		return errors.New("grpc transport closed")
	default:
	}

	if err := t.stream.SendMsg(&bridge.Envelope{Name: name, Payload: payload}); err != nil {
		return errors.Wrapf(err, "send %s", name)
	}
	return nil
}

// Events returns the host event stream.
func (t *GRPCTransport) Events() <-chan bridge.Envelope {
	return t.events
}

// Close half-closes the stream and releases the connection.
func (t *GRPCTransport) Close(ctx context.Context) error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		t.sendMu.Lock()
		_ = t.stream.CloseSend()
		t.sendMu.Unlock()
		err = t.conn.Close()
		t.logger.Debug(ctx, "gRPC transport closed")
	})
	return err
}

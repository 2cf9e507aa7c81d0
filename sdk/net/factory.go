package net

import (
	"context"

	"github.com/pkg/errors"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/log"
)

// Transport kinds accepted by the factory.
const (
	KindWebsocket = "websocket"
	KindGRPC      = "grpc"
	KindLoopback  = "loopback"
)

// FactoryConfig selects and configures a transport.
type FactoryConfig struct {
	// Kind is one of KindWebsocket, KindGRPC or KindLoopback.
	Kind string

	// Endpoint is the websocket URL or gRPC address, depending on Kind.
	Endpoint string
}

// NewTransport creates the transport selected by the config.
func NewTransport(ctx context.Context, cfg FactoryConfig, logger log.Logger) (bridge.Transport, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	switch cfg.Kind {
	case KindWebsocket:
		return NewWebsocketTransport(ctx, WebsocketConfig{URL: cfg.Endpoint}, logger)
	case KindGRPC:
		return NewGRPCTransport(ctx, GRPCConfig{Addr: cfg.Endpoint}, logger)
	case KindLoopback:
		return NewLoopback(), nil
	default:
		return nil, errors.Errorf("unknown transport kind %q", cfg.Kind)
	}
}

package net_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/net"
)

func TestNewTransportLoopback(t *testing.T) {
	transport, err := net.NewTransport(context.Background(), net.FactoryConfig{Kind: net.KindLoopback}, nil)

	require.NoError(t, err)
	require.NotNil(t, transport)
	require.NoError(t, transport.Close(context.Background()))
}

func TestNewTransportUnknownKind(t *testing.T) {
	_, err := net.NewTransport(context.Background(), net.FactoryConfig{Kind: "smoke-signal"}, nil)

	assert.Error(t, err)
}

func TestLoopbackScriptedResponse(t *testing.T) {
	ctx := context.Background()
	loopback := net.NewLoopback()
	t.Cleanup(func() {
		_ = loopback.Close(ctx)
	})

	loopback.Handle("ping", func(payload []byte) []bridge.Envelope {
		return []bridge.Envelope{{Name: "pong", Payload: payload}}
	})

	require.NoError(t, loopback.Post(ctx, "ping", []byte(`{"n":1}`)))

	select {
	case env := <-loopback.Events():
		assert.Equal(t, "pong", env.Name)
		assert.JSONEq(t, `{"n":1}`, string(env.Payload))
	case <-time.After(time.Second):
		t.Fatal("scripted response never arrived")
	}

	posted := loopback.Posted()
	require.Len(t, posted, 1)
	assert.Equal(t, "ping", posted[0].Name)
}

func TestLoopbackCloseReleasesBlockedDelivery(t *testing.T) {
	ctx := context.Background()
	loopback := net.NewLoopback()

	// Overrun the buffered stream with no consumer attached; the surplus
	// deliveries park until shutdown.
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			loopback.EmitIncoming("viewport_changed", nil)
		}
		close(finished)
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, loopback.Close(ctx))

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("blocked delivery was not released by Close")
	}

	assert.Error(t, loopback.Post(ctx, "ping", nil))
}

func TestLoopbackPostAfterCloseFails(t *testing.T) {
	ctx := context.Background()
	loopback := net.NewLoopback()
	require.NoError(t, loopback.Close(ctx))

	assert.Error(t, loopback.Post(ctx, "ping", nil))
}

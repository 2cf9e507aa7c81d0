package main

import (
	"context"
	"fmt"
	stdlog "log"
	"time"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/config"
	"github.com/miniappkit/miniappkit/sdk/event"
	"github.com/miniappkit/miniappkit/sdk/log"
	"github.com/miniappkit/miniappkit/sdk/miniapp"
	"github.com/miniappkit/miniappkit/sdk/navigator"
	"github.com/miniappkit/miniappkit/sdk/net"
	"github.com/miniappkit/miniappkit/sdk/webapp"
)

// Demonstrates a full session against a scripted in-memory host: lifecycle,
// main button, a popup exchange and persisted navigation.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Script the host side.
	loopback := net.NewLoopback()
	loopback.Handle("web_app_open_popup", func(payload []byte) []bridge.Envelope {
		return []bridge.Envelope{
			{Name: "popup_closed", Payload: []byte(`{"button_id":"ok"}`)},
		}
	})

	var cfg config.Config
	cfg.Platform = "ios"
	cfg.Version = "7.0"
	cfg.Bridge.Transport = "loopback"
	cfg.Storage.Driver = "memory"
	cfg.Storage.SessionKey = "navigation"

	logger, err := log.NewLogger(true)
	if err != nil {
		stdlog.Fatalf("Failed to create logger: %v", err)
	}

	client, err := miniapp.NewClient(ctx, cfg, logger, miniapp.WithTransport(loopback))
	if err != nil {
		stdlog.Fatalf("Failed to create client: %v", err)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			stdlog.Printf("Error closing client: %v", err)
		}
	}()

	if err := client.WebApp().Ready(ctx); err != nil {
		stdlog.Fatalf("Failed to announce readiness: %v", err)
	}

	// Show a main button and react to presses.
	button := client.MainButton()
	if err := button.SetText(ctx, "Continue"); err != nil {
		stdlog.Fatalf("Failed to set button text: %v", err)
	}
	if err := button.Show(ctx); err != nil {
		stdlog.Fatalf("Failed to show button: %v", err)
	}
	button.OnClick(func(ctx context.Context, e event.Event) {
		fmt.Println("Main button pressed")
	})
	loopback.EmitIncoming("main_button_pressed", nil)

	// A blocking popup exchange.
	pressed, err := client.WebApp().ShowPopup(ctx, webapp.PopupParams{
		Title:   "Proceed?",
		Message: "Continue to checkout",
		Buttons: []webapp.PopupButton{
			{ID: "ok", Type: webapp.PopupButtonOK},
			{ID: "cancel", Type: webapp.PopupButtonCancel},
		},
	})
	if err != nil {
		stdlog.Fatalf("Popup failed: %v", err)
	}
	fmt.Println("Popup answered with:", pressed)

	// Navigation is persisted on every move.
	client.Navigator().Push(ctx, navigator.Entry{Path: "/checkout"})
	fmt.Println("Current path:", client.Navigator().Current().Path)
}

package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/miniappkit/miniappkit/sdk/config"
	"github.com/miniappkit/miniappkit/sdk/event"
	"github.com/miniappkit/miniappkit/sdk/log"
	"github.com/miniappkit/miniappkit/sdk/miniapp"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Connect to a host bridge and stream its events",
	Long: `Connect to the host bridge from the session config, announce the app
as ready and print every host event until interrupted.`,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration file %s: %w", configFile, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := log.NewLogger(debug || cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := miniapp.NewClient(ctx, *cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn(context.Background(), "Failed to close client", "error", err)
		}
	}()

	events := make(chan event.Event, 16)
	client.SubscribeToAllEvents(func(_ context.Context, e event.Event) {
		select {
		case events <- e:
		default:
			logger.Warn(context.Background(), "Dropping host event, printer is behind", "name", e.Name)
		}
	})

	if err := client.WebApp().Ready(ctx); err != nil {
		return fmt.Errorf("failed to announce readiness: %w", err)
	}

	fmt.Printf("Connected to %s host, version %s. Press Ctrl+C to stop.\n", cfg.Platform, cfg.Version)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case e := <-events:
				if len(e.Payload) > 0 {
					fmt.Printf("%s  %s  %s\n", e.Timestamp.Format("15:04:05.000"), e.Name, e.Payload)
				} else {
					fmt.Printf("%s  %s\n", e.Timestamp.Format("15:04:05.000"), e.Name)
				}
			}
		}
	})

	return g.Wait()
}

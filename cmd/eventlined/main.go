// Command eventlined is the detection engine's binary: `run` executes
// one bounded detection pass and prints its events, `serve` hosts the
// HTTP/WebSocket surface for submitting and streaming runs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skywatch/eventline/internal/adapter/ephemeris"
	"github.com/skywatch/eventline/internal/adapter/sink"
	"github.com/skywatch/eventline/internal/api/rest"
	"github.com/skywatch/eventline/internal/api/websocket"
	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/driver"
	"github.com/skywatch/eventline/internal/cache"
	"github.com/skywatch/eventline/internal/config"
	"github.com/skywatch/eventline/internal/engine"
	"github.com/skywatch/eventline/internal/eventbus"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "eventlined",
		Short: "Detect aspects, cycles, and patterns across an ephemeris window",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to eventlined.toml (defaults built in if omitted)")

	root.AddCommand(newRunCommand())
	root.AddCommand(newServeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func newLoader(cfg config.Config) ephemeris.Loader {
	fetcher := ephemeris.NewHTTPFetcher(cfg.Fetch.BaseURL)
	loader := ephemeris.NewCachingLoader(fetcher, cache.NewInMemoryStore())
	loader.Policy = ephemeris.FetchPolicy{
		MaxRetries:        cfg.Fetch.MaxRetries,
		InitialBackoff:    cfg.Fetch.InitialBackoff,
		MaxBackoff:        cfg.Fetch.MaxBackoff,
		BackoffMultiplier: cfg.Fetch.BackoffMultiplier,
	}
	return loader
}

func newRunCommand() *cobra.Command {
	var (
		start, end       string
		bodyNames        []string
		subWindowMinutes int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run detection over a fixed time range and print the resulting events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			configureLogging(cfg)

			startTime, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endTime, err := time.Parse(time.RFC3339, end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}

			if len(bodyNames) == 0 {
				bodyNames = cfg.Driver.DefaultBodies
			}
			if !cmd.Flags().Changed("sub-window-minutes") {
				subWindowMinutes = cfg.Driver.SubWindowMinutes
			}
			bodies := make([]catalog.Body, 0, len(bodyNames))
			for _, name := range bodyNames {
				b, err := catalog.ParseBody(strings.TrimSpace(name))
				if err != nil {
					return err
				}
				bodies = append(bodies, b)
			}

			loader := newLoader(cfg)
			ctx := cmd.Context()
			view, err := loader.Fetch(ctx, bodies, startTime, endTime)
			if err != nil {
				return fmt.Errorf("loading ephemeris data: %w", err)
			}

			mem := sink.NewMemorySink()
			driverCfg := driver.Config{
				Start:     startTime,
				End:       endTime,
				Bodies:    bodies,
				SubWindow: time.Duration(subWindowMinutes) * time.Minute,
			}
			records, err := driver.Run(ctx, driverCfg, view, mem.AsEventSink())
			if err != nil {
				return fmt.Errorf("running detection: %w", err)
			}

			slog.Info("run complete", "events", len(records))
			for _, r := range records {
				fmt.Printf("%s [%s] %s\n", r.Start.Format(time.RFC3339), r.Kind, r.Summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "RFC3339 start timestamp")
	cmd.Flags().StringVar(&end, "end", "", "RFC3339 end timestamp")
	cmd.Flags().StringSliceVar(&bodyNames, "bodies", nil, "bodies to include (defaults to config driver.default_bodies)")
	cmd.Flags().IntVar(&subWindowMinutes, "sub-window-minutes", 0, "partition the range into sub-windows of this many minutes (0 = single window)")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the HTTP/WebSocket API for submitting and streaming runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			configureLogging(cfg)

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			bus := eventbus.NewInMemoryBus()
			loader := newLoader(cfg)
			eng := engine.New(loader, bus)

			hub := websocket.NewHub()
			go hub.Run(ctx)
			if err := hub.ListenAndBroadcast(ctx, bus); err != nil {
				return fmt.Errorf("subscribing hub to event bus: %w", err)
			}

			server := rest.NewServer(eng, hub)
			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			httpServer := &http.Server{Addr: addr, Handler: server.Router()}

			errCh := make(chan error, 1)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			slog.Info("eventlined serving", "addr", addr)

			select {
			case <-ctx.Done():
				slog.Info("shutting down")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				return httpServer.Shutdown(shutdownCtx)
			case err := <-errCh:
				return err
			}
		},
	}
	return cmd
}

func configureLogging(cfg config.Config) {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/nfw/api"
	"github.com/yourusername/nfw/app"
	"github.com/yourusername/nfw/cmd/demo/widgets"
	"github.com/yourusername/nfw/config"
	"github.com/yourusername/nfw/metrics"
	"github.com/yourusername/nfw/view"
)

func main() {
	// Command-line flags
	example := flag.String("example", "headline", "Example to run: headline or validation")
	configFile := flag.String("config", "", "Path to configuration file (optional)")
	logFile := flag.String("log", "nfw-demo.log", "File the demo logs to")
	inspect := flag.String("inspect", "", "Serve the inspection API on this address, e.g. :8080")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The terminal belongs to the UI, so logs go to a file
	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer f.Close()
	logger := config.NewLogger(cfg, f)
	slog.SetDefault(logger)

	var (
		ids      []string
		registry func(view.Surfaces) *app.Registry
	)
	switch *example {
	case "headline":
		ids, registry = widgets.Headlines, widgets.HeadlineRegistry
	case "validation":
		ids, registry = widgets.Validation, widgets.ValidationRegistry
	default:
		log.Fatalf("Unknown example %q", *example)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics()
	d, closeStore, err := config.NewDelegate(ctx, cfg, logger, m)
	if err != nil {
		log.Fatalf("Failed to create delegate: %v", err)
	}
	defer closeStore()

	surfaces := view.NewMemorySurfaces(ids...)
	controller, err := app.New(cfg.Namespace, d, registry(surfaces), app.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to start %s: %v", cfg.Namespace, err)
	}
	defer controller.Close()

	if *inspect != "" {
		mux := http.NewServeMux()
		api.NewHandler(d).Register(mux)
		mux.Handle("/metrics", api.NewMetricsHandler(m))
		mux.HandleFunc("/health", api.HealthHandler(version))

		srv := &http.Server{Addr: *inspect, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("inspection server failed", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	p := tea.NewProgram(newModel(controller, surfaces, ids), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Demo failed:", err)
		os.Exit(1)
	}
}

const version = "0.1.0"

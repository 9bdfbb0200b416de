package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/nfw/api"
	"github.com/yourusername/nfw/config"
)

const version = "0.1.0"

func main() {
	// Configuration: defaults, optional file, NFW_* environment
	cfg, err := config.Load(getEnv("NFW_CONFIG", ""))
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger := config.Logger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := config.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open storage: ", err)
	}
	defer closeStore()

	if cfg.Storage.Backend == config.BackendMemory {
		logger.Warn("memory storage is private to this process, nothing will be written to it")
	}

	bs, err := config.NewBucketStore(cfg, kv, logger)
	if err != nil {
		log.Fatal(err)
	}
	reader := api.NewBucketReader(ctx, bs, cfg.Namespace)

	// Routes
	mux := http.NewServeMux()
	api.NewHandler(reader).Register(mux)
	mux.HandleFunc("/health", api.HealthHandler(version))
	mux.HandleFunc("/dashboard", dashboardHandler)
	mux.HandleFunc("/", rootHandler)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("nfw inspector listening",
		"addr", cfg.Server.Addr,
		"namespace", cfg.Namespace,
		"backend", cfg.Storage.Backend,
		"key", bs.Key(cfg.Namespace),
	)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service": "nfw state inspector",
		"version": version,
		"endpoints": map[string]string{
			"GET /state":         "Whole state bucket of the namespace",
			"GET /state/{topic}": "State of one topic",
			"GET /dashboard":     "Live view (HTML)",
			"GET /health":        "Health check",
		},
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

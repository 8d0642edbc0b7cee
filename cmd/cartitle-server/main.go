package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tiksanauto/cartitle/internal/bootstrap"
	"github.com/tiksanauto/cartitle/internal/config"
	"github.com/tiksanauto/cartitle/internal/metrics"
	"github.com/tiksanauto/cartitle/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("godotenv.Load() > %w", err)
	}
	setupLogger(os.Getenv("CARTITLE_DEBUG") != "")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	app := bootstrap.New(bootstrap.DefaultShutdownTimeout)
	return app.Run(context.Background(), func(ctx context.Context) error {
		return serve(ctx, app, cfg)
	})
}

func serve(ctx context.Context, app *bootstrap.App, cfg *config.Config) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	normalizer, err := bootstrap.NewNormalizer(ctx, app, cfg, m, bootstrap.NormalizerOptions{})
	if err != nil {
		return fmt.Errorf("bootstrap.NewNormalizer() > %w", err)
	}

	mux := server.NewMux(server.NewTitleHandler(normalizer, cfg.Server.MaxBatchSize), registry)
	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           server.CORSMiddleware(cfg.Server.CORS.AllowedOrigins, h2c.NewHandler(mux, &http2.Server{})),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})

	slog.Default().Info("Starting server", "addr", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe() > %w", err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	configFile := os.Getenv("CARTITLE_CONFIG")
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
	})))
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/Brownie44l1/seg-api/internal/app"
	"github.com/Brownie44l1/seg-api/internal/config"
	"github.com/Brownie44l1/seg-api/internal/handlers"
	"github.com/Brownie44l1/seg-api/internal/logger"
	"github.com/Brownie44l1/seg-api/internal/metrics"
	"github.com/rs/zerolog/log"
	_ "go.uber.org/automaxprocs"
)

func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	execPath, err := os.Getwd()
	if err != nil {
		return filepath.Join("configs", "application.yaml")
	}
	// If running from cmd/server, go up two levels
	if filepath.Base(execPath) == "server" {
		execPath = filepath.Join(execPath, "../..")
	}
	return filepath.Join(execPath, "configs", "application.yaml")
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the application config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load config")
	}
	if err := logger.Init(cfg.AppLogLevel, cfg.AppName, cfg.AppEnv); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	metrics.Init(metrics.Options{
		Enabled:      cfg.MetricsEnabled,
		Host:         cfg.MetricsHost,
		Port:         cfg.MetricsPort,
		SamplingRate: cfg.MetricsSamplingRate,
		Env:          cfg.AppEnv,
		Service:      cfg.AppName,
	})

	adapter, closer, err := app.Build(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build inference adapter")
	}

	router := handlers.NewRouter(handlers.NewHandler(adapter, cfg), cfg.AppEnv)
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	log.Info().
		Int("port", cfg.AppPort).
		Str("model", cfg.ModelName+" "+cfg.ModelVersion).
		Str("predictor", adapter.PredictorName()).
		Msg("Server started")
	log.Info().Msg("Endpoints: GET /health, GET /config, POST /infer/, POST /infer-csv/")

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	if err := closer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to release model")
	}
	if err := metrics.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close metrics client")
	}
}

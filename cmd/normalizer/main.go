package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/hazard-normalizer/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hazard-normalizer/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-normalizer/internal/adapter/postgres"
	"github.com/couchcryptid/hazard-normalizer/internal/config"
	"github.com/couchcryptid/hazard-normalizer/internal/geocoding"
	"github.com/couchcryptid/hazard-normalizer/internal/observability"
	"github.com/couchcryptid/hazard-normalizer/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Nil when neither MAPBOX_* nor NOMINATIM_* enables a provider.
	geocoder := geocoding.New(cfg, logger, metrics)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(geocoder, logger, metrics)

	loaders := []pipeline.BatchLoader{writer}
	deps := httpadapter.Deps{Geocoder: geocoder}

	var store *postgres.Store
	if cfg.DatabaseURL != "" {
		store, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open report store", "error", err)
			os.Exit(1)
		}
		loaders = append(loaders, store)
		deps.Reports = store
		logger.Info("report store enabled")
	}

	p := pipeline.New(reader, transformer, pipeline.NewFanoutLoader(loaders...), logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, readiness(p, store), deps, logger)

	// The server and pipeline share a lifetime: a listen failure stops the
	// pipeline and a signal stops both.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return p.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	runErr := g.Wait()
	if runErr != nil {
		logger.Error("service stopped with error", "error", runErr)
	}

	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if store != nil {
		store.Close()
	}

	logger.Info("shutdown complete")
	if runErr != nil {
		os.Exit(1)
	}
}

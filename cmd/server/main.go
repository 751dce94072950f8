package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/natnael/payops/internal/analytics"
	"github.com/natnael/payops/internal/config"
	"github.com/natnael/payops/internal/generator"
	"github.com/natnael/payops/internal/logging"
	"github.com/natnael/payops/internal/metrics"
	"github.com/natnael/payops/internal/server"
	"github.com/natnael/payops/internal/service"
	"github.com/natnael/payops/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	gen := generator.New(generator.Config{
		Count: cfg.Seed.Count,
		Seed:  cfg.Seed.Seed,
	})
	seed, err := gen.Generate(ctx)
	if err != nil {
		logger.Error("failed to generate seed dataset", "error", err)
		os.Exit(1)
	}

	paymentStore := store.New(seed)
	logger.Info("payment store seeded", "count", paymentStore.Len())

	metrics.Register()

	svc := service.NewPaymentService(paymentStore, analytics.NewSimulatedIndicator(0))
	apiHandlers := server.NewAPIHandlers(logger, svc)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health: server.StoreHealthService{
			Store:   paymentStore,
			Started: time.Now(),
		},
		API:              apiHandlers,
		Idempotency:      server.NewIdempotencyCache(),
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/connectivity"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/internal/queue"
	"github.com/MKhiriev/go-care-sync/internal/resolver"
	"github.com/MKhiriev/go-care-sync/internal/retry"
	"github.com/MKhiriev/go-care-sync/internal/service"
	"github.com/MKhiriev/go-care-sync/internal/status"
	"github.com/MKhiriev/go-care-sync/internal/store"
	"github.com/MKhiriev/go-care-sync/internal/worker"
	"github.com/MKhiriev/go-care-sync/internal/workers"
	"github.com/MKhiriev/go-care-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const shutdownTimeout = 5 * time.Second

func main() {
	printBuildInfo()

	log := logger.NewAgentLogger("care-sync-agent")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	remote, err := adapter.NewHTTPRemoteAuthority(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote adapter")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sign in eagerly so the first drain does not pay the auth round-trip.
	// Failure is not fatal: the adapter re-authenticates on demand and the
	// agent must come up even when the network is down.
	if err = remote.SignIn(ctx); err != nil {
		log.Warn().Err(err).Msg("initial sign-in failed, will retry on first send")
	}

	monitor := connectivity.NewProbeMonitor(cfg.Adapter.BaseURL, cfg.Adapter.ProbeInterval, log)
	q := queue.New(log)
	ledger := retry.NewLedger(cfg.Sync.MaxRetryAttempts)
	conflicts := resolver.NewConflicts()
	res := resolver.NewResolver(models.Strategy(cfg.Sync.Strategy), remote, conflicts, log)

	syncWorker := worker.New(q, storages.Items, ledger, remote, res, conflicts, monitor, cfg.Sync, log)
	reporter := status.NewReporter(q, ledger, conflicts, syncWorker)
	engine := service.NewEngine(storages.Items, q, ledger, res, conflicts, reporter, syncWorker, log)

	if err = engine.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("restore state from durable store")
	}

	jobs := workers.New(monitor, syncWorker)
	jobs.Start(ctx)
	defer jobs.Stop()

	handler := status.NewHandler(engine, log)
	srv := &http.Server{
		Addr:    cfg.Status.HTTPAddress,
		Handler: handler.Init(),
	}

	go func() {
		log.Info().Str("address", cfg.Status.HTTPAddress).Msg("status server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("status server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("status server shutdown")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

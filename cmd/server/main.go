// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/tomtom215/trilha/internal/api"
	"github.com/tomtom215/trilha/internal/auth"
	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/store"
	"github.com/tomtom215/trilha/internal/supervisor"
	"github.com/tomtom215/trilha/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const timeoutBody = `{"status":"error","error":{"code":"TIMEOUT","message":"request timed out"}}`

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().Str("version", version).Msg("Starting Trilha with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load catalog")
	}
	logging.Info().
		Int("labels", len(cat.Labels())).
		Int("tracks", len(cat.TrackNames())).
		Msg("Catalog loaded")

	engine, err := InitEngine(ctx, cfg, cat, st)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize engine")
	}

	evts, err := InitEvents(cfg.Events, func(ctx context.Context, userID string) error {
		_, err := engine.Cycle.Run(ctx, userID)
		return err
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize feedback events")
	}
	defer func() {
		if err := evts.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	deps := api.Deps{
		Catalog:  engine.Catalog,
		Mapper:   engine.Mapper,
		Profiles: engine.Profiles,
		Cycle:    engine.Cycle,
		Version:  version,
	}
	if evts != nil {
		deps.Publisher = evts.Publisher
	}
	handler, err := api.NewHandler(deps)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	var jwtManager *auth.JWTManager
	if cfg.Security.AuthEnabled {
		jwtManager, err = auth.NewJWTManager(cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED")
		logging.Warn().Msg("  Every caller is treated as an administrator.")
		logging.Warn().Msg("  Set SECURITY_AUTH_ENABLED=true outside local development.")
		logging.Warn().Msg("============================================================")
	}

	router := api.NewRouter(handler, api.NewAuthMiddleware(jwtManager), api.ChiMiddlewareConfigFrom(cfg.Security))

	httpHandler := router.SetupChi()
	if cfg.Server.RequestTimeout > 0 {
		httpHandler = http.TimeoutHandler(httpHandler, cfg.Server.RequestTimeout, timeoutBody)
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer
	if gc, ok := st.(store.GarbageCollector); ok {
		tree.AddDataService(services.NewStoreGCService(gc, cfg.Store.GCInterval, logging.Logger()))
		logging.Info().Dur("interval", cfg.Store.GCInterval).Msg("Store GC service added")
	}

	// Messaging layer
	if evts != nil {
		tree.AddMessagingService(evts.Router)
		logging.Info().Msg("Event router service added")
	}
	if cfg.Adaptation.Enabled {
		tree.AddMessagingService(services.NewAdaptationService(engine.Cycle, cfg.Adaptation, logging.Logger()))
		logging.Info().Dur("interval", cfg.Adaptation.Interval).Msg("Adaptation sweep service added")
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel yields exactly one value when the root supervisor returns.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}
	if ctx.Err() != nil {
		logging.Info().Msg("Shutdown signal received")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

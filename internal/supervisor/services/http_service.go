// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// defaultDrainTimeout applies when NewHTTPServerService gets no timeout.
const defaultDrainTimeout = 10 * time.Second

// HTTPServer is what the service needs from *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService serves the API under the supervisor. On cancellation it
// stops accepting connections and waits up to drain for in-flight requests.
type HTTPServerService struct {
	server HTTPServer
	drain  time.Duration
	logger zerolog.Logger
}

// NewHTTPServerService wraps server.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHTTPServerService(server HTTPServer, drain time.Duration, logger zerolog.Logger) *HTTPServerService {
	if drain <= 0 {
		drain = defaultDrainTimeout
	}
	return &HTTPServerService{
		server: server,
		drain:  drain,
		logger: logger.With().Str("service", "http-server").Logger(),
	}
}

// Serve implements suture.Service. A listener that stops on its own with
// http.ErrServerClosed ends the service cleanly; any other listener error
// is returned so the supervisor restarts it.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	listened := make(chan error, 1)
	go func() { listened <- h.server.ListenAndServe() }()

	select {
	case err := <-listened:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		return h.stop(ctx, listened)
	}
}

// stop drains connections on a deadline detached from the cancelled ctx.
func (h *HTTPServerService) stop(ctx context.Context, listened <-chan error) error {
	h.logger.Info().Dur("drain", h.drain).Msg("Draining HTTP connections")

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.drain)
	defer cancel()
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain connections: %w", err)
	}
	if err := <-listened; err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Warn().Err(err).Msg("Listener failed during shutdown")
	}
	return ctx.Err()
}

func (h *HTTPServerService) String() string {
	return "http-server"
}

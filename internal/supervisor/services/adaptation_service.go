// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/logging"
)

// Sweeper runs an adaptation cycle for every stored profile.
type Sweeper interface {
	RunAll(ctx context.Context) (int, error)
}

// AdaptationService sweeps all profiles on a fixed interval so feedback
// that arrived without an event (or whose event was lost) still adapts
// profiles.
type AdaptationService struct {
	sweeper  Sweeper
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewAdaptationService creates the service. Interval defaults to 24h and
// the per-sweep timeout to 30m.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAdaptationService(sweeper Sweeper, cfg config.AdaptationConfig, logger zerolog.Logger) *AdaptationService {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &AdaptationService{
		sweeper:  sweeper,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With().Str("service", "adaptation").Logger(),
	}
}

// Serve implements suture.Service. Sweep failures are logged and retried
// on the next tick rather than restarting the service.
func (s *AdaptationService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("adaptation service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("adaptation service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *AdaptationService) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(logging.ContextWithNewCorrelationID(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	adapted, err := s.sweeper.RunAll(sweepCtx)
	if err != nil {
		s.logger.Warn().Err(err).Int("adapted", adapted).Msg("adaptation sweep interrupted")
		return
	}
	s.logger.Info().Int("adapted", adapted).Dur("duration", time.Since(start)).Msg("adaptation sweep complete")
}

func (s *AdaptationService) String() string {
	return "adaptation-sweep"
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/store"
)

// StoreGCService periodically reclaims Badger value log space.
type StoreGCService struct {
	gc       store.GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
}

// NewStoreGCService creates the service. Interval defaults to 10m.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStoreGCService(gc store.GarbageCollector, interval time.Duration, logger zerolog.Logger) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		gc:       gc,
		interval: interval,
		logger:   logger.With().Str("service", "store-gc").Logger(),
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.gc.RunGC(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("value log GC failed")
			}
		}
	}
}

func (s *StoreGCService) String() string {
	return "store-gc"
}

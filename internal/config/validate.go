// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package config

import (
	"errors"
	"fmt"
)

// Validate checks cross-field and range constraints.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		errs = append(errs, errors.New("store.path is required unless store.in_memory is set"))
	}
	if c.Classifier.MinRelevance < 0 || c.Classifier.MinRelevance > 1 {
		errs = append(errs, fmt.Errorf("classifier.min_relevance must be within [0,1], got %v", c.Classifier.MinRelevance))
	}
	if c.Classifier.TopN < 0 {
		errs = append(errs, fmt.Errorf("classifier.top_n must be >= 0, got %d", c.Classifier.TopN))
	}
	if c.Scoring.TrackThreshold < 0 || c.Scoring.TrackThreshold > 1 {
		errs = append(errs, fmt.Errorf("scoring.track_threshold must be within [0,1], got %v", c.Scoring.TrackThreshold))
	}
	if c.Scoring.TopTracks < 1 {
		errs = append(errs, fmt.Errorf("scoring.top_tracks must be >= 1, got %d", c.Scoring.TopTracks))
	}
	if c.Feedback.WindowDays < 1 {
		errs = append(errs, fmt.Errorf("feedback.window_days must be >= 1, got %d", c.Feedback.WindowDays))
	}
	if c.Feedback.AmplifyFactor < 1 {
		errs = append(errs, fmt.Errorf("feedback.amplify_factor must be >= 1, got %v", c.Feedback.AmplifyFactor))
	}
	if c.Feedback.AmplificationCeiling < 0 {
		errs = append(errs, fmt.Errorf("feedback.amplification_ceiling must be >= 0, got %v", c.Feedback.AmplificationCeiling))
	}
	if c.Feedback.RebalanceStep <= 0 || c.Feedback.RebalanceStep >= 1 {
		errs = append(errs, fmt.Errorf("feedback.rebalance_step must be within (0,1), got %v", c.Feedback.RebalanceStep))
	}
	if c.Generator.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("generator.requests_per_minute must be >= 0, got %d", c.Generator.RequestsPerMinute))
	}
	if c.Adaptation.Enabled && c.Adaptation.Interval <= 0 {
		errs = append(errs, errors.New("adaptation.interval must be positive when adaptation is enabled"))
	}
	if c.Security.AuthEnabled && len(c.Security.JWTSecret) < 32 {
		errs = append(errs, errors.New("security.jwt_secret must be at least 32 characters when auth is enabled"))
	}

	return errors.Join(errs...)
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

import "fmt"

// Default thresholds.
const (
	DefaultMinRelevance   = 0.10
	DefaultTrackThreshold = 0.05
	DefaultTopTracks      = 3
)

// Config contains the scoring engine parameters.
type Config struct {
	// MinRelevance drops classifier scores below it. Default: 0.10.
	MinRelevance float64 `json:"min_relevance"`

	// TopLabels keeps only the N best labels per text after filtering.
	// 0 keeps all.
	TopLabels int `json:"top_labels"`

	// TrackThreshold is the minimum label score counted by Aggregate.
	// Default: 0.05.
	TrackThreshold float64 `json:"track_threshold"`

	// TopTracks is how many tracks Rank returns. Default: 3.
	TopTracks int `json:"top_tracks"`

	// FallbackTrack is recommended when no track has evidence.
	FallbackTrack string `json:"fallback_track"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinRelevance:   DefaultMinRelevance,
		TrackThreshold: DefaultTrackThreshold,
		TopTracks:      DefaultTopTracks,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.MinRelevance < 0 || c.MinRelevance > 1 {
		return fmt.Errorf("min_relevance must be in [0, 1], got %f", c.MinRelevance)
	}
	if c.TopLabels < 0 {
		return fmt.Errorf("top_labels must be non-negative, got %d", c.TopLabels)
	}
	if c.TrackThreshold < 0 || c.TrackThreshold > 1 {
		return fmt.Errorf("track_threshold must be in [0, 1], got %f", c.TrackThreshold)
	}
	if c.TopTracks < 1 {
		return fmt.Errorf("top_tracks must be positive, got %d", c.TopTracks)
	}
	return nil
}

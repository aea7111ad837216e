// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package models

import (
	"time"

	"github.com/tomtom215/trilha/internal/recommend"
)

// UserProfile is the stored state of one user.
type UserProfile struct {
	UserID        string                 `json:"user_id"`
	Age           int                    `json:"age"`
	Goal          recommend.LearningGoal `json:"goal"`
	WeeklyHours   float64                `json:"weekly_hours"`
	LearningStyle string                 `json:"learning_style"`

	FinalScores      recommend.LabelScores   `json:"final_scores"`
	TrackScores      recommend.TrackScores   `json:"track_scores"`
	RankedTracks     []recommend.RankedTrack `json:"ranked_tracks"`
	RecommendedTrack string                  `json:"recommended_track"`
	// ProposedTrack is a track switch suggested by feedback adaptation.
	// It is never applied automatically.
	ProposedTrack string                `json:"proposed_track,omitempty"`
	Personality   recommend.Personality `json:"personality"`
	Preferences   recommend.Preferences `json:"preferences"`

	// FeedbackWatermark is the CreatedAt of the newest feedback record an
	// adaptation cycle has consumed. Older records are never analyzed again.
	FeedbackWatermark time.Time `json:"feedback_watermark,omitempty"`

	// Version increases by one on every stored write.
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Context returns the interview context used for weighting.
func (p *UserProfile) Context() recommend.UserContext {
	return recommend.UserContext{
		Age:           p.Age,
		Goal:          p.Goal,
		WeeklyHours:   p.WeeklyHours,
		LearningStyle: p.LearningStyle,
	}
}

// HasRecommendation reports whether the profile carries enough mapping
// output for feedback adaptation.
func (p *UserProfile) HasRecommendation() bool {
	return p.RecommendedTrack != "" && len(p.TrackScores) > 0
}

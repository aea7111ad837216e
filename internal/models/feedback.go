// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package models

import "time"

// SessionType tags what kind of session a feedback record is about.
type SessionType string

const (
	SessionStudy      SessionType = "study"
	SessionAssessment SessionType = "assessment"
	SessionGeneral    SessionType = "general"
)

// SessionTypes lists every session type in reporting order.
var SessionTypes = []SessionType{SessionStudy, SessionAssessment, SessionGeneral}

// Valid reports whether s is a known session type.
func (s SessionType) Valid() bool {
	switch s {
	case SessionStudy, SessionAssessment, SessionGeneral:
		return true
	}
	return false
}

// FeedbackRecord is an immutable feedback observation.
type FeedbackRecord struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	// Ratings are 1-5 values keyed by question slot.
	Ratings       map[string]int `json:"ratings"`
	MissingTopics string         `json:"missing_topics,omitempty"`
	Suggestions   string         `json:"suggestions,omitempty"`
	SessionType   SessionType    `json:"session_type"`
	CreatedAt     time.Time      `json:"created_at"`
}

// RatingMean returns the mean of the record's ratings, or false when it
// has none.
func (r *FeedbackRecord) RatingMean() (float64, bool) {
	if len(r.Ratings) == 0 {
		return 0, false
	}
	var sum int
	for _, v := range r.Ratings {
		sum += v
	}
	return float64(sum) / float64(len(r.Ratings)), true
}

// AdaptationRecord is an append-only entry in a user's adaptation history.
type AdaptationRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
	Changes      []string  `json:"changes"`
	Satisfaction string    `json:"satisfaction"`
}

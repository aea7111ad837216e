// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package api

import (
	"strings"

	"github.com/tomtom215/trilha/internal/models"
	"github.com/tomtom215/trilha/internal/recommend"
)

// MappingRequest is the interview submitted to POST .../mapping.
type MappingRequest struct {
	Age           int     `json:"age" validate:"gte=0,lte=120"`
	Goal          string  `json:"goal" validate:"max=64"`
	WeeklyHours   float64 `json:"weekly_hours" validate:"gte=0,lte=168"`
	LearningStyle string  `json:"learning_style" validate:"max=64"`

	Hobbies         []string       `json:"hobbies" validate:"max=50,dive,max=200"`
	Likert          map[string]int `json:"likert" validate:"max=100,dive,likert"`
	TextAnswers     []string       `json:"text_answers" validate:"max=20,dive,max=4000"`
	PersonalityText string         `json:"personality_text" validate:"max=8000"`
}

// Answers converts the request into mapping input.
func (m *MappingRequest) Answers() recommend.Answers {
	return recommend.Answers{
		Context: recommend.UserContext{
			Age:           m.Age,
			Goal:          recommend.ParseGoal(m.Goal),
			WeeklyHours:   m.WeeklyHours,
			LearningStyle: recommend.NormalizeStyle(m.LearningStyle),
		},
		Hobbies:         m.Hobbies,
		Likert:          m.Likert,
		TextAnswers:     m.TextAnswers,
		PersonalityText: m.PersonalityText,
	}
}

// FeedbackRequest is the body of POST .../feedback.
type FeedbackRequest struct {
	Ratings       map[string]int `json:"ratings" validate:"max=20,dive,likert"`
	MissingTopics string         `json:"missing_topics" validate:"max=2000"`
	Suggestions   string         `json:"suggestions" validate:"max=2000"`
	SessionType   string         `json:"session_type" validate:"omitempty,session_type"`
}

// Record converts the request to a feedback record. An empty session type
// is stored as general.
func (f *FeedbackRequest) Record() models.FeedbackRecord {
	st := models.SessionType(f.SessionType)
	if st == "" {
		st = models.SessionGeneral
	}
	return models.FeedbackRecord{
		Ratings:       f.Ratings,
		MissingTopics: strings.TrimSpace(f.MissingTopics),
		Suggestions:   strings.TrimSpace(f.Suggestions),
		SessionType:   st,
	}
}

// MappingResponse is returned by POST .../mapping.
type MappingResponse struct {
	Profile *models.UserProfile      `json:"profile"`
	Result  *recommend.MappingResult `json:"result"`
}

// FeedbackResponse is returned by POST .../feedback.
type FeedbackResponse struct {
	Feedback       models.FeedbackRecord `json:"feedback"`
	EventPublished bool                  `json:"event_published"`
}

// SweepResponse is returned by POST /admin/adaptations.
type SweepResponse struct {
	Adapted int `json:"adapted"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Tracks        int     `json:"tracks"`
	Labels        int     `json:"labels"`
}

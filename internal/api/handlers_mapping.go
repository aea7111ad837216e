// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package api

import (
	"net/http"

	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/models"
)

// CreateMapping runs an interest mapping for the user and stores the
// result as the user's profile, replacing any previous mapping.
func (h *Handler) CreateMapping(w http.ResponseWriter, r *http.Request) {
	userID := userIDParam(r)

	var req MappingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answers := req.Answers()
	result, err := h.mapper.Map(r.Context(), answers)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	saved, err := h.profiles.Save(r.Context(), &models.UserProfile{
		UserID:           userID,
		Age:              answers.Context.Age,
		Goal:             answers.Context.Goal,
		WeeklyHours:      answers.Context.WeeklyHours,
		LearningStyle:    answers.Context.LearningStyle,
		FinalScores:      result.FinalScores,
		TrackScores:      result.TrackScores,
		RankedTracks:     result.Ranked,
		RecommendedTrack: result.RecommendedTrack,
		Personality:      result.Personality,
		Preferences:      result.Preferences,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", userID).
		Str("track", saved.RecommendedTrack).
		Bool("fallback", result.UsedFallback).
		Msg("Interest mapping stored")

	respondSuccess(w, r, http.StatusCreated, MappingResponse{Profile: saved, Result: result})
}

// GetProfile returns the stored profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), userIDParam(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, p)
}

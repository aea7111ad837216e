// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/trilha/internal/events"
	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/metrics"
)

const maxFeedbackWindowDays = 3650

// SubmitFeedback stores a feedback record and publishes a
// FeedbackSubmitted event. A publish failure is logged and reported in the
// response but does not fail the request: the record is already stored
// and the periodic sweep will pick it up.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID := userIDParam(r)

	var req FeedbackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.profiles.Get(r.Context(), userID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	rec, err := h.profiles.AppendFeedback(r.Context(), userID, req.Record())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.FeedbackRecords.WithLabelValues(string(rec.SessionType)).Inc()

	published := false
	if h.publisher != nil {
		if err := h.publisher.PublishFeedback(r.Context(), events.NewFeedbackSubmitted(&rec)); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("user_id", userID).Msg("Feedback stored but event not published")
		} else {
			published = true
		}
	}

	respondSuccess(w, r, http.StatusCreated, FeedbackResponse{Feedback: rec, EventPublished: published})
}

// ListFeedback returns the user's feedback, oldest first. The optional
// days query parameter limits the result to the last N days.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	userID := userIDParam(r)

	var since time.Time
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 || days > maxFeedbackWindowDays {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
				"days must be an integer between 1 and "+strconv.Itoa(maxFeedbackWindowDays), nil)
			return
		}
		since = time.Now().UTC().AddDate(0, 0, -days)
	}

	if _, err := h.profiles.Get(r.Context(), userID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	records, err := h.profiles.ListFeedback(r.Context(), userID, since)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, records)
}

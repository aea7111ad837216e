// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package api

import (
	"net/http"
)

// RunAdaptation runs one adaptation cycle for the user now.
func (h *Handler) RunAdaptation(w http.ResponseWriter, r *http.Request) {
	res, err := h.cycle.Run(r.Context(), userIDParam(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, res)
}

// ListAdaptations returns the user's adaptation history.
func (h *Handler) ListAdaptations(w http.ResponseWriter, r *http.Request) {
	userID := userIDParam(r)
	if _, err := h.profiles.Get(r.Context(), userID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	records, err := h.profiles.ListAdaptations(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, records)
}

// RunAdaptationSweep runs a cycle for every stored profile.
func (h *Handler) RunAdaptationSweep(w http.ResponseWriter, r *http.Request) {
	adapted, err := h.cycle.RunAll(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, SweepResponse{Adapted: adapted})
}

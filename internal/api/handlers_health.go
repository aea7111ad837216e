// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/trilha/internal/models"
)

// Health reports liveness and catalog size.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Tracks:        len(h.catalog.Tracks),
		Labels:        len(h.catalog.Taxonomy),
	})
}

// Tracks lists the catalog tracks in declared order.
func (h *Handler) Tracks(w http.ResponseWriter, r *http.Request) {
	out := make([]models.TrackSummary, 0, len(h.catalog.Tracks))
	for _, t := range h.catalog.Tracks {
		out = append(out, models.TrackSummary{Name: t.Name, Labels: append([]string(nil), t.Labels...)})
	}
	respondSuccess(w, r, http.StatusOK, out)
}

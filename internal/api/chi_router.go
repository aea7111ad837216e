// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/trilha/internal/auth"
	"github.com/tomtom215/trilha/internal/middleware"
)

// Router assembles the handler and middleware into an http.Handler.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil auth middleware disables
// authentication; a nil mw config selects defaults.
func NewRouter(h *Handler, authMW *auth.Middleware, mw *ChiMiddlewareConfig) *Router {
	if authMW == nil {
		authMW = auth.NewMiddleware(nil, writeAuthError)
	}
	return &Router{handler: h, auth: authMW, chiMiddleware: NewChiMiddleware(mw)}
}

// NewAuthMiddleware returns auth middleware that writes the API error envelope.
func NewAuthMiddleware(m *auth.JWTManager) *auth.Middleware {
	return auth.NewMiddleware(m, writeAuthError)
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestTimer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.auth.Authenticate)

		r.Get("/catalog/tracks", router.handler.Tracks)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Use(authorizeUser)
			r.Post("/mapping", router.handler.CreateMapping)
			r.Get("/profile", router.handler.GetProfile)
			r.Post("/feedback", router.handler.SubmitFeedback)
			r.Get("/feedback", router.handler.ListFeedback)
			r.Post("/adaptations", router.handler.RunAdaptation)
			r.Get("/adaptations", router.handler.ListAdaptations)
		})

		r.With(router.auth.RequireAdmin).Post("/admin/adaptations", router.handler.RunAdaptationSweep)
	})

	return r
}

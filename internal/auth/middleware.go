// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tomtom215/trilha/internal/logging"
)

type contextKey string

// ClaimsContextKey holds the authenticated *Claims.
const ClaimsContextKey contextKey = "claims"

// anonymous is injected when authentication is disabled.
var anonymous = &Claims{Role: RoleAdmin}

// ClaimsFromContext returns the claims stored by Middleware.Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return c, ok
}

// ContextWithClaims stores claims in ctx.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, c)
}

// ErrorWriter writes an error response; the API package supplies one that
// emits its JSON envelope.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// Middleware enforces bearer-token authentication.
type Middleware struct {
	jwt      *JWTManager
	enabled  bool
	writeErr ErrorWriter
}

// NewMiddleware returns a middleware. A nil manager disables authentication.
func NewMiddleware(jwtManager *JWTManager, writeErr ErrorWriter) *Middleware {
	if writeErr == nil {
		writeErr = func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{jwt: jwtManager, enabled: jwtManager != nil, writeErr: writeErr}
}

// Enabled reports whether tokens are checked.
func (m *Middleware) Enabled() bool {
	return m.enabled
}

// Authenticate rejects requests without a valid bearer token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), anonymous)))
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="trilha"`)
			m.writeErr(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed bearer token")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			w.Header().Set("WWW-Authenticate", `Bearer realm="trilha", error="invalid_token"`)
			m.writeErr(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireAdmin allows only admin tokens through. It must run after
// Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin() {
			m.writeErr(w, r, http.StatusForbidden, "FORBIDDEN", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CanAccessUser reports whether the caller in ctx may act on userID.
func CanAccessUser(ctx context.Context, userID string) bool {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return false
	}
	return claims.IsAdmin() || claims.Subject == userID
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

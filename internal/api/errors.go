// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/trilha/internal/profile"
	"github.com/tomtom215/trilha/internal/store"
)

// Error codes returned in models.APIError.Code.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
)

// errBodyTooLarge is returned by decodeJSON when the body exceeds maxBodyBytes.
var errBodyTooLarge = errors.New("request body too large")

// classifyError maps service errors to an HTTP status and error code.
func classifyError(err error) (int, string, string) {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "profile not found"
	case errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict, ErrCodeConflict, "profile was modified concurrently, retry the request"
	case errors.Is(err, store.ErrInvalidKey):
		return http.StatusBadRequest, ErrCodeBadRequest, "invalid user id"
	case errors.Is(err, store.ErrClosed):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "storage is shutting down"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "request cancelled before completion"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "internal error"
	}
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package api exposes interest mapping, feedback and adaptation over HTTP
// using the chi router.
//
// Routes:
//
//	GET  /health
//	GET  /metrics
//	GET  /api/v1/catalog/tracks
//	POST /api/v1/users/{userID}/mapping
//	GET  /api/v1/users/{userID}/profile
//	POST /api/v1/users/{userID}/feedback
//	GET  /api/v1/users/{userID}/feedback
//	POST /api/v1/users/{userID}/adaptations
//	GET  /api/v1/users/{userID}/adaptations
//	POST /api/v1/admin/adaptations
//
// Every response uses the models.APIResponse envelope. Routes under
// /api/v1 are rate limited per client IP and, when enabled, require a
// bearer token; learners may only address their own user ID.
package api

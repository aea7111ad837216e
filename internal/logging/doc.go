// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package logging provides the zerolog-based structured logger used across Trilha.
//
// A single global logger is configured once from main via Init and is then
// reached through the level helpers (Info, Warn, Error, ...) or, inside request
// and event handlers, through Ctx so that request and correlation IDs travel
// with every line:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Ctx(ctx).Info().Str("user_id", id).Msg("Mapping stored")
//
// Two adapters let third-party libraries write through the same logger:
//
//   - SlogHandler implements slog.Handler for sutureslog (process supervision).
//   - WatermillAdapter implements watermill.LoggerAdapter for the event router.
//
// # Configuration
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  true, false (default: false)
package logging

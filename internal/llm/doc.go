// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package llm is the boundary to the generative-text service.
//
// Generator is the only contract the scoring and feedback code depends on.
// GenAIClient implements it on top of google.golang.org/genai with a
// circuit breaker, a request rate limit and per-call timeouts. It is
// constructed once by the process entry point and injected; there is no
// package-level client.
//
// Model output is frequently wrapped in markdown fences or surrounded by
// prose. ExtractJSON and DecodeJSON are the single place that turns such
// text into structured values; every failure is a *ParseFailure that
// matches ErrMalformedResponse under errors.Is.
package llm

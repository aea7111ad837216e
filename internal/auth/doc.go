// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package auth provides HS256 bearer-token authentication for the HTTP API.
//
// Tokens carry the learner's user ID in the standard "sub" claim and an
// optional role. Learners may only read and write their own profile and
// feedback; the admin role may act on any user and trigger adaptation
// sweeps.
//
// When authentication is disabled the middleware injects an anonymous
// admin subject so handlers never need to special-case it.
package auth

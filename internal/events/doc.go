// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package events carries feedback notifications from the HTTP layer to the
// adaptation cycle over Watermill.
//
// Two transports are supported:
//
//   - an in-process Go channel (default, used when no NATS URL is set)
//   - NATS JetStream through watermill-nats, for multi-instance deployments
//
// The router consumes FeedbackSubmitted messages and runs one adaptation
// cycle for the referenced user. Payloads that cannot be decoded, or that
// reference unknown users, are acknowledged and dropped; every other failure
// is retried with exponential backoff.
package events

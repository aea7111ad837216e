// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

/*
Package models defines the persisted and wire data structures for Trilha.

Key Components:

  - UserProfile: a user's interview context, scores, personality and
    learning preferences, versioned for optimistic concurrency
  - FeedbackRecord: an append-only feedback observation
  - AdaptationRecord: an append-only entry in a user's adaptation history
  - APIResponse: standardized HTTP response wrapper

Scoring types (LabelScores, Personality, Preferences) are owned by the
recommend package and embedded here by value.
*/
package models

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

/*
Package classifier is the HTTP client for the zero-shot classification
service used to score free-text answers against the label taxonomy.

The wire format is the Hugging Face inference API for zero-shot models
(facebook/bart-large-mnli by default):

	POST {url}
	Authorization: Bearer {token}

	{"inputs": "...", "parameters": {"candidate_labels": [...], "multi_label": true}}

	-> {"sequence": "...", "labels": [...], "scores": [...]}

Calls go through a circuit breaker and results are cached in memory for
CacheTTL, keyed by text and candidate labels.
*/
package classifier

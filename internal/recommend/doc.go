// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package recommend turns interview answers into ranked learning tracks.
//
// # Pipeline
//
//	answers ─┬─ hobbies ───────────────┐
//	         ├─ likert (1-5 → 0-1) ────┼─ Fuse (weighted by ComputeWeights) ─→ label scores
//	         └─ free text ─ Extractor ─┘
//	label scores ─ Aggregate ─→ track scores ─ Ranker (personality) ─→ top-N tracks
//
// Fusion folds sources one at a time with result = (base + w*incoming)/2, so
// the fold order matters: hobbies, then Likert, then each free-text answer.
//
// # Design Principles
//
//   - Pure: Fuse, ComputeWeights, Aggregate and Ranker.Rank never mutate inputs.
//   - Data-driven: tracks and personality coefficients come from the catalog.
//   - Degrading: collaborator failures become empty scores or a neutral
//     personality, never errors for the caller.
//
// # Usage
//
//	extractor := recommend.NewExtractor(classifierClient, cfg, logger)
//	mapper := recommend.NewMapper(cat, extractor, recommend.NewPersonalityInferer(gen, logger), cfg, logger)
//	result, err := mapper.Map(ctx, answers)
package recommend

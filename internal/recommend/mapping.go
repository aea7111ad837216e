// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/catalog"
	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/metrics"
)

// Answers are the raw interview responses for one mapping run.
type Answers struct {
	Context UserContext `json:"context"`
	// Hobbies selected from the multiple-choice list.
	Hobbies []string `json:"hobbies"`
	// Likert maps a label to its 1-5 rating.
	Likert map[string]int `json:"likert"`
	// TextAnswers are the free-text answers in question order.
	TextAnswers []string `json:"text_answers"`
	// PersonalityText feeds personality inference. When empty the
	// free-text answers are used.
	PersonalityText string `json:"personality_text,omitempty"`
}

// MappingResult is the outcome of one interest mapping run.
type MappingResult struct {
	FinalScores      LabelScores   `json:"final_scores"`
	TrackScores      TrackScores   `json:"track_scores"`
	Ranked           []RankedTrack `json:"ranked_tracks"`
	RecommendedTrack string        `json:"recommended_track"`
	UsedFallback     bool          `json:"used_fallback"`
	Personality      Personality   `json:"personality"`
	Weights          SourceWeights `json:"weights"`
	Preferences      Preferences   `json:"preferences"`
}

// Mapper runs the full answers-to-tracks pipeline.
type Mapper struct {
	catalog   *catalog.Catalog
	extractor *Extractor
	inferer   *PersonalityInferer
	ranker    *Ranker
	config    Config
	logger    zerolog.Logger
}

// NewMapper wires a mapper. inferer may be nil, in which case every run
// uses a neutral personality.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewMapper(cat *catalog.Catalog, extractor *Extractor, inferer *PersonalityInferer, cfg Config, logger zerolog.Logger) *Mapper {
	return &Mapper{
		catalog:   cat,
		extractor: extractor,
		inferer:   inferer,
		ranker:    NewRanker(cat),
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
	}
}

// Ranker exposes the mapper's ranker so adaptation can re-rank with the
// same table.
func (m *Mapper) Ranker() *Ranker {
	return m.ranker
}

// NormalizeLikert maps a 1-5 rating onto [0,1]; out-of-range values are
// clamped first.
func NormalizeLikert(v int) float64 {
	return float64(min(max(v, 1), 5)-1) / 4
}

// FuseAnswers folds hobbies, then Likert ratings, then every non-blank
// free-text answer into one label score map.
func (m *Mapper) FuseAnswers(ctx context.Context, a Answers, w SourceWeights) LabelScores {
	hobbies := make(LabelScores, len(a.Hobbies))
	for _, h := range a.Hobbies {
		if h = catalog.NormalizeLabel(h); h != "" {
			hobbies[h] = 1.0
		}
	}
	final := Fuse(LabelScores{}, hobbies, w.Hobbies)

	likert := make(LabelScores, len(a.Likert))
	for label, v := range a.Likert {
		if label = catalog.NormalizeLabel(label); label != "" {
			likert[label] = NormalizeLikert(v)
		}
	}
	final = Fuse(final, likert, w.Likert)

	labels := m.catalog.Labels()
	for _, text := range a.TextAnswers {
		if strings.TrimSpace(text) == "" {
			continue
		}
		final = Fuse(final, m.extractor.Extract(ctx, text, labels), w.Text)
	}
	return final
}

// Map runs one interest mapping. It only fails if ctx is done; collaborator
// failures degrade to empty text evidence and a neutral personality.
func (m *Mapper) Map(ctx context.Context, a Answers) (*MappingResult, error) {
	start := time.Now()
	logger := logging.Ctx(ctx).With().Str("component", "recommend").Logger()

	weights := ComputeWeights(a.Context)
	final := m.FuseAnswers(ctx, a, weights)
	if err := ctx.Err(); err != nil {
		metrics.RecordMapping("error", time.Since(start))
		return nil, err
	}

	tracks := Aggregate(final, m.catalog.Tracks, m.config.TrackThreshold)

	personality := NeutralPersonality()
	if m.inferer != nil {
		text := a.PersonalityText
		if strings.TrimSpace(text) == "" {
			text = strings.Join(a.TextAnswers, "\n")
		}
		personality = m.inferer.Infer(ctx, text)
	}

	ranked := m.ranker.Rank(tracks, personality, m.config.TopTracks)

	result := &MappingResult{
		FinalScores: final,
		TrackScores: tracks,
		Ranked:      ranked,
		Personality: personality,
		Weights:     weights,
		Preferences: DerivePreferences(a.Context),
	}
	outcome := "ranked"
	if len(ranked) > 0 {
		result.RecommendedTrack = ranked[0].Track
	} else {
		result.RecommendedTrack = m.config.FallbackTrack
		result.UsedFallback = true
		outcome = "fallback"
	}

	metrics.RecordMapping(outcome, time.Since(start))
	logger.Info().
		Int("labels", len(final)).
		Int("tracks", len(tracks)).
		Str("recommended", result.RecommendedTrack).
		Bool("fallback", result.UsedFallback).
		Dur("elapsed", time.Since(start)).
		Msg("interest mapping complete")

	return result, nil
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// ClassifierResult is a zero-shot classification: Labels[i] scored Scores[i].
type ClassifierResult struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classifier scores text against candidate labels. Implementations must
// score every label independently (multi-label), in [0,1].
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (ClassifierResult, error)
}

// Extractor turns free text into label scores through a Classifier.
type Extractor struct {
	classifier   Classifier
	minRelevance float64
	topN         int
	logger       zerolog.Logger
}

// NewExtractor creates an extractor using cfg.MinRelevance and cfg.TopLabels.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewExtractor(classifier Classifier, cfg Config, logger zerolog.Logger) *Extractor {
	return &Extractor{
		classifier:   classifier,
		minRelevance: cfg.MinRelevance,
		topN:         cfg.TopLabels,
		logger:       logger.With().Str("component", "extractor").Logger(),
	}
}

type scoredLabel struct {
	label string
	score float64
}

// Extract scores text against labels.
//
// Blank text returns an empty map without calling the classifier. Scores
// below the minimum relevance are dropped before the optional top-N cut,
// and keys are lowercased. A classifier failure is logged and yields an
// empty map.
func (e *Extractor) Extract(ctx context.Context, text string, labels []string) LabelScores {
	if strings.TrimSpace(text) == "" || len(labels) == 0 {
		return LabelScores{}
	}

	res, err := e.classifier.Classify(ctx, text, labels)
	if err != nil {
		e.logger.Warn().Err(err).Int("labels", len(labels)).Msg("classification failed, continuing without text evidence")
		return LabelScores{}
	}
	if len(res.Labels) != len(res.Scores) {
		e.logger.Warn().Int("labels", len(res.Labels)).Int("scores", len(res.Scores)).Msg("classifier returned mismatched labels and scores")
		return LabelScores{}
	}

	kept := make([]scoredLabel, 0, len(res.Labels))
	for i, label := range res.Labels {
		if res.Scores[i] < e.minRelevance {
			continue
		}
		kept = append(kept, scoredLabel{label: strings.ToLower(strings.TrimSpace(label)), score: res.Scores[i]})
	}

	if e.topN > 0 && len(kept) > e.topN {
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
		kept = kept[:e.topN]
	}

	out := make(LabelScores, len(kept))
	for _, sl := range kept {
		if prev, dup := out[sl.label]; !dup || sl.score > prev {
			out[sl.label] = sl.score
		}
	}
	return out
}

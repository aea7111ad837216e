// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/llm"
	"github.com/tomtom215/trilha/internal/metrics"
)

// PersonalityInferer estimates the five traits from free text.
type PersonalityInferer struct {
	generator llm.Generator
	logger    zerolog.Logger
}

// NewPersonalityInferer returns an inferer backed by generator.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPersonalityInferer(generator llm.Generator, logger zerolog.Logger) *PersonalityInferer {
	return &PersonalityInferer{
		generator: generator,
		logger:    logger.With().Str("component", "personality").Logger(),
	}
}

const personalityPrompt = `Analyse the answers below, written by a student during an interest interview.
Rate each trait from 1 (very low) to 5 (very high).

Answers:
%s

Reply with only a JSON object of the form:
{"detail_orientation": 1-5, "analytical_thinking": 1-5, "creativity": 1-5, "teamwork": 1-5, "self_motivation": 1-5, "observation": "one short sentence"}`

// Infer returns the inferred personality. Blank text, generator errors and
// unparseable output all produce NeutralPersonality; the latter two set
// Error so callers can tell a fallback from a real neutral reading.
func (pi *PersonalityInferer) Infer(ctx context.Context, text string) Personality {
	if strings.TrimSpace(text) == "" || pi.generator == nil {
		return NeutralPersonality()
	}

	raw, err := pi.generator.Generate(ctx, fmt.Sprintf(personalityPrompt, text), llm.Options{JSON: true, Temperature: 0.2})
	if err != nil {
		pi.logger.Warn().Err(err).Msg("personality inference failed")
		p := NeutralPersonality()
		p.Error = "personality inference unavailable"
		return p
	}

	p := NeutralPersonality()
	if err := llm.DecodeJSON(raw, &p); err != nil {
		metrics.LLMParseFailures.WithLabelValues("personality").Inc()
		pi.logger.Warn().Err(err).Msg("personality response could not be parsed")
		fallback := NeutralPersonality()
		fallback.Error = "could not parse personality analysis"
		return fallback
	}

	p.Error = ""
	return p.Clamped()
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/llm"
	"github.com/tomtom215/trilha/internal/metrics"
	"github.com/tomtom215/trilha/internal/models"
)

// Summary error markers.
const (
	summaryUnavailable = "could not analyze feedback"
	summaryUnparsable  = "could not parse feedback analysis"
)

// Analyzer computes satisfaction and summarizes free-text feedback.
type Analyzer struct {
	generator llm.Generator
	logger    zerolog.Logger
}

// NewAnalyzer creates an analyzer. A nil generator disables thematic
// summaries; affected analyses carry an error marker.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAnalyzer(generator llm.Generator, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		generator: generator,
		logger:    logger.With().Str("component", "feedback-analyzer").Logger(),
	}
}

// Analyze considers records created within windowDays of now (all records
// when windowDays <= 0). Each record contributes the mean of its ratings to
// its session bucket; the overall mean is the mean of non-empty buckets.
// Unknown session types count as general.
func (a *Analyzer) Analyze(ctx context.Context, records []models.FeedbackRecord, windowDays int, now time.Time) Analysis {
	analysis := Analysis{
		State:        StateNoFeedback,
		WindowDays:   windowDays,
		SessionMeans: map[models.SessionType]float64{},
	}

	var cutoff time.Time
	if windowDays > 0 {
		cutoff = now.AddDate(0, 0, -windowDays)
	}

	sums := map[models.SessionType]float64{}
	counts := map[models.SessionType]int{}
	var missing, suggestions []string

	for i := range records {
		rec := &records[i]
		if !cutoff.IsZero() && rec.CreatedAt.Before(cutoff) {
			continue
		}
		analysis.RecordCount++

		if m, ok := rec.RatingMean(); ok {
			st := rec.SessionType
			if !st.Valid() {
				st = models.SessionGeneral
			}
			sums[st] += m
			counts[st]++
		}
		if s := strings.TrimSpace(rec.MissingTopics); s != "" {
			missing = append(missing, s)
		}
		if s := strings.TrimSpace(rec.Suggestions); s != "" {
			suggestions = append(suggestions, s)
		}
	}

	if analysis.RecordCount == 0 {
		return analysis
	}
	analysis.State = StateAnalyzed

	var overall float64
	for _, st := range models.SessionTypes {
		if counts[st] == 0 {
			continue
		}
		mean := sums[st] / float64(counts[st])
		analysis.SessionMeans[st] = mean
		overall += mean
	}
	if n := len(analysis.SessionMeans); n > 0 {
		analysis.HasRatings = true
		analysis.OverallMean = overall / float64(n)
		analysis.Satisfaction = ClassifySatisfaction(analysis.OverallMean)
	}

	if len(missing) > 0 || len(suggestions) > 0 {
		analysis.Summary = a.summarize(ctx, missing, suggestions)
	}

	a.logger.Debug().
		Int("records", analysis.RecordCount).
		Float64("overall_mean", analysis.OverallMean).
		Str("satisfaction", string(analysis.Satisfaction)).
		Msg("feedback analyzed")

	return analysis
}

const summaryPrompt = `Students of an online learning platform left the feedback below.

Topics they missed:
%s

Suggestions:
%s

Summarize the themes. Reply with only a JSON object:
{"missing_interests": ["..."], "improvement_areas": ["..."], "positive_points": ["..."]}
Each missing interest should be a short subject name.`

func (a *Analyzer) summarize(ctx context.Context, missing, suggestions []string) Summary {
	if a.generator == nil {
		return Summary{Error: summaryUnavailable}
	}

	prompt := fmt.Sprintf(summaryPrompt, bulletList(missing), bulletList(suggestions))
	raw, err := a.generator.Generate(ctx, prompt, llm.Options{JSON: true, Temperature: 0.2})
	if err != nil {
		a.logger.Warn().Err(err).Msg("feedback summary failed")
		return Summary{Error: summaryUnavailable}
	}

	var s Summary
	if err := llm.DecodeJSON(raw, &s); err != nil {
		metrics.LLMParseFailures.WithLabelValues("feedback_summary").Inc()
		a.logger.Warn().Err(err).Msg("feedback summary could not be parsed")
		return Summary{Error: summaryUnparsable}
	}
	s.Error = ""
	s.MissingInterests = compact(s.MissingInterests)
	s.ImprovementAreas = compact(s.ImprovementAreas)
	s.PositivePoints = compact(s.PositivePoints)
	return s
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- (none)"
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(it)
	}
	return b.String()
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package feedback

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/catalog"
	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/llm"
	"github.com/tomtom215/trilha/internal/models"
	"github.com/tomtom215/trilha/internal/recommend"
)

// Defaults for AdapterConfig.
const (
	DefaultAmplifyFactor  = 1.5
	DefaultSwitchGap      = 0.2
	DefaultRebalanceBelow = 3.5
	DefaultRebalanceStep  = 0.2
	// defaultInsertScore is used for a new keyword when no scores exist.
	defaultInsertScore = 0.5
)

// AdapterConfig holds the rule parameters.
type AdapterConfig struct {
	AmplifyFactor float64
	// AmplificationCeiling caps amplified scores. 0 leaves them unbounded.
	AmplificationCeiling float64
	SwitchGap            float64
	RebalanceBelow       float64
	RebalanceStep        float64
	// TrackThreshold is used to recompute track scores after amplification.
	TrackThreshold float64
}

// DefaultAdapterConfig returns the documented rule parameters.
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		AmplifyFactor:  DefaultAmplifyFactor,
		SwitchGap:      DefaultSwitchGap,
		RebalanceBelow: DefaultRebalanceBelow,
		RebalanceStep:  DefaultRebalanceStep,
		TrackThreshold: recommend.DefaultTrackThreshold,
	}
}

// AdapterConfigFrom converts the feedback section of the configuration.
func AdapterConfigFrom(cfg config.FeedbackConfig, trackThreshold float64) AdapterConfig {
	return AdapterConfig{
		AmplifyFactor:        cfg.AmplifyFactor,
		AmplificationCeiling: cfg.AmplificationCeiling,
		SwitchGap:            cfg.SwitchGap,
		RebalanceBelow:       cfg.RebalanceBelow,
		RebalanceStep:        cfg.RebalanceStep,
		TrackThreshold:       trackThreshold,
	}
}

// Adapter applies the adaptation rules to a profile.
type Adapter struct {
	generator llm.Generator
	catalog   *catalog.Catalog
	cfg       AdapterConfig
	logger    zerolog.Logger
}

// NewAdapter creates an adapter. generator may be nil, in which case
// missing interests are used verbatim as keywords.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAdapter(generator llm.Generator, cat *catalog.Catalog, cfg AdapterConfig, logger zerolog.Logger) *Adapter {
	return &Adapter{
		generator: generator,
		catalog:   cat,
		cfg:       cfg,
		logger:    logger.With().Str("component", "feedback-adapter").Logger(),
	}
}

// Adapt applies the rules that the analysis triggers. p is not modified.
func (a *Adapter) Adapt(ctx context.Context, p *models.UserProfile, analysis Analysis) AdaptationResult {
	res := AdaptationResult{
		Satisfaction: analysis.Satisfaction,
		Rules:        []string{},
		Changes:      []string{},
		Preferences:  p.Preferences.Clone(),
	}

	if analysis.State == StateNoFeedback || analysis.RecordCount == 0 {
		res.Reason = "no feedback in the analysis window"
		return res
	}
	if !p.HasRecommendation() {
		res.Reason = "profile has no recommended track or track scores"
		return res
	}

	if analysis.HasRatings && analysis.Satisfaction.Poor() {
		if proposal, change, ok := a.reconsiderTrack(p); ok {
			res.ProposedTrack = proposal
			res.Rules = append(res.Rules, RuleTrackSwitch)
			res.Changes = append(res.Changes, change)
		}
	}

	if len(analysis.Summary.MissingInterests) > 0 {
		scores, changes := a.amplify(ctx, p.FinalScores, analysis.Summary.MissingInterests)
		if len(changes) > 0 {
			res.ScoresChanged = true
			res.FinalScores = scores
			res.TrackScores = recommend.Aggregate(scores, a.catalog.Tracks, a.cfg.TrackThreshold)
			res.Rules = append(res.Rules, RuleAmplification)
			res.Changes = append(res.Changes, changes...)
		}
	}

	if studyMean, ok := analysis.SessionMean(models.SessionStudy); ok && studyMean < a.cfg.RebalanceBelow {
		if prefs, change, ok := a.rebalance(p.Preferences); ok {
			res.PreferencesChanged = true
			res.Preferences = prefs
			res.Rules = append(res.Rules, RuleRebalance)
			res.Changes = append(res.Changes, change)
		}
	}

	res.Adapted = len(res.Rules) > 0
	if !res.Adapted {
		res.Reason = "no adaptation rule applied"
	}
	return res
}

// reconsiderTrack proposes the runner-up track when it is close to the top.
// An existing proposal for the same track is reaffirmed, not suppressed.
func (a *Adapter) reconsiderTrack(p *models.UserProfile) (string, string, bool) {
	type entry struct {
		track string
		score float64
	}
	ranked := make([]entry, 0, len(p.TrackScores))
	for t, s := range p.TrackScores {
		ranked = append(ranked, entry{t, s})
	}
	if len(ranked) < 2 {
		return "", "", false
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		oi, oj := a.catalog.TrackOrder(ranked[i].track), a.catalog.TrackOrder(ranked[j].track)
		if oi != oj {
			return oi >= 0 && (oj < 0 || oi < oj)
		}
		return ranked[i].track < ranked[j].track
	})

	top, second := ranked[0], ranked[1]
	gap := top.score - second.score
	if gap >= a.cfg.SwitchGap {
		return "", "", false
	}

	proposal := second.track
	if proposal == p.RecommendedTrack {
		proposal = top.track
	}
	if proposal == p.RecommendedTrack {
		return "", "", false
	}
	return proposal, fmt.Sprintf("proposed switching from %s to %s (gap %.2f)", p.RecommendedTrack, proposal, gap), true
}

// amplify boosts or inserts the keywords behind each missing interest.
func (a *Adapter) amplify(ctx context.Context, current recommend.LabelScores, interests []string) (recommend.LabelScores, []string) {
	scores := current.Clone()
	var changes []string
	seen := map[string]struct{}{}

	for _, interest := range interests {
		for _, kw := range a.resolveKeywords(ctx, interest) {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}

			if old, ok := scores[kw]; ok {
				next := a.capScore(old * a.cfg.AmplifyFactor)
				scores[kw] = next
				changes = append(changes, fmt.Sprintf("amplified %q from %.3f to %.3f", kw, old, next))
				continue
			}

			insert := defaultInsertScore
			if mean, ok := scores.Mean(); ok {
				insert = mean
			}
			insert = a.capScore(insert)
			scores[kw] = insert
			changes = append(changes, fmt.Sprintf("added %q at %.3f", kw, insert))
		}
	}
	return scores, changes
}

func (a *Adapter) capScore(v float64) float64 {
	if a.cfg.AmplificationCeiling > 0 && v > a.cfg.AmplificationCeiling {
		return a.cfg.AmplificationCeiling
	}
	return v
}

const keywordPrompt = `A student said this topic was missing from their studies: "%s".
Pick the closest subjects from this list:
%s

Reply with only the chosen subjects, comma-separated, in lowercase.`

// resolveKeywords maps an interest to taxonomy keywords. Any failure falls
// back to the lowercased interest itself.
func (a *Adapter) resolveKeywords(ctx context.Context, interest string) []string {
	fallback := []string{catalog.NormalizeLabel(interest)}
	if fallback[0] == "" {
		return nil
	}
	if a.generator == nil {
		return fallback
	}

	raw, err := a.generator.Generate(ctx, fmt.Sprintf(keywordPrompt, interest, strings.Join(a.catalog.Labels(), ", ")), llm.Options{Temperature: 0.1})
	if err != nil {
		a.logger.Warn().Err(err).Str("interest", interest).Msg("keyword resolution failed, using raw interest")
		return fallback
	}
	keywords := llm.SplitList(raw)
	if len(keywords) == 0 {
		return fallback
	}
	return keywords
}

// rebalance shrinks the dominant content type and grows every other one.
func (a *Adapter) rebalance(prefs recommend.Preferences) (recommend.Preferences, string, bool) {
	if len(prefs.ContentTypes) == 0 {
		return prefs, "", false
	}

	keys := make([]string, 0, len(prefs.ContentTypes))
	for k := range prefs.ContentTypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	dominant := keys[0]
	for _, k := range keys[1:] {
		if prefs.ContentTypes[k] > prefs.ContentTypes[dominant] {
			dominant = k
		}
	}

	out := prefs.Clone()
	for _, k := range keys {
		if k == dominant {
			out.ContentTypes[k] *= 1 - a.cfg.RebalanceStep
		} else {
			out.ContentTypes[k] *= 1 + a.cfg.RebalanceStep
		}
	}
	return out, fmt.Sprintf("rebalanced content preferences away from %s", dominant), true
}

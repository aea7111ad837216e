// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package feedback

import (
	"github.com/tomtom215/trilha/internal/models"
	"github.com/tomtom215/trilha/internal/recommend"
)

// State is the position of a user in the adaptation cycle.
type State string

const (
	StateNoFeedback State = "NO_FEEDBACK"
	StateAnalyzed   State = "ANALYZED"
	StateAdapted    State = "ADAPTED"
)

// Satisfaction is one of the six satisfaction tiers.
type Satisfaction string

const (
	SatisfactionExcellent        Satisfaction = "Excellent"
	SatisfactionVeryGood         Satisfaction = "Very Good"
	SatisfactionGood             Satisfaction = "Good"
	SatisfactionSatisfactory     Satisfaction = "Satisfactory"
	SatisfactionNeedsImprovement Satisfaction = "Needs Improvement"
	SatisfactionUnsatisfactory   Satisfaction = "Unsatisfactory"
)

// ClassifySatisfaction maps a 1-5 mean onto a tier. Each tier includes its
// lower bound.
func ClassifySatisfaction(mean float64) Satisfaction {
	switch {
	case mean >= 4.5:
		return SatisfactionExcellent
	case mean >= 4.0:
		return SatisfactionVeryGood
	case mean >= 3.5:
		return SatisfactionGood
	case mean >= 3.0:
		return SatisfactionSatisfactory
	case mean >= 2.0:
		return SatisfactionNeedsImprovement
	default:
		return SatisfactionUnsatisfactory
	}
}

// Poor reports whether the tier should trigger track reconsideration.
func (s Satisfaction) Poor() bool {
	return s == SatisfactionNeedsImprovement || s == SatisfactionUnsatisfactory
}

// Summary is the thematic summary of free-text feedback.
type Summary struct {
	MissingInterests []string `json:"missing_interests"`
	ImprovementAreas []string `json:"improvement_areas"`
	PositivePoints   []string `json:"positive_points"`
	// Error is set when the summary could not be produced.
	Error string `json:"error,omitempty"`
}

// Analysis is the outcome of Analyzer.Analyze.
type Analysis struct {
	State       State `json:"state"`
	WindowDays  int   `json:"window_days"`
	RecordCount int   `json:"record_count"`
	// SessionMeans holds the mean per non-empty session bucket.
	SessionMeans map[models.SessionType]float64 `json:"session_means"`
	// OverallMean is the mean of SessionMeans; valid only if HasRatings.
	OverallMean  float64      `json:"overall_mean"`
	HasRatings   bool         `json:"has_ratings"`
	Satisfaction Satisfaction `json:"satisfaction,omitempty"`
	Summary      Summary      `json:"summary"`
}

// SessionMean returns the mean for one bucket.
func (a *Analysis) SessionMean(s models.SessionType) (float64, bool) {
	v, ok := a.SessionMeans[s]
	return v, ok
}

// Rule names used in metrics and results.
const (
	RuleTrackSwitch   = "track_switch"
	RuleAmplification = "interest_amplification"
	RuleRebalance     = "content_rebalance"
)

// AdaptationResult is the outcome of Adapter.Adapt. The input profile is
// never modified; the new values are carried here.
type AdaptationResult struct {
	Adapted bool `json:"adapted"`
	// Reason explains a no-op.
	Reason       string       `json:"reason,omitempty"`
	Satisfaction Satisfaction `json:"satisfaction,omitempty"`
	Rules        []string     `json:"rules"`
	Changes      []string     `json:"changes"`

	ProposedTrack string `json:"proposed_track,omitempty"`

	ScoresChanged bool                  `json:"scores_changed"`
	FinalScores   recommend.LabelScores `json:"final_scores,omitempty"`
	TrackScores   recommend.TrackScores `json:"track_scores,omitempty"`

	PreferencesChanged bool                  `json:"preferences_changed"`
	Preferences        recommend.Preferences `json:"preferences"`
}

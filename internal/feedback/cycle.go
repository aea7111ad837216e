// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/metrics"
	"github.com/tomtom215/trilha/internal/models"
	"github.com/tomtom215/trilha/internal/profile"
	"github.com/tomtom215/trilha/internal/recommend"
	"github.com/tomtom215/trilha/internal/store"
)

// Cycle outcomes, used as metric labels.
const (
	OutcomeAdapted    = "adapted"
	OutcomeNoFeedback = "no_feedback"
	OutcomeSkipped    = "skipped"
	OutcomeError      = "error"
)

// CycleResult is the outcome of one Cycle.Run.
type CycleResult struct {
	UserID   string                   `json:"user_id"`
	State    State                    `json:"state"`
	Analysis Analysis                 `json:"analysis"`
	Result   AdaptationResult         `json:"result"`
	Record   *models.AdaptationRecord `json:"record,omitempty"`
	Profile  *models.UserProfile      `json:"profile,omitempty"`
}

// Cycle runs analysis and adaptation for one user and persists the result.
type Cycle struct {
	repo       *profile.Repository
	analyzer   *Analyzer
	adapter    *Adapter
	windowDays int
	locks      *userLocks
	now        func() time.Time
	logger     zerolog.Logger
}

// NewCycle wires a cycle. windowDays <= 0 analyzes all feedback.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCycle(repo *profile.Repository, analyzer *Analyzer, adapter *Adapter, windowDays int, logger zerolog.Logger) *Cycle {
	return &Cycle{
		repo:       repo,
		analyzer:   analyzer,
		adapter:    adapter,
		windowDays: windowDays,
		locks:      newUserLocks(),
		now:        time.Now,
		logger:     logger.With().Str("component", "adaptation").Logger(),
	}
}

// maxCommitAttempts bounds how often Run restarts after a concurrent
// profile write.
const maxCommitAttempts = 3

// Run executes one adaptation cycle for userID. Runs for the same user are
// serialized. Only feedback newer than the profile's FeedbackWatermark is
// analyzed, so a record drives at most one adaptation. The profile change
// and its history entry are committed together; when another writer bumps
// the profile in between, the cycle starts over from a fresh read.
func (c *Cycle) Run(ctx context.Context, userID string) (*CycleResult, error) {
	unlock := c.locks.lock(userID)
	defer unlock()

	logger := logging.Ctx(ctx).With().Str("component", "adaptation").Str("user_id", userID).Logger()

	var err error
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		var out *CycleResult
		out, err = c.runOnce(ctx, userID, &logger)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			break
		}
		logger.Debug().Err(err).Int("attempt", attempt).Msg("profile changed during adaptation, retrying")
	}
	metrics.RecordAdaptation(OutcomeError, nil)
	return nil, err
}

func (c *Cycle) runOnce(ctx context.Context, userID string, logger *zerolog.Logger) (*CycleResult, error) {
	p, err := c.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	var since time.Time
	if c.windowDays > 0 {
		since = now.AddDate(0, 0, -c.windowDays)
	}
	records, err := c.repo.ListFeedback(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	records, watermark := unconsumed(records, p.FeedbackWatermark)

	analysis := c.analyzer.Analyze(ctx, records, c.windowDays, now)
	result := c.adapter.Adapt(ctx, p, analysis)

	out := &CycleResult{
		UserID:   userID,
		State:    analysis.State,
		Analysis: analysis,
		Result:   result,
		Profile:  p,
	}

	if !result.Adapted {
		outcome := OutcomeSkipped
		if analysis.State == StateNoFeedback {
			outcome = OutcomeNoFeedback
		}
		// Analyzed feedback is consumed even when no rule fired. Feedback
		// that arrived before the profile had a recommendation is kept.
		if len(records) > 0 && p.HasRecommendation() {
			updated, err := c.repo.Update(ctx, userID, p.Version, func(p *models.UserProfile) {
				p.FeedbackWatermark = watermark
			})
			if err != nil {
				return nil, fmt.Errorf("advance feedback watermark: %w", err)
			}
			out.Profile = updated
		}
		metrics.RecordAdaptation(outcome, nil)
		logger.Debug().Str("reason", result.Reason).Int("records", len(records)).Msg("adaptation skipped")
		return out, nil
	}

	updated, rec, err := c.repo.ApplyAdaptation(ctx, userID, p.Version, func(p *models.UserProfile) {
		applyResult(p, result)
		p.FeedbackWatermark = watermark
	}, models.AdaptationRecord{
		Timestamp:    now,
		Changes:      result.Changes,
		Satisfaction: string(result.Satisfaction),
	})
	if err != nil {
		return nil, err
	}

	out.State = StateAdapted
	out.Record = &rec
	out.Profile = updated
	metrics.RecordAdaptation(OutcomeAdapted, result.Rules)

	logger.Info().
		Strs("rules", result.Rules).
		Str("satisfaction", string(result.Satisfaction)).
		Int("changes", len(result.Changes)).
		Int("records", len(records)).
		Msg("profile adapted")

	return out, nil
}

// applyResult copies the fields the adaptation changed onto p.
func applyResult(p *models.UserProfile, result AdaptationResult) {
	if result.ScoresChanged {
		p.FinalScores = result.FinalScores.Clone()
		p.TrackScores = make(recommend.TrackScores, len(result.TrackScores))
		for k, v := range result.TrackScores {
			p.TrackScores[k] = v
		}
	}
	if result.PreferencesChanged {
		p.Preferences = result.Preferences.Clone()
	}
	if result.ProposedTrack != "" {
		p.ProposedTrack = result.ProposedTrack
	}
}

// unconsumed returns the records created after watermark and the newest
// CreatedAt among them (watermark itself when none are left).
func unconsumed(records []models.FeedbackRecord, watermark time.Time) ([]models.FeedbackRecord, time.Time) {
	out := make([]models.FeedbackRecord, 0, len(records))
	newest := watermark
	for _, rec := range records {
		if !rec.CreatedAt.After(watermark) {
			continue
		}
		out = append(out, rec)
		if rec.CreatedAt.After(newest) {
			newest = rec.CreatedAt
		}
	}
	return out, newest
}

// RunAll runs a cycle for every stored profile and returns how many were
// adapted. Individual failures are logged and do not stop the sweep.
func (c *Cycle) RunAll(ctx context.Context) (int, error) {
	ids, err := c.repo.ListUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	adapted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return adapted, err
		}
		res, err := c.Run(logging.ContextWithNewCorrelationID(ctx), id)
		if err != nil {
			c.logger.Warn().Err(err).Str("user_id", id).Msg("adaptation failed")
			continue
		}
		if res.State == StateAdapted {
			adapted++
		}
	}
	return adapted, nil
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package profile stores user profiles, feedback and adaptation history.
//
// Profiles are written with read-modify-write updates: Update and
// ApplyAdaptation read the stored document, check the caller's expected
// version, apply the caller's change and write back with a compare-and-swap.
// A stale expected version fails with store.ErrVersionConflict instead of
// silently overwriting a concurrent change.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/trilha/internal/models"
	"github.com/tomtom215/trilha/internal/store"
)

// Collections
const (
	usersCollection       = "users"
	feedbackCollection    = "feedback"
	adaptationsCollection = "adaptations"
)

// ErrProfileNotFound is returned when a user has no stored profile.
var ErrProfileNotFound = errors.New("profile not found")

// AnyVersion skips the expected-version check of Update and ApplyAdaptation. The
// write is still a compare-and-swap against the version just read.
const AnyVersion uint64 = 0

// Repository is the profile persistence layer over a store.Store.
type Repository struct {
	store store.Store
	now   func() time.Time
}

// NewRepository creates a repository on s.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s, now: time.Now}
}

// Get loads a user's profile.
func (r *Repository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	version, err := r.store.Get(ctx, usersCollection, userID, &p)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.Version = version
	return &p, nil
}

// Save stores the result of a mapping run as the user's profile, replacing
// any previous mapping output. CreatedAt survives the replacement.
func (r *Repository) Save(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	if p.UserID == "" {
		return nil, fmt.Errorf("save profile: %w", store.ErrInvalidKey)
	}
	now := r.now().UTC()
	next := *p
	next.CreatedAt = now
	next.UpdatedAt = now

	existing, err := r.Get(ctx, p.UserID)
	switch {
	case err == nil:
		next.CreatedAt = existing.CreatedAt
		next.FeedbackWatermark = existing.FeedbackWatermark
		next.Version = existing.Version
	case errors.Is(err, ErrProfileNotFound):
		next.Version = 0
	default:
		return nil, err
	}

	version, err := r.store.Update(ctx, usersCollection, p.UserID, next.Version, &next)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	next.Version = version
	return &next, nil
}

// Update applies fn to the stored profile and writes it back.
func (r *Repository) Update(ctx context.Context, userID string, expected uint64, fn func(p *models.UserProfile)) (*models.UserProfile, error) {
	p, err := r.load(ctx, userID, expected)
	if err != nil {
		return nil, err
	}
	fn(p)
	p.UpdatedAt = r.now().UTC()

	version, err := r.store.Update(ctx, usersCollection, userID, p.Version, p)
	if err != nil {
		return nil, fmt.Errorf("update profile %s: %w", userID, err)
	}
	p.Version = version
	return p, nil
}

// ApplyAdaptation applies fn to the stored profile and appends rec to the
// adaptation history in one atomic write. On error neither is stored.
func (r *Repository) ApplyAdaptation(ctx context.Context, userID string, expected uint64, fn func(p *models.UserProfile), rec models.AdaptationRecord) (*models.UserProfile, models.AdaptationRecord, error) {
	p, err := r.load(ctx, userID, expected)
	if err != nil {
		return nil, rec, err
	}
	fn(p)
	now := r.now().UTC()
	p.UpdatedAt = now
	rec = r.fillAdaptation(userID, rec, now)

	version, err := r.store.UpdateAndAppend(ctx, usersCollection, userID, p.Version, p, adaptationsCollection, rec)
	if err != nil {
		return nil, rec, fmt.Errorf("apply adaptation %s: %w", userID, err)
	}
	p.Version = version
	return p, rec, nil
}

// load reads the profile and checks it against expected.
func (r *Repository) load(ctx context.Context, userID string, expected uint64) (*models.UserProfile, error) {
	p, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if expected != AnyVersion && p.Version != expected {
		return nil, fmt.Errorf("update profile %s: %w: stored %d, expected %d", userID, store.ErrVersionConflict, p.Version, expected)
	}
	return p, nil
}

// ListUserIDs returns every user with a stored profile.
func (r *Repository) ListUserIDs(ctx context.Context) ([]string, error) {
	ids, err := r.store.ListIDs(ctx, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

// AppendFeedback stores a feedback record, filling ID, UserID and
// CreatedAt when they are empty.
func (r *Repository) AppendFeedback(ctx context.Context, userID string, rec models.FeedbackRecord) (models.FeedbackRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.UserID = userID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	if err := r.store.Append(ctx, feedbackCollection, userID, rec); err != nil {
		return rec, fmt.Errorf("append feedback: %w", err)
	}
	return rec, nil
}

// ListFeedback returns the user's feedback records created at or after
// since, oldest first. A zero since returns everything.
func (r *Repository) ListFeedback(ctx context.Context, userID string, since time.Time) ([]models.FeedbackRecord, error) {
	out := []models.FeedbackRecord{}
	err := r.store.List(ctx, feedbackCollection, userID, func(data []byte) error {
		var rec models.FeedbackRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		if since.IsZero() || !rec.CreatedAt.Before(since) {
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// AppendAdaptation adds an entry to the user's adaptation history.
func (r *Repository) AppendAdaptation(ctx context.Context, userID string, rec models.AdaptationRecord) (models.AdaptationRecord, error) {
	rec = r.fillAdaptation(userID, rec, r.now().UTC())
	if err := r.store.Append(ctx, adaptationsCollection, userID, rec); err != nil {
		return rec, fmt.Errorf("append adaptation: %w", err)
	}
	return rec, nil
}

func (r *Repository) fillAdaptation(userID string, rec models.AdaptationRecord, now time.Time) models.AdaptationRecord {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.UserID = userID
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now
	}
	return rec
}

// ListAdaptations returns the user's adaptation history, oldest first.
func (r *Repository) ListAdaptations(ctx context.Context, userID string) ([]models.AdaptationRecord, error) {
	out := []models.AdaptationRecord{}
	err := r.store.List(ctx, adaptationsCollection, userID, func(data []byte) error {
		var rec models.AdaptationRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list adaptations: %w", err)
	}
	return out, nil
}

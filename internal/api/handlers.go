// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/trilha/internal/catalog"
	"github.com/tomtom215/trilha/internal/events"
	"github.com/tomtom215/trilha/internal/feedback"
	"github.com/tomtom215/trilha/internal/profile"
	"github.com/tomtom215/trilha/internal/recommend"
)

// Mapper runs an interest mapping.
type Mapper interface {
	Map(ctx context.Context, a recommend.Answers) (*recommend.MappingResult, error)
}

// AdaptationRunner runs adaptation cycles.
type AdaptationRunner interface {
	Run(ctx context.Context, userID string) (*feedback.CycleResult, error)
	RunAll(ctx context.Context) (int, error)
}

// FeedbackPublisher announces stored feedback.
type FeedbackPublisher interface {
	PublishFeedback(ctx context.Context, evt events.FeedbackSubmitted) error
}

// Deps are the collaborators of Handler. Publisher is optional; without it
// feedback is only picked up by the periodic sweep or an explicit
// adaptation request.
type Deps struct {
	Catalog   *catalog.Catalog
	Mapper    Mapper
	Profiles  *profile.Repository
	Cycle     AdaptationRunner
	Publisher FeedbackPublisher
	Version   string
}

// Handler implements the HTTP endpoints.
type Handler struct {
	catalog   *catalog.Catalog
	mapper    Mapper
	profiles  *profile.Repository
	cycle     AdaptationRunner
	publisher FeedbackPublisher
	version   string
	startTime time.Time
}

// NewHandler checks that the required collaborators are present.
func NewHandler(d Deps) (*Handler, error) {
	switch {
	case d.Catalog == nil:
		return nil, errors.New("api: catalog is required")
	case d.Mapper == nil:
		return nil, errors.New("api: mapper is required")
	case d.Profiles == nil:
		return nil, errors.New("api: profile repository is required")
	case d.Cycle == nil:
		return nil, errors.New("api: adaptation runner is required")
	}
	version := d.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		catalog:   d.Catalog,
		mapper:    d.Mapper,
		profiles:  d.Profiles,
		cycle:     d.Cycle,
		publisher: d.Publisher,
		version:   version,
		startTime: time.Now(),
	}, nil
}

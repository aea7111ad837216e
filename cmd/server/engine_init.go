// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/trilha/internal/catalog"
	"github.com/tomtom215/trilha/internal/classifier"
	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/feedback"
	"github.com/tomtom215/trilha/internal/llm"
	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/profile"
	"github.com/tomtom215/trilha/internal/recommend"
	"github.com/tomtom215/trilha/internal/store"
)

// Engine holds the scoring and adaptation components shared by the HTTP
// handlers, the event router and the sweep.
type Engine struct {
	Catalog  *catalog.Catalog
	Mapper   *recommend.Mapper
	Profiles *profile.Repository
	Cycle    *feedback.Cycle
}

// loadCatalog reads cfg.Path, or the embedded catalog when it is empty.
func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		logging.Info().Msg("Using embedded catalog")
		return catalog.Default()
	}
	logging.Info().Str("path", cfg.Path).Msg("Loading catalog")
	return catalog.Load(cfg.Path)
}

// openStore opens Badger, or a MemoryStore when in_memory is set.
func openStore(cfg config.StoreConfig) (store.Store, error) {
	if cfg.InMemory {
		logging.Warn().Msg("Using in-memory store; profiles and feedback are lost on restart")
		return store.NewMemoryStore(), nil
	}
	return store.OpenBadger(cfg)
}

// newGenerator returns nil without an API key. Every consumer of
// llm.Generator treats nil as "no generator".
func newGenerator(ctx context.Context, cfg config.GeneratorConfig) (llm.Generator, error) {
	if cfg.APIKey == "" {
		logging.Warn().Msg("Generator API key not set; personality and feedback analysis use fallbacks")
		return nil, nil
	}
	client, err := llm.NewGenAIClient(ctx, cfg, logging.WithComponent("generator"))
	if err != nil {
		return nil, err
	}
	logging.Info().Str("model", cfg.Model).Msg("Generator client initialized")
	return client, nil
}

// recommendConfig converts the classifier and scoring sections.
func recommendConfig(cfg *config.Config) recommend.Config {
	rc := recommend.DefaultConfig()
	rc.MinRelevance = cfg.Classifier.MinRelevance
	rc.TopLabels = cfg.Classifier.TopN
	rc.TrackThreshold = cfg.Scoring.TrackThreshold
	rc.TopTracks = cfg.Scoring.TopTracks
	rc.FallbackTrack = cfg.Scoring.FallbackTrack
	return rc
}

// InitEngine constructs the remote clients once and wires them into the
// mapper and the feedback cycle.
func InitEngine(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, st store.Store) (*Engine, error) {
	rc := recommendConfig(cfg)
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("scoring configuration: %w", err)
	}

	cls, err := classifier.New(cfg.Classifier, logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("create classifier: %w", err)
	}

	gen, err := newGenerator(ctx, cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}

	extractor := recommend.NewExtractor(cls, rc, logging.Logger())
	inferer := recommend.NewPersonalityInferer(gen, logging.Logger())
	mapper := recommend.NewMapper(cat, extractor, inferer, rc, logging.Logger())

	profiles := profile.NewRepository(st)
	analyzer := feedback.NewAnalyzer(gen, logging.Logger())
	adapter := feedback.NewAdapter(gen, cat, feedback.AdapterConfigFrom(cfg.Feedback, rc.TrackThreshold), logging.Logger())
	cycle := feedback.NewCycle(profiles, analyzer, adapter, cfg.Feedback.WindowDays, logging.Logger())

	return &Engine{
		Catalog:  cat,
		Mapper:   mapper,
		Profiles: profiles,
		Cycle:    cycle,
	}, nil
}

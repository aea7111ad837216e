// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package main

import (
	"context"
	"testing"

	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/events"
	"github.com/tomtom215/trilha/internal/store"
)

func TestOpenStore_InMemory(t *testing.T) {
	st, err := openStore(config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer st.Close()

	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("openStore() = %T, want *store.MemoryStore", st)
	}
}

func TestLoadCatalog_Embedded(t *testing.T) {
	cat, err := loadCatalog(config.CatalogConfig{})
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if len(cat.TrackNames()) == 0 {
		t.Error("embedded catalog has no tracks")
	}
}

func TestRecommendConfig(t *testing.T) {
	cfg := &config.Config{
		Classifier: config.ClassifierConfig{MinRelevance: 0.2, TopN: 4},
		Scoring:    config.ScoringConfig{TrackThreshold: 0.1, TopTracks: 2, FallbackTrack: "Artes"},
	}

	rc := recommendConfig(cfg)
	if rc.MinRelevance != 0.2 || rc.TopLabels != 4 {
		t.Errorf("classifier settings = (%v, %d), want (0.2, 4)", rc.MinRelevance, rc.TopLabels)
	}
	if rc.TrackThreshold != 0.1 || rc.TopTracks != 2 || rc.FallbackTrack != "Artes" {
		t.Errorf("scoring settings not carried over: %+v", rc)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestNewGenerator_NoAPIKey(t *testing.T) {
	gen, err := newGenerator(context.Background(), config.GeneratorConfig{})
	if err != nil {
		t.Fatalf("newGenerator() error = %v", err)
	}
	if gen != nil {
		t.Errorf("newGenerator() = %v, want nil without api key", gen)
	}
}

func TestInitEngine_InMemory(t *testing.T) {
	cfg := &config.Config{
		Classifier: config.ClassifierConfig{URL: "http://127.0.0.1:1/classify", MinRelevance: 0.1},
		Scoring:    config.ScoringConfig{TrackThreshold: 0.05, TopTracks: 3},
		Feedback: config.FeedbackConfig{
			WindowDays:     30,
			AmplifyFactor:  1.5,
			SwitchGap:      0.2,
			RebalanceBelow: 3.5,
			RebalanceStep:  0.2,
		},
	}
	cat, err := loadCatalog(config.CatalogConfig{})
	if err != nil {
		t.Fatal(err)
	}

	engine, err := InitEngine(context.Background(), cfg, cat, store.NewMemoryStore())
	if err != nil {
		t.Fatalf("InitEngine() error = %v", err)
	}
	if engine.Mapper == nil || engine.Cycle == nil || engine.Profiles == nil {
		t.Errorf("InitEngine() left components nil: %+v", engine)
	}
}

func TestInitEngine_MissingClassifierURL(t *testing.T) {
	cfg := &config.Config{Scoring: config.ScoringConfig{TopTracks: 3}}
	cat, err := loadCatalog(config.CatalogConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := InitEngine(context.Background(), cfg, cat, store.NewMemoryStore()); err == nil {
		t.Error("InitEngine() should fail without a classifier url")
	}
}

func TestInitEvents(t *testing.T) {
	noop := func(context.Context, string) error { return nil }

	t.Run("disabled", func(t *testing.T) {
		c, err := InitEvents(config.EventsConfig{}, noop)
		if err != nil {
			t.Fatalf("InitEvents() error = %v", err)
		}
		if c != nil {
			t.Error("InitEvents() should return nil when disabled")
		}
		if err := c.Close(); err != nil {
			t.Errorf("Close() on nil = %v", err)
		}
	})

	t.Run("in-process channel", func(t *testing.T) {
		c, err := InitEvents(config.EventsConfig{Enabled: true, FeedbackTopic: "feedback.test"}, noop)
		if err != nil {
			t.Fatalf("InitEvents() error = %v", err)
		}
		defer c.Close()

		if c.Bus.Transport != events.TransportChannel {
			t.Errorf("Transport = %q, want %q", c.Bus.Transport, events.TransportChannel)
		}
		if c.Publisher.Topic() != "feedback.test" {
			t.Errorf("Topic() = %q", c.Publisher.Topic())
		}
		if c.Router.String() != "event-router" {
			t.Errorf("Router.String() = %q", c.Router.String())
		}
	})
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package main

import (
	"fmt"

	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/events"
	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/supervisor/services"
)

// EventComponents is the feedback event pipeline. A nil value means events
// are disabled.
type EventComponents struct {
	Bus       *events.Bus
	Publisher *events.Publisher
	Router    *services.EventRouterService
}

// InitEvents opens the bus and prepares the router service. The router
// itself is built per Serve so a supervisor restart gets a fresh one.
func InitEvents(cfg config.EventsConfig, adapt events.AdaptFunc) (*EventComponents, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Feedback events disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	wmLogger := logging.NewWatermillAdapterWithLogger(logging.WithComponent("watermill"))
	bus, err := events.NewBus(cfg, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}
	logging.Info().Str("transport", bus.Transport).Str("topic", cfg.FeedbackTopic).Msg("Event bus ready")

	publisher := events.NewPublisher(bus.Publisher, cfg.FeedbackTopic, logging.Logger())
	routerSvc := services.NewEventRouterService(func() (services.EventRouter, error) {
		return events.NewRouter(cfg, bus.Subscriber, adapt, logging.Logger())
	})

	return &EventComponents{
		Bus:       bus,
		Publisher: publisher,
		Router:    routerSvc,
	}, nil
}

// Close releases the bus. Safe on nil.
func (c *EventComponents) Close() error {
	if c == nil || c.Bus == nil {
		return nil
	}
	return c.Bus.Close()
}

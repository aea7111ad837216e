// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package services

import (
	"context"
	"fmt"
)

// EventRouter is the lifecycle of events.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// EventRouterService runs the feedback event router. A watermill router
// cannot be restarted once closed, so the service builds a fresh one on
// every Serve.
type EventRouterService struct {
	newRouter func() (EventRouter, error)
}

// NewEventRouterService creates the service from a router factory.
func NewEventRouterService(newRouter func() (EventRouter, error)) *EventRouterService {
	return &EventRouterService{newRouter: newRouter}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.newRouter()
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}
	defer func() { _ = router.Close() }()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

func (s *EventRouterService) String() string {
	return "event-router"
}

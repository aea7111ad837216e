// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/metrics"
	"github.com/tomtom215/trilha/internal/profile"
)

// AdaptFunc runs one adaptation cycle for a user.
type AdaptFunc func(ctx context.Context, userID string) error

const feedbackHandlerName = "feedback-adaptation"

// Router consumes FeedbackSubmitted events and triggers adaptation.
type Router struct {
	router *message.Router
	topic  string
	adapt  AdaptFunc
	logger zerolog.Logger
}

// NewRouter builds a router with panic recovery and retry middleware and a
// single handler on cfg.FeedbackTopic.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(cfg config.EventsConfig, sub message.Subscriber, adapt AdaptFunc, logger zerolog.Logger) (*Router, error) {
	if sub == nil {
		return nil, errors.New("events: subscriber is required")
	}
	if adapt == nil {
		return nil, errors.New("events: adapt func is required")
	}
	topic := cfg.FeedbackTopic
	if topic == "" {
		topic = DefaultFeedbackTopic
	}
	closeTimeout := cfg.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = 10 * time.Second
	}
	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = 500 * time.Millisecond
	}

	wmLogger := logging.NewWatermillAdapterWithLogger(logger)
	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: closeTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: retryInterval,
		MaxInterval:     retryInterval * 20,
		Multiplier:      2,
		Logger:          wmLogger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	r := &Router{
		router: wmRouter,
		topic:  topic,
		adapt:  adapt,
		logger: logger.With().Str("component", "events").Logger(),
	}
	wmRouter.AddConsumerHandler(feedbackHandlerName, topic, sub, r.handleFeedback)
	return r, nil
}

// handleFeedback acks payloads that can never succeed and returns every
// other error so the retry middleware and transport redeliver.
func (r *Router) handleFeedback(msg *message.Message) error {
	ctx := msg.Context()
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	} else {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}

	evt, err := DecodeFeedbackSubmitted(msg)
	if err != nil {
		metrics.RecordEventConsume(r.topic, err)
		logging.Ctx(ctx).Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed feedback event")
		return nil
	}

	err = r.adapt(ctx, evt.UserID)
	metrics.RecordEventConsume(r.topic, err)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, profile.ErrProfileNotFound):
		logging.Ctx(ctx).Warn().Str("user_id", evt.UserID).Msg("Feedback event for unknown user dropped")
		return nil
	default:
		return fmt.Errorf("adapt user %s: %w", evt.UserID, err)
	}
}

// Run blocks until ctx is cancelled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.logger.Info().Str("topic", r.topic).Msg("Event router starting")
	return r.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router and waits for in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}

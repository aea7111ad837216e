// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/metrics"
	"github.com/tomtom215/trilha/internal/resilience"
)

// Publisher sends FeedbackSubmitted events behind a circuit breaker.
type Publisher struct {
	pub     message.Publisher
	topic   string
	breaker *resilience.Breaker[struct{}]
	logger  zerolog.Logger
}

// NewPublisher wraps pub. An empty topic selects DefaultFeedbackTopic.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPublisher(pub message.Publisher, topic string, logger zerolog.Logger) *Publisher {
	if topic == "" {
		topic = DefaultFeedbackTopic
	}
	return &Publisher{
		pub:     pub,
		topic:   topic,
		breaker: resilience.NewBreaker[struct{}]("events-publisher", resilience.DefaultBreakerConfig()),
		logger:  logger,
	}
}

// Topic returns the topic events are published to.
func (p *Publisher) Topic() string {
	return p.topic
}

// PublishFeedback publishes evt, propagating the correlation ID from ctx.
func (p *Publisher) PublishFeedback(ctx context.Context, evt FeedbackSubmitted) error {
	if err := evt.Validate(); err != nil {
		return err
	}
	msg, err := evt.ToMessage()
	if err != nil {
		return err
	}
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	msg.SetContext(ctx)

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.pub.Publish(p.topic, msg)
	})
	metrics.RecordEventPublish(p.topic, err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("user_id", evt.UserID).
			Str("breaker_state", p.breaker.State()).
			Msg("Failed to publish feedback event")
		return fmt.Errorf("publish feedback event: %w", err)
	}
	p.logger.Debug().Str("event_id", evt.EventID).Str("user_id", evt.UserID).Msg("Feedback event published")
	return nil
}

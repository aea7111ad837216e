// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/trilha/internal/models"
)

// DefaultFeedbackTopic is used when no topic is configured.
const DefaultFeedbackTopic = "trilha.feedback.submitted"

// Metadata keys set on every published message.
const (
	MetadataCorrelationID = "correlation_id"
	MetadataEventType     = "event_type"
)

// EventTypeFeedbackSubmitted identifies FeedbackSubmitted payloads.
const EventTypeFeedbackSubmitted = "feedback.submitted"

// ErrInvalidEvent marks payloads that can never be processed.
var ErrInvalidEvent = errors.New("invalid event")

// FeedbackSubmitted is emitted after a feedback record has been stored.
type FeedbackSubmitted struct {
	EventID     string             `json:"event_id"`
	UserID      string             `json:"user_id"`
	FeedbackID  string             `json:"feedback_id"`
	SessionType models.SessionType `json:"session_type"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// NewFeedbackSubmitted builds the event for a stored record.
func NewFeedbackSubmitted(rec *models.FeedbackRecord) FeedbackSubmitted {
	occurred := rec.CreatedAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return FeedbackSubmitted{
		EventID:     uuid.NewString(),
		UserID:      rec.UserID,
		FeedbackID:  rec.ID,
		SessionType: rec.SessionType,
		OccurredAt:  occurred,
	}
}

// Validate checks the fields the consumer relies on.
func (e *FeedbackSubmitted) Validate() error {
	if e.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidEvent)
	}
	return nil
}

// ToMessage encodes the event. The event ID doubles as the message UUID so
// JetStream can deduplicate redeliveries.
func (e *FeedbackSubmitted) ToMessage() (*message.Message, error) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal feedback event: %w", err)
	}
	msg := message.NewMessage(e.EventID, payload)
	msg.Metadata.Set(MetadataEventType, EventTypeFeedbackSubmitted)
	return msg, nil
}

// DecodeFeedbackSubmitted parses and validates a message payload.
func DecodeFeedbackSubmitted(msg *message.Message) (FeedbackSubmitted, error) {
	var evt FeedbackSubmitted
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return evt, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := evt.Validate(); err != nil {
		return evt, err
	}
	return evt, nil
}

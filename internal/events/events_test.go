// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/logging"
	"github.com/tomtom215/trilha/internal/models"
	"github.com/tomtom215/trilha/internal/profile"
)

func TestFeedbackSubmitted_RoundTrip(t *testing.T) {
	rec := &models.FeedbackRecord{
		ID:          "fb-1",
		UserID:      "u1",
		SessionType: models.SessionStudy,
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	evt := NewFeedbackSubmitted(rec)
	if evt.EventID == "" {
		t.Fatal("expected generated event ID")
	}

	msg, err := evt.ToMessage()
	if err != nil {
		t.Fatalf("ToMessage: %v", err)
	}
	if msg.UUID != evt.EventID {
		t.Errorf("message UUID = %q, want event ID %q", msg.UUID, evt.EventID)
	}
	if got := msg.Metadata.Get(MetadataEventType); got != EventTypeFeedbackSubmitted {
		t.Errorf("event_type = %q", got)
	}

	decoded, err := DecodeFeedbackSubmitted(msg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.UserID != "u1" || decoded.FeedbackID != "fb-1" || decoded.SessionType != models.SessionStudy {
		t.Errorf("decoded = %+v", decoded)
	}
	if !decoded.OccurredAt.Equal(rec.CreatedAt) {
		t.Errorf("OccurredAt = %v, want %v", decoded.OccurredAt, rec.CreatedAt)
	}
}

func TestDecodeFeedbackSubmitted_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"garbage", "not json"},
		{"missing user", `{"event_id":"e1","feedback_id":"f1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFeedbackSubmitted(message.NewMessage("m1", []byte(tt.payload)))
			if !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("err = %v, want ErrInvalidEvent", err)
			}
		})
	}
}

// adaptRecorder records calls and replays scripted errors in order.
type adaptRecorder struct {
	mu     sync.Mutex
	calls  []string
	errs   []error
	called chan string
}

func newAdaptRecorder(errs ...error) *adaptRecorder {
	return &adaptRecorder{errs: errs, called: make(chan string, 16)}
}

func (a *adaptRecorder) adapt(_ context.Context, userID string) error {
	a.mu.Lock()
	n := len(a.calls)
	a.calls = append(a.calls, userID)
	var err error
	if n < len(a.errs) {
		err = a.errs[n]
	}
	a.mu.Unlock()
	a.called <- userID
	return err
}

func (a *adaptRecorder) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func (a *adaptRecorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case id := <-a.called:
		return id
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for adaptation")
		return ""
	}
}

func startRouter(t *testing.T, rec *adaptRecorder) (*Publisher, *Router) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	bus := NewChannelBus(logging.NewWatermillAdapterWithLogger(logger))

	cfg := config.EventsConfig{
		FeedbackTopic: "test.feedback",
		MaxRetries:    2,
		RetryInterval: time.Millisecond,
		CloseTimeout:  time.Second,
	}
	r, err := NewRouter(cfg, bus.Subscriber, rec.adapt, logger)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = r.Close()
		<-done
		_ = bus.Close()
	})

	select {
	case <-r.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	return NewPublisher(bus.Publisher, cfg.FeedbackTopic, logger), r
}

func TestRouter_RunsAdaptationForPublishedFeedback(t *testing.T) {
	rec := newAdaptRecorder()
	pub, _ := startRouter(t, rec)

	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-1")
	if err := pub.PublishFeedback(ctx, FeedbackSubmitted{UserID: "u1", FeedbackID: "f1"}); err != nil {
		t.Fatalf("PublishFeedback: %v", err)
	}
	if got := rec.wait(t); got != "u1" {
		t.Errorf("adapted user = %q, want u1", got)
	}
}

func TestRouter_RetriesTransientFailures(t *testing.T) {
	rec := newAdaptRecorder(fmt.Errorf("store busy"))
	pub, _ := startRouter(t, rec)

	if err := pub.PublishFeedback(context.Background(), FeedbackSubmitted{UserID: "u2"}); err != nil {
		t.Fatalf("PublishFeedback: %v", err)
	}
	rec.wait(t)
	rec.wait(t)
	if got := rec.count(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestRouter_DropsUnknownUsers(t *testing.T) {
	rec := newAdaptRecorder(fmt.Errorf("%w: ghost", profile.ErrProfileNotFound))
	pub, _ := startRouter(t, rec)

	if err := pub.PublishFeedback(context.Background(), FeedbackSubmitted{UserID: "ghost"}); err != nil {
		t.Fatalf("PublishFeedback: %v", err)
	}
	rec.wait(t)

	// A second event proves the first was acked rather than redelivered.
	if err := pub.PublishFeedback(context.Background(), FeedbackSubmitted{UserID: "u3"}); err != nil {
		t.Fatalf("PublishFeedback: %v", err)
	}
	if got := rec.wait(t); got != "u3" {
		t.Errorf("second call = %q, want u3", got)
	}
	if got := rec.count(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestPublisher_RejectsInvalidEvent(t *testing.T) {
	bus := NewChannelBus(nil)
	defer bus.Close()
	pub := NewPublisher(bus.Publisher, "", zerolog.New(io.Discard))

	if pub.Topic() != DefaultFeedbackTopic {
		t.Errorf("Topic = %q", pub.Topic())
	}
	err := pub.PublishFeedback(context.Background(), FeedbackSubmitted{})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("err = %v, want ErrInvalidEvent", err)
	}
}

func TestNewRouter_Validation(t *testing.T) {
	bus := NewChannelBus(nil)
	defer bus.Close()
	logger := zerolog.New(io.Discard)

	if _, err := NewRouter(config.EventsConfig{}, nil, func(context.Context, string) error { return nil }, logger); err == nil {
		t.Error("expected error without subscriber")
	}
	if _, err := NewRouter(config.EventsConfig{}, bus.Subscriber, nil, logger); err == nil {
		t.Error("expected error without adapt func")
	}
}

func TestNewBus_DefaultsToChannel(t *testing.T) {
	bus, err := NewBus(config.EventsConfig{}, nil)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus.Close()
	if bus.Transport != TransportChannel {
		t.Errorf("Transport = %q, want %q", bus.Transport, TransportChannel)
	}
}

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	a := NewWatermillAdapterWithLogger(zerolog.New(&buf))

	a.Info("router started", watermill.LogFields{"handlers": 1})
	a.Error("handler failed", errors.New("nack"), watermill.LogFields{"topic": "feedback.submitted"})
	a.With(watermill.LogFields{"subscriber": "adaptation"}).Info("subscribed", nil)

	out := buf.String()
	for _, want := range []string{"router started", `"handlers":1`, `"error":"nack"`, `"topic":"feedback.submitted"`, `"subscriber":"adaptation"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

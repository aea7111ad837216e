// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package classifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/config"
)

func newTestServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !req.Parameters.MultiLabel {
			t.Error("multi_label should be true")
		}
		if req.Inputs == "" || len(req.Parameters.CandidateLabels) == 0 {
			t.Errorf("unexpected request %+v", req)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string, ttl time.Duration) config.ClassifierConfig {
	return config.ClassifierConfig{
		URL:      url,
		Token:    "secret",
		Timeout:  2 * time.Second,
		CacheTTL: ttl,
	}
}

func TestClient_Classify(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantLabels []string
		wantErr    bool
	}{
		{
			name:       "object response",
			status:     http.StatusOK,
			body:       `{"sequence":"x","labels":["programação","música"],"scores":[0.9,0.2]}`,
			wantLabels: []string{"programação", "música"},
		},
		{
			name:       "array response",
			status:     http.StatusOK,
			body:       `[{"sequence":"x","labels":["música"],"scores":[0.4]}]`,
			wantLabels: []string{"música"},
		},
		{
			name:    "model loading",
			status:  http.StatusServiceUnavailable,
			body:    `{"error":"Model is currently loading"}`,
			wantErr: true,
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: true,
		},
		{
			name:    "empty array",
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := newTestServer(t, tt.status, tt.body, &calls)
			c, err := New(testConfig(srv.URL, 0), zerolog.Nop())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			got, err := c.Classify(context.Background(), "gosto de programar", []string{"programação", "música"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Classify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got.Labels) != len(tt.wantLabels) || len(got.Scores) != len(tt.wantLabels) {
				t.Fatalf("Classify() = %+v", got)
			}
			for i, l := range tt.wantLabels {
				if got.Labels[i] != l {
					t.Errorf("Labels[%d] = %q, want %q", i, got.Labels[i], l)
				}
			}
		})
	}
}

func TestClient_HTTPError(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, http.StatusUnauthorized, "bad token", &calls)
	c, err := New(testConfig(srv.URL, 0), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = c.Classify(context.Background(), "texto", []string{"a"})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", httpErr.StatusCode)
	}
}

func TestClient_Cache(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, http.StatusOK, `{"labels":["a"],"scores":[0.5]}`, &calls)
	c, err := New(testConfig(srv.URL, time.Minute), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.Classify(ctx, "texto", []string{"a", "b"}); err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1 (cached)", calls.Load())
	}

	if _, err := c.Classify(ctx, "texto", []string{"a"}); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("different label set should miss the cache, calls = %d", calls.Load())
	}
}

func TestClient_Validation(t *testing.T) {
	if _, err := New(config.ClassifierConfig{}, zerolog.Nop()); err == nil {
		t.Error("New() without url should fail")
	}

	c, err := New(testConfig("http://127.0.0.1:1", 0), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := c.Classify(context.Background(), "texto", nil); !errors.Is(err, ErrNoLabels) {
		t.Errorf("Classify(no labels) error = %v, want ErrNoLabels", err)
	}
}

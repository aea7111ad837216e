// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/metrics"
	"github.com/tomtom215/trilha/internal/recommend"
	"github.com/tomtom215/trilha/internal/resilience"
)

// ErrNoLabels is returned when Classify is called without candidates.
var ErrNoLabels = errors.New("no candidate labels")

// HTTPError is a non-2xx response from the classification service.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("classifier returned status %d: %s", e.StatusCode, e.Body)
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	CandidateLabels    []string `json:"candidate_labels"`
	MultiLabel         bool     `json:"multi_label"`
	HypothesisTemplate string   `json:"hypothesis_template,omitempty"`
}

type response struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// Client implements recommend.Classifier over HTTP.
type Client struct {
	url        string
	token      string
	hypothesis string
	timeout    time.Duration
	httpClient *http.Client
	cache      *cache.Cache
	breaker    *resilience.Breaker[recommend.ClassifierResult]
	logger     zerolog.Logger
}

// New creates a client from configuration. A zero CacheTTL disables caching.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg config.ClassifierConfig, logger zerolog.Logger) (*Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("classifier url is required")
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		url:        url,
		token:      strings.TrimSpace(cfg.Token),
		hypothesis: cfg.HypothesisTemplate,
		timeout:    timeout,
		httpClient: &http.Client{Transport: tr},
		breaker:    resilience.NewBreaker[recommend.ClassifierResult]("classifier", resilience.DefaultBreakerConfig()),
		logger:     logger.With().Str("component", "classifier").Logger(),
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c, nil
}

// NewWithHTTPClient is New with a custom transport, for tests.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWithHTTPClient(cfg config.ClassifierConfig, httpClient *http.Client, logger zerolog.Logger) (*Client, error) {
	c, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

// Classify scores text against every label independently.
func (c *Client) Classify(ctx context.Context, text string, labels []string) (recommend.ClassifierResult, error) {
	if len(labels) == 0 {
		return recommend.ClassifierResult{}, ErrNoLabels
	}

	key := cacheKey(text, labels)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			if res, ok := v.(recommend.ClassifierResult); ok {
				metrics.RecordClassifierCache(true)
				return res, nil
			}
		}
		metrics.RecordClassifierCache(false)
	}

	start := time.Now()
	res, err := c.breaker.Execute(func() (recommend.ClassifierResult, error) {
		return c.do(ctx, text, labels)
	})
	metrics.RecordCollaboratorCall("classifier", "classify", time.Since(start), err)
	if err != nil {
		c.logger.Warn().Err(err).Int("labels", len(labels)).Dur("elapsed", time.Since(start)).Msg("classification failed")
		return recommend.ClassifierResult{}, fmt.Errorf("classify: %w", err)
	}

	if c.cache != nil {
		c.cache.SetDefault(key, res)
	}
	c.logger.Debug().Int("labels", len(res.Labels)).Dur("elapsed", time.Since(start)).Msg("classification complete")
	return res, nil
}

func (c *Client) do(ctx context.Context, text string, labels []string) (recommend.ClassifierResult, error) {
	body, err := json.Marshal(request{
		Inputs: text,
		Parameters: parameters{
			CandidateLabels:    labels,
			MultiLabel:         true,
			HypothesisTemplate: c.hypothesis,
		},
	})
	if err != nil {
		return recommend.ClassifierResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return recommend.ClassifierResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return recommend.ClassifierResult{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return recommend.ClassifierResult{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return recommend.ClassifierResult{}, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}

	r, err := decode(raw)
	if err != nil {
		return recommend.ClassifierResult{}, err
	}
	return recommend.ClassifierResult{Labels: r.Labels, Scores: r.Scores}, nil
}

// decode accepts a single result object or a one-element array of them.
func decode(raw []byte) (response, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []response
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return response{}, fmt.Errorf("decode classifier response: %w", err)
		}
		if len(list) == 0 {
			return response{}, errors.New("classifier returned an empty result list")
		}
		return list[0], nil
	}
	var r response
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return response{}, fmt.Errorf("decode classifier response: %w", err)
	}
	return r, nil
}

func cacheKey(text string, labels []string) string {
	var b strings.Builder
	b.WriteString(text)
	b.WriteByte(0)
	for _, l := range labels {
		b.WriteString(l)
		b.WriteByte(0x1f)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ recommend.Classifier = (*Client)(nil)

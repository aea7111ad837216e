// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/metrics"
	"github.com/tomtom215/trilha/internal/resilience"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("generator returned an empty response")

// contentGenerator is the subset of the genai Models service used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIClient implements Generator with Google's Gemini API.
type GenAIClient struct {
	models      contentGenerator
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	limiter     *rate.Limiter
	breaker     *resilience.Breaker[string]
	logger      zerolog.Logger
}

// NewGenAIClient connects to the Gemini API.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGenAIClient(ctx context.Context, cfg config.GeneratorConfig, logger zerolog.Logger) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("generator api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGenAIClient(client.Models, cfg, logger), nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newGenAIClient(models contentGenerator, cfg config.GeneratorConfig, logger zerolog.Logger) *GenAIClient {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
		burst = max(1, cfg.RequestsPerMinute/10)
	}
	return &GenAIClient{
		models:      models,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		timeout:     cfg.Timeout,
		limiter:     rate.NewLimiter(limit, burst),
		breaker:     resilience.NewBreaker[string]("generator", resilience.DefaultBreakerConfig()),
		logger:      logger.With().Str("component", "generator").Str("model", cfg.Model).Logger(),
	}
}

// Generate sends prompt to the model and returns its text.
func (c *GenAIClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("generator rate limit: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.breaker.Execute(func() (string, error) {
		resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.contentConfig(opts))
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	})
	metrics.RecordCollaboratorCall("generator", "generate", time.Since(start), err)

	if err != nil {
		c.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("generation failed")
		return "", fmt.Errorf("generate content: %w", err)
	}
	c.logger.Debug().Int("chars", len(text)).Dur("elapsed", time.Since(start)).Msg("generation complete")
	return text, nil
}

func (c *GenAIClient) contentConfig(opts Options) *genai.GenerateContentConfig {
	temp := c.temperature
	if opts.Temperature > 0 {
		temp = opts.Temperature
	}
	tokens := c.maxTokens
	if opts.MaxOutputTokens > 0 {
		tokens = opts.MaxOutputTokens
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temp)),
	}
	if tokens > 0 {
		cfg.MaxOutputTokens = int32(tokens) //nolint:gosec // bounded by configuration
	}
	if opts.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

var _ Generator = (*GenAIClient)(nil)

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/trilha/config.yaml",
	"/etc/trilha/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3857,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			RequestTimeout:  45 * time.Second,
			ShutdownTimeout: 20 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Path:       "/data/trilha",
			GCInterval: 10 * time.Minute,
		},
		Classifier: ClassifierConfig{
			URL:                "https://api-inference.huggingface.co/models/facebook/bart-large-mnli",
			HypothesisTemplate: "This text is about {}.",
			Timeout:            30 * time.Second,
			MinRelevance:       0.10,
			CacheTTL:           time.Hour,
		},
		Generator: GeneratorConfig{
			Model:             "gemini-2.0-flash",
			Temperature:       0.4,
			MaxOutputTokens:   1024,
			Timeout:           30 * time.Second,
			RequestsPerMinute: 30,
		},
		Scoring: ScoringConfig{
			TrackThreshold: 0.05,
			TopTracks:      3,
			FallbackTrack:  "Tecnologia",
		},
		Feedback: FeedbackConfig{
			WindowDays:     30,
			AmplifyFactor:  1.5,
			SwitchGap:      0.2,
			RebalanceBelow: 3.5,
			RebalanceStep:  0.2,
		},
		Adaptation: AdaptationConfig{
			Enabled:  true,
			Interval: 24 * time.Hour,
			Timeout:  2 * time.Minute,
		},
		Events: EventsConfig{
			Enabled:         true,
			FeedbackTopic:   "feedback.submitted",
			QueueGroup:      "trilha-adaptation",
			MaxRetries:      3,
			RetryInterval:   time.Second,
			CloseTimeout:    30 * time.Second,
			MaxReconnects:   -1,
			ReconnectWait:   2 * time.Second,
			SubscriberCount: 1,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			JWTIssuer:       "trilha",
		},
	}
}

// Load builds the configuration from defaults, the optional config file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"http_host":                  "server.host",
	"http_port":                  "server.port",
	"http_read_timeout":          "server.read_timeout",
	"http_write_timeout":         "server.write_timeout",
	"http_request_timeout":       "server.request_timeout",
	"http_shutdown_timeout":      "server.shutdown_timeout",
	"log_level":                  "logging.level",
	"log_format":                 "logging.format",
	"log_caller":                 "logging.caller",
	"store_path":                 "store.path",
	"store_in_memory":            "store.in_memory",
	"store_sync_writes":          "store.sync_writes",
	"catalog_path":               "catalog.path",
	"classifier_url":             "classifier.url",
	"classifier_token":           "classifier.token",
	"classifier_timeout":         "classifier.timeout",
	"classifier_min_relevance":   "classifier.min_relevance",
	"classifier_top_n":           "classifier.top_n",
	"classifier_cache_ttl":       "classifier.cache_ttl",
	"gemini_api_key":             "generator.api_key",
	"generator_model":            "generator.model",
	"generator_temperature":      "generator.temperature",
	"generator_max_tokens":       "generator.max_output_tokens",
	"generator_timeout":          "generator.timeout",
	"generator_rpm":              "generator.requests_per_minute",
	"track_threshold":            "scoring.track_threshold",
	"top_tracks":                 "scoring.top_tracks",
	"fallback_track":             "scoring.fallback_track",
	"feedback_window_days":       "feedback.window_days",
	"feedback_amplify_factor":    "feedback.amplify_factor",
	"feedback_amplify_ceiling":   "feedback.amplification_ceiling",
	"feedback_switch_gap":        "feedback.switch_gap",
	"adaptation_enabled":         "adaptation.enabled",
	"adaptation_interval":        "adaptation.interval",
	"events_enabled":             "events.enabled",
	"nats_url":                   "events.nats_url",
	"events_feedback_topic":      "events.feedback_topic",
	"events_queue_group":         "events.queue_group",
	"cors_origins":               "security.cors_origins",
	"rate_limit_requests":        "security.rate_limit_requests",
	"rate_limit_window":          "security.rate_limit_window",
	"auth_enabled":               "security.auth_enabled",
	"jwt_secret":                 "security.jwt_secret",
	"jwt_issuer":                 "security.jwt_issuer",
	"events_max_retries":         "events.max_retries",
	"events_subscriber_count":    "events.subscriber_count",
	"feedback_rebalance_below":   "feedback.rebalance_below",
	"feedback_rebalance_step":    "feedback.rebalance_step",
	"store_gc_interval":          "store.gc_interval",
	"adaptation_timeout":         "adaptation.timeout",
	"classifier_hypothesis_tmpl": "classifier.hypothesis_template",
}

// envTransformFunc returns the koanf path for a mapped variable and "" for
// everything else, which makes the env provider skip it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

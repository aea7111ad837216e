// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package config

import "time"

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Store      StoreConfig      `koanf:"store"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Generator  GeneratorConfig  `koanf:"generator"`
	Scoring    ScoringConfig    `koanf:"scoring"`
	Feedback   FeedbackConfig   `koanf:"feedback"`
	Adaptation AdaptationConfig `koanf:"adaptation"`
	Events     EventsConfig     `koanf:"events"`
	Security   SecurityConfig   `koanf:"security"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StoreConfig configures the Badger document store.
type StoreConfig struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// CatalogConfig points at the taxonomy / track / personality catalog.
// An empty Path selects the catalog embedded in the binary.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// ClassifierConfig configures the zero-shot classification endpoint.
type ClassifierConfig struct {
	URL                string        `koanf:"url"`
	Token              string        `koanf:"token"`
	HypothesisTemplate string        `koanf:"hypothesis_template"`
	Timeout            time.Duration `koanf:"timeout"`
	MinRelevance       float64       `koanf:"min_relevance"`
	TopN               int           `koanf:"top_n"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
}

// GeneratorConfig configures the generative-text (Gemini) client.
type GeneratorConfig struct {
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Temperature       float64       `koanf:"temperature"`
	MaxOutputTokens   int           `koanf:"max_output_tokens"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
}

// ScoringConfig holds track aggregation and ranking knobs.
type ScoringConfig struct {
	TrackThreshold float64 `koanf:"track_threshold"`
	TopTracks      int     `koanf:"top_tracks"`
	FallbackTrack  string  `koanf:"fallback_track"`
}

// FeedbackConfig holds the feedback analysis and adaptation rule parameters.
type FeedbackConfig struct {
	WindowDays    int     `koanf:"window_days"`
	AmplifyFactor float64 `koanf:"amplify_factor"`
	// AmplificationCeiling caps amplified label scores. 0 disables the cap.
	AmplificationCeiling float64 `koanf:"amplification_ceiling"`
	SwitchGap            float64 `koanf:"switch_gap"`
	RebalanceBelow       float64 `koanf:"rebalance_below"`
	RebalanceStep        float64 `koanf:"rebalance_step"`
}

// AdaptationConfig controls the periodic adaptation sweep.
type AdaptationConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
	Timeout  time.Duration `koanf:"timeout"`
}

// EventsConfig configures feedback event delivery. With an empty NATSURL
// events travel over an in-process channel.
type EventsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	NATSURL         string        `koanf:"nats_url"`
	FeedbackTopic   string        `koanf:"feedback_topic"`
	QueueGroup      string        `koanf:"queue_group"`
	MaxRetries      int           `koanf:"max_retries"`
	RetryInterval   time.Duration `koanf:"retry_interval"`
	CloseTimeout    time.Duration `koanf:"close_timeout"`
	MaxReconnects   int           `koanf:"max_reconnects"`
	ReconnectWait   time.Duration `koanf:"reconnect_wait"`
	SubscriberCount int           `koanf:"subscriber_count"`
}

// SecurityConfig configures CORS, rate limiting and bearer-token auth.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_requests"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	AuthEnabled     bool          `koanf:"auth_enabled"`
	JWTSecret       string        `koanf:"jwt_secret"`
	JWTIssuer       string        `koanf:"jwt_issuer"`
}

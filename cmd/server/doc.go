// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

/*
Package main is the entry point for the Trilha server.

Trilha maps a learner's questionnaire answers onto learning tracks and keeps
the resulting profile current as study-session feedback arrives.

# Application Architecture

	RootSupervisor ("trilha")
	├── DataSupervisor ("data-layer")
	│   └── Store GC (Badger only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event Router (feedback events, optional)
	│   └── Adaptation Sweep (optional)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog with JSON/console output modes
 3. Store: BadgerDB (or in-memory for development)
 4. Catalog: taxonomy, tracks and personality coefficients
 5. Engine: zero-shot classifier, Gemini generator, mapper, feedback cycle
 6. Events: Watermill over NATS JetStream or an in-process channel
 7. HTTP Server: chi router with JWT auth, CORS and rate limiting
 8. Supervisor Tree: Suture v4 process supervision

# Configuration

Environment variables use the section name as prefix, for example:

	SERVER_PORT=3857
	STORE_PATH=/data/trilha
	CLASSIFIER_URL=https://api-inference.huggingface.co/models/facebook/bart-large-mnli
	CLASSIFIER_TOKEN=hf_...
	GENERATOR_API_KEY=...
	EVENTS_NATS_URL=nats://localhost:4222
	SECURITY_AUTH_ENABLED=true
	SECURITY_JWT_SECRET=<32+ characters>

Without GENERATOR_API_KEY the server still runs: personality inference
falls back to neutral traits and feedback analysis uses the heuristic path.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service, the HTTP server drains in-flight requests, and the event bus and
store are closed last.
*/
package main

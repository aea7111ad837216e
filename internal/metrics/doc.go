// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

/*
Package metrics defines Trilha's Prometheus instrumentation.

All collectors are registered on the default registry through promauto and
exposed at /metrics:

	curl http://localhost:3857/metrics

# Available Metrics

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

External collaborators:
  - collaborator_calls_total{collaborator,operation,result}
  - collaborator_call_duration_seconds{collaborator,operation}
  - classifier_cache_total{result}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result},
    circuit_breaker_consecutive_failures{name}, circuit_breaker_state_transitions_total{name,from_state,to_state}

Scoring and adaptation:
  - mapping_runs_total{result}
  - mapping_duration_seconds
  - feedback_records_total{session_type}
  - adaptation_cycles_total{outcome}
  - adaptation_rules_applied_total{rule}
  - llm_parse_failures_total{use}

Events:
  - events_published_total{topic,result}
  - events_consumed_total{topic,result}
*/
package metrics

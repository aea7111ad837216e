// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package config loads Trilha's runtime configuration with koanf.
//
// Sources are layered, later layers winning:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, or config.yaml / /etc/trilha/config.yaml)
//  3. Environment variables, mapped explicitly by envTransformFunc
//
// Only mapped environment variables are read, so unrelated process
// environment never leaks into the configuration.
package config

// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package services adapts Trilha components to suture's Serve(ctx) model.
//
//   - HTTPServerService: ListenAndServe with graceful Shutdown
//   - EventRouterService: the Watermill feedback router
//   - AdaptationService: periodic adaptation sweep over all profiles
//   - StoreGCService: periodic Badger value log garbage collection
//
// Every service returns when its context is cancelled and implements
// fmt.Stringer so suture can name it in logs.
package services

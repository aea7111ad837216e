// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

// Package store persists versioned documents and append-only logs.
//
// Documents live in named collections and carry a version stamp that
// increases by one on every write. Update is a compare-and-swap on that
// stamp, which is what the profile repository builds its field-level
// optimistic concurrency on. Logs are ordered sub-collections hanging off
// a document ID (feedback records, adaptation history).
//
// BadgerStore is the production backend; MemoryStore backs tests and
// single-process development.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned by Update when the stored version
	// differs from the expected one.
	ErrVersionConflict = errors.New("version conflict")

	// ErrInvalidKey is returned for empty collections or IDs, or IDs
	// containing the key separator.
	ErrInvalidKey = errors.New("invalid key")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store is closed")
)

// Store is a versioned document store with append-only logs.
type Store interface {
	// Get decodes the document into out and returns its version.
	Get(ctx context.Context, collection, id string, out any) (uint64, error)

	// Put writes the document unconditionally and returns the new version.
	Put(ctx context.Context, collection, id string, v any) (uint64, error)

	// Update writes the document only if its current version equals
	// expected. expected == 0 means "must not exist yet".
	Update(ctx context.Context, collection, id string, expected uint64, v any) (uint64, error)

	// Append adds an entry to the log of (collection, id).
	Append(ctx context.Context, collection, id string, v any) error

	// UpdateAndAppend is Update on (collection, id) and Append of entry to
	// the log of (logCollection, id) as one atomic write: either both are
	// stored or neither is.
	UpdateAndAppend(ctx context.Context, collection, id string, expected uint64, v any, logCollection string, entry any) (uint64, error)

	// List calls fn with every log entry of (collection, id) in append
	// order. Returning an error from fn stops the iteration.
	List(ctx context.Context, collection, id string, fn func(data []byte) error) error

	// ListIDs returns the IDs of every document in collection, sorted.
	ListIDs(ctx context.Context, collection string) ([]string, error)

	Close() error
}

// GarbageCollector is implemented by backends that need periodic cleanup.
type GarbageCollector interface {
	RunGC(ctx context.Context) error
}

const sep = "/"

func validateKey(collection, id string) error {
	if collection == "" || strings.Contains(collection, sep) {
		return fmt.Errorf("%w: collection %q", ErrInvalidKey, collection)
	}
	if id == "" || strings.Contains(id, sep) {
		return fmt.Errorf("%w: id %q", ErrInvalidKey, id)
	}
	return nil
}

// envelope is the stored form of a document.
type envelope struct {
	Version uint64          `json:"v"`
	Data    json.RawMessage `json:"d"`
}

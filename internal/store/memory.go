// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-json"
)

// MemoryStore implements Store in process memory. Values are stored as
// JSON so callers never share state with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]map[string]envelope
	logs   map[string]map[string][][]byte
	closed bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]map[string]envelope),
		logs: make(map[string]map[string][][]byte),
	}
}

func (m *MemoryStore) check(ctx context.Context, collection, id string) error {
	if m.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return validateKey(collection, id)
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, collection, id string, out any) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx, collection, id); err != nil {
		return 0, err
	}

	env, ok := m.docs[collection][id]
	if !ok {
		return 0, ErrNotFound
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return 0, fmt.Errorf("unmarshal document: %w", err)
	}
	return env.Version, nil
}

// Put implements Store.
func (m *MemoryStore) Put(ctx context.Context, collection, id string, v any) (uint64, error) {
	return m.write(ctx, collection, id, v, nil)
}

// Update implements Store.
func (m *MemoryStore) Update(ctx context.Context, collection, id string, expected uint64, v any) (uint64, error) {
	return m.write(ctx, collection, id, v, &expected)
}

func (m *MemoryStore) write(ctx context.Context, collection, id string, v any, expected *uint64) (uint64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, collection, id); err != nil {
		return 0, err
	}
	return m.setDocument(collection, id, data, expected)
}

// setDocument requires m.mu held for writing.
func (m *MemoryStore) setDocument(collection, id string, data []byte, expected *uint64) (uint64, error) {
	docs, ok := m.docs[collection]
	if !ok {
		docs = make(map[string]envelope)
		m.docs[collection] = docs
	}
	current, exists := docs[id]
	if expected != nil {
		if err := checkVersion(current.Version, exists, *expected); err != nil {
			return 0, err
		}
	}

	next := envelope{Version: current.Version + 1, Data: data}
	docs[id] = next
	return next.Version, nil
}

// appendEntry requires m.mu held for writing.
func (m *MemoryStore) appendEntry(collection, id string, data []byte) {
	logs, ok := m.logs[collection]
	if !ok {
		logs = make(map[string][][]byte)
		m.logs[collection] = logs
	}
	logs[id] = append(logs[id], data)
}

// Append implements Store.
func (m *MemoryStore) Append(ctx context.Context, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, collection, id); err != nil {
		return err
	}
	m.appendEntry(collection, id, data)
	return nil
}

// UpdateAndAppend implements Store.
func (m *MemoryStore) UpdateAndAppend(ctx context.Context, collection, id string, expected uint64, v any, logCollection string, entry any) (uint64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("marshal entry: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, collection, id); err != nil {
		return 0, err
	}
	if err := validateKey(logCollection, id); err != nil {
		return 0, err
	}

	version, err := m.setDocument(collection, id, data, &expected)
	if err != nil {
		return 0, err
	}
	m.appendEntry(logCollection, id, entryData)
	return version, nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context, collection, id string, fn func(data []byte) error) error {
	m.mu.RLock()
	if err := m.check(ctx, collection, id); err != nil {
		m.mu.RUnlock()
		return err
	}
	entries := append([][]byte(nil), m.logs[collection][id]...)
	m.mu.RUnlock()

	for _, e := range entries {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// ListIDs implements Store.
func (m *MemoryStore) ListIDs(ctx context.Context, collection string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx, collection, "_"); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(m.docs[collection]))
	for id := range m.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	return nil
}

var _ Store = (*MemoryStore)(nil)

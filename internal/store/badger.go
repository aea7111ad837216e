// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/trilha/internal/config"
	"github.com/tomtom215/trilha/internal/logging"
)

// Key prefixes
const (
	docPrefix = "doc" + sep
	logPrefix = "log" + sep
	seqPrefix = "seq" + sep
)

// maxTxnRetries bounds retries on badger transaction conflicts.
const maxTxnRetries = 5

// BadgerStore implements Store on BadgerDB.
type BadgerStore struct {
	db      *badger.DB
	gcRatio float64
	closed  atomic.Bool
}

// OpenBadger opens (or creates) the database described by cfg.
func OpenBadger(cfg config.StoreConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Store opened")

	return &BadgerStore{db: db, gcRatio: 0.5}, nil
}

func docKey(collection, id string) []byte {
	return []byte(docPrefix + collection + sep + id)
}

func logKeyPrefix(collection, id string) []byte {
	return []byte(logPrefix + collection + sep + id + sep)
}

func seqKey(collection, id string) []byte {
	return []byte(seqPrefix + collection + sep + id)
}

func (s *BadgerStore) check(ctx context.Context, collection, id string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return validateKey(collection, id)
}

// update runs fn in a read-write transaction, retrying on conflicts.
func (s *BadgerStore) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func readEnvelope(txn *badger.Txn, key []byte) (envelope, error) {
	var env envelope
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return env, ErrNotFound
	}
	if err != nil {
		return env, fmt.Errorf("get document: %w", err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &env)
	})
	return env, err
}

// Get implements Store.
func (s *BadgerStore) Get(ctx context.Context, collection, id string, out any) (uint64, error) {
	if err := s.check(ctx, collection, id); err != nil {
		return 0, err
	}

	var env envelope
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		env, err = readEnvelope(txn, docKey(collection, id))
		return err
	})
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return 0, fmt.Errorf("unmarshal document: %w", err)
	}
	return env.Version, nil
}

// Put implements Store.
func (s *BadgerStore) Put(ctx context.Context, collection, id string, v any) (uint64, error) {
	return s.write(ctx, collection, id, v, func(uint64, bool) error { return nil })
}

// Update implements Store.
func (s *BadgerStore) Update(ctx context.Context, collection, id string, expected uint64, v any) (uint64, error) {
	return s.write(ctx, collection, id, v, func(current uint64, exists bool) error {
		return checkVersion(current, exists, expected)
	})
}

func checkVersion(current uint64, exists bool, expected uint64) error {
	switch {
	case !exists && expected != 0:
		return ErrNotFound
	case current != expected:
		return fmt.Errorf("%w: stored %d, expected %d", ErrVersionConflict, current, expected)
	}
	return nil
}

func (s *BadgerStore) write(ctx context.Context, collection, id string, v any, guard func(current uint64, exists bool) error) (uint64, error) {
	if err := s.check(ctx, collection, id); err != nil {
		return 0, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}

	var version uint64
	err = s.update(func(txn *badger.Txn) error {
		var err error
		version, err = setDocument(txn, collection, id, data, guard)
		return err
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

// setDocument stores data under (collection, id) with the next version
// once guard accepts the current one.
func setDocument(txn *badger.Txn, collection, id string, data []byte, guard func(current uint64, exists bool) error) (uint64, error) {
	key := docKey(collection, id)
	current, err := readEnvelope(txn, key)
	exists := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	if err := guard(current.Version, exists); err != nil {
		return 0, err
	}

	version := current.Version + 1
	raw, err := json.Marshal(envelope{Version: version, Data: data})
	if err != nil {
		return 0, err
	}
	return version, txn.Set(key, raw)
}

// appendEntry adds data to the log of (collection, id) under the next
// sequence number.
func appendEntry(txn *badger.Txn, collection, id string, data []byte) error {
	var seq uint64
	sk := seqKey(collection, id)
	item, err := txn.Get(sk)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return fmt.Errorf("read sequence: %w", err)
	default:
		if err := item.Value(func(val []byte) error {
			seq = binary.BigEndian.Uint64(val)
			return nil
		}); err != nil {
			return err
		}
	}
	seq++

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	if err := txn.Set(sk, buf); err != nil {
		return fmt.Errorf("write sequence: %w", err)
	}
	key := append(logKeyPrefix(collection, id), buf...)
	return txn.Set(key, data)
}

// Append implements Store.
func (s *BadgerStore) Append(ctx context.Context, collection, id string, v any) error {
	if err := s.check(ctx, collection, id); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	return s.update(func(txn *badger.Txn) error {
		return appendEntry(txn, collection, id, data)
	})
}

// UpdateAndAppend implements Store. Both writes share one transaction.
func (s *BadgerStore) UpdateAndAppend(ctx context.Context, collection, id string, expected uint64, v any, logCollection string, entry any) (uint64, error) {
	if err := s.check(ctx, collection, id); err != nil {
		return 0, err
	}
	if err := validateKey(logCollection, id); err != nil {
		return 0, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("marshal entry: %w", err)
	}

	var version uint64
	err = s.update(func(txn *badger.Txn) error {
		var err error
		version, err = setDocument(txn, collection, id, data, func(current uint64, exists bool) error {
			return checkVersion(current, exists, expected)
		})
		if err != nil {
			return err
		}
		return appendEntry(txn, logCollection, id, entryData)
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

// List implements Store.
func (s *BadgerStore) List(ctx context.Context, collection, id string, fn func(data []byte) error) error {
	if err := s.check(ctx, collection, id); err != nil {
		return err
	}

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := logKeyPrefix(collection, id)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListIDs implements Store.
func (s *BadgerStore) ListIDs(ctx context.Context, collection string) ([]string, error) {
	if err := s.check(ctx, collection, "_"); err != nil {
		return nil, err
	}

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(docPrefix + collection + sep)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// RunGC runs value log garbage collection until nothing is left to rewrite.
func (s *BadgerStore) RunGC(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	runs := 0
	for ctx.Err() == nil {
		err := s.db.RunValueLogGC(s.gcRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			break
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
		runs++
	}
	logging.Debug().Int("rewrites", runs).Dur("elapsed", time.Since(start)).Msg("Store GC complete")
	return nil
}

// Close closes the database. Further calls return ErrClosed.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return s.db.Close()
}

var (
	_ Store            = (*BadgerStore)(nil)
	_ GarbageCollector = (*BadgerStore)(nil)
)

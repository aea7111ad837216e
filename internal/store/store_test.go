// Trilha - Interest Mapping and Adaptive Learning Tracks
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trilha

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trilha/internal/config"
)

type doc struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// backends runs fn against every Store implementation.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore()
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
	t.Run("badger", func(t *testing.T) {
		s, err := OpenBadger(config.StoreConfig{InMemory: true})
		if err != nil {
			t.Fatalf("OpenBadger() error = %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
}

func TestStore_PutGet(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		var got doc
		if _, err := s.Get(ctx, "profiles", "u1", &got); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
		}

		v1, err := s.Put(ctx, "profiles", "u1", doc{Name: "ana", Score: 0.5})
		if err != nil || v1 != 1 {
			t.Fatalf("Put() = %d, %v; want 1, nil", v1, err)
		}
		v2, err := s.Put(ctx, "profiles", "u1", doc{Name: "ana", Score: 0.7})
		if err != nil || v2 != 2 {
			t.Fatalf("second Put() = %d, %v; want 2, nil", v2, err)
		}

		version, err := s.Get(ctx, "profiles", "u1", &got)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if version != 2 || got.Score != 0.7 {
			t.Errorf("Get() = %+v @%d, want score 0.7 @2", got, version)
		}
	})
}

func TestStore_UpdateVersionCheck(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		if _, err := s.Update(ctx, "profiles", "u1", 3, doc{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update(missing, 3) error = %v, want ErrNotFound", err)
		}
		v, err := s.Update(ctx, "profiles", "u1", 0, doc{Name: "a"})
		if err != nil || v != 1 {
			t.Fatalf("Update(create) = %d, %v", v, err)
		}
		if _, err := s.Update(ctx, "profiles", "u1", 0, doc{Name: "b"}); !errors.Is(err, ErrVersionConflict) {
			t.Errorf("Update(create again) error = %v, want ErrVersionConflict", err)
		}
		if _, err := s.Update(ctx, "profiles", "u1", 5, doc{Name: "b"}); !errors.Is(err, ErrVersionConflict) {
			t.Errorf("Update(stale) error = %v, want ErrVersionConflict", err)
		}
		v, err = s.Update(ctx, "profiles", "u1", 1, doc{Name: "c"})
		if err != nil || v != 2 {
			t.Fatalf("Update(current) = %d, %v", v, err)
		}

		var got doc
		if _, err := s.Get(ctx, "profiles", "u1", &got); err != nil || got.Name != "c" {
			t.Errorf("Get() = %+v, %v", got, err)
		}
	})
}

func TestStore_ConcurrentUpdatesOneWins(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.Put(ctx, "profiles", "u1", doc{}); err != nil {
			t.Fatal(err)
		}

		const writers = 8
		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.Update(ctx, "profiles", "u1", 1, doc{Name: "x"}); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		if wins != 1 {
			t.Errorf("%d writers succeeded against the same version, want 1", wins)
		}
	})
}

func TestStore_AppendList(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		for i := 0; i < 12; i++ {
			if err := s.Append(ctx, "feedback", "u1", doc{Score: float64(i)}); err != nil {
				t.Fatalf("Append() error = %v", err)
			}
		}
		if err := s.Append(ctx, "feedback", "u2", doc{Score: 99}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		var got []doc
		err := s.List(ctx, "feedback", "u1", func(data []byte) error {
			var d doc
			if err := json.Unmarshal(data, &d); err != nil {
				return err
			}
			got = append(got, d)
			return nil
		})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 12 {
			t.Fatalf("List() returned %d entries, want 12", len(got))
		}
		for i, d := range got {
			if d.Score != float64(i) {
				t.Errorf("entry %d has score %v, want append order", i, d.Score)
			}
		}

		stop := errors.New("stop")
		n := 0
		err = s.List(ctx, "feedback", "u1", func([]byte) error {
			n++
			return stop
		})
		if !errors.Is(err, stop) || n != 1 {
			t.Errorf("List() should stop on callback error, got %v after %d", err, n)
		}
	})
}

func TestStore_UpdateAndAppend(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.Put(ctx, "profiles", "u1", doc{Name: "a"}); err != nil {
			t.Fatal(err)
		}

		countLog := func() int {
			n := 0
			if err := s.List(ctx, "history", "u1", func([]byte) error {
				n++
				return nil
			}); err != nil {
				t.Fatalf("List() error = %v", err)
			}
			return n
		}

		// Stale version: neither the document nor the log changes.
		if _, err := s.UpdateAndAppend(ctx, "profiles", "u1", 7, doc{Name: "stale"}, "history", doc{Score: 1}); !errors.Is(err, ErrVersionConflict) {
			t.Fatalf("UpdateAndAppend(stale) error = %v, want ErrVersionConflict", err)
		}
		var got doc
		if v, err := s.Get(ctx, "profiles", "u1", &got); err != nil || v != 1 || got.Name != "a" {
			t.Errorf("after conflict Get() = %+v @%d, %v; want a @1", got, v, err)
		}
		if n := countLog(); n != 0 {
			t.Errorf("after conflict log has %d entries, want 0", n)
		}

		v, err := s.UpdateAndAppend(ctx, "profiles", "u1", 1, doc{Name: "b"}, "history", doc{Score: 2})
		if err != nil || v != 2 {
			t.Fatalf("UpdateAndAppend() = %d, %v; want 2, nil", v, err)
		}
		if _, err := s.Get(ctx, "profiles", "u1", &got); err != nil || got.Name != "b" {
			t.Errorf("Get() = %+v, %v; want b", got, err)
		}
		if n := countLog(); n != 1 {
			t.Errorf("log has %d entries, want 1", n)
		}

		if _, err := s.UpdateAndAppend(ctx, "profiles", "u1", 2, doc{}, "bad/coll", doc{}); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("UpdateAndAppend(bad log collection) error = %v, want ErrInvalidKey", err)
		}
		if v, _ := s.Get(ctx, "profiles", "u1", &got); v != 2 {
			t.Errorf("version after rejected write = %d, want 2", v)
		}
	})
}

func TestStore_ListIDs(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, id := range []string{"c", "a", "b"} {
			if _, err := s.Put(ctx, "profiles", id, doc{}); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := s.Put(ctx, "other", "z", doc{}); err != nil {
			t.Fatal(err)
		}

		ids, err := s.ListIDs(ctx, "profiles")
		if err != nil {
			t.Fatalf("ListIDs() error = %v", err)
		}
		want := []string{"a", "b", "c"}
		if len(ids) != len(want) {
			t.Fatalf("ListIDs() = %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("ListIDs()[%d] = %q, want %q", i, ids[i], want[i])
			}
		}
	})
}

func TestStore_InvalidKeysAndClose(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		if _, err := s.Put(ctx, "profiles", "a/b", doc{}); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Put(a/b) error = %v, want ErrInvalidKey", err)
		}
		if _, err := s.Put(ctx, "", "a", doc{}); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Put(empty collection) error = %v, want ErrInvalidKey", err)
		}

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := s.Put(cctx, "profiles", "a", doc{}); !errors.Is(err, context.Canceled) {
			t.Errorf("Put(cancelled) error = %v", err)
		}

		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if _, err := s.Put(ctx, "profiles", "a", doc{}); !errors.Is(err, ErrClosed) {
			t.Errorf("Put after Close error = %v, want ErrClosed", err)
		}
	})
}

func TestBadgerStore_RunGCInMemory(t *testing.T) {
	s, err := OpenBadger(config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.RunGC(context.Background()); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
}

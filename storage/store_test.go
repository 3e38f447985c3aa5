package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]func(dir string) Store {
	t.Helper()
	return map[string]func(dir string) Store{
		BackendMemory: func(string) Store { return NewMemoryStore() },
		BackendSQLite: func(dir string) Store {
			s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
			if err != nil {
				t.Fatalf("NewSQLiteStore: %v", err)
			}
			return s
		},
		BackendPebble: func(dir string) Store {
			s, err := NewPebbleStore(filepath.Join(dir, "kv"))
			if err != nil {
				t.Fatalf("NewPebbleStore: %v", err)
			}
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t.TempDir())
			defer s.Close()

			if _, found, err := s.Get(ctx, "likedIds"); err != nil || found {
				t.Fatalf("missing key: found=%v err=%v", found, err)
			}

			if err := s.Set(ctx, "likedIds", `["p1"]`); err != nil {
				t.Fatalf("Set: %v", err)
			}
			v, found, err := s.Get(ctx, "likedIds")
			if err != nil || !found || v != `["p1"]` {
				t.Fatalf("Get after Set: v=%q found=%v err=%v", v, found, err)
			}

			if err := s.Set(ctx, "likedIds", `[]`); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			if v, _, _ := s.Get(ctx, "likedIds"); v != `[]` {
				t.Errorf("overwrite: got %q", v)
			}

			if err := s.Set(ctx, "empty", ""); err != nil {
				t.Fatalf("Set empty: %v", err)
			}
			if v, found, _ := s.Get(ctx, "empty"); !found || v != "" {
				t.Errorf("empty value: v=%q found=%v", v, found)
			}

			if err := s.Remove(ctx, "likedIds"); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if _, found, _ := s.Get(ctx, "likedIds"); found {
				t.Error("key still present after Remove")
			}
			if err := s.Remove(ctx, "never-set"); err != nil {
				t.Errorf("Remove missing key: %v", err)
			}
		})
	}
}

func TestPersistentBackendsSurviveReopen(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{BackendSQLite, BackendPebble} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			s, err := Open(name, dir)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if err := s.Set(ctx, "comments-p1", `[{"id":"p1-1"}]`); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			s, err = Open(name, dir)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer s.Close()

			v, found, err := s.Get(ctx, "comments-p1")
			if err != nil || !found || v != `[{"id":"p1-1"}]` {
				t.Errorf("after reopen: v=%q found=%v err=%v", v, found, err)
			}
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("cassette", t.TempDir()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestMemoryStoreHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	if err := s.Set(ctx, "k", "v"); err == nil {
		t.Error("expected error on cancelled context")
	}
}

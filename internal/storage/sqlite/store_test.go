package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/planner/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "planner.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitCreatesDocumentsTable(t *testing.T) {
	store := setupTestStore(t)

	exists, err := store.tableExists("documents")
	if err != nil {
		t.Fatalf("tableExists() error = %v", err)
	}
	if !exists {
		t.Error("documents table was not created")
	}

	exists, err = store.tableExists("DOCUMENTS")
	if err != nil || !exists {
		t.Errorf("tableExists() should be case-insensitive, got %v, %v", exists, err)
	}

	exists, _ = store.tableExists("nonexistent_table")
	if exists {
		t.Error("tableExists() = true, want false for nonexistent table")
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() expected error for uninitialized storage")
	}
}

func TestLoadRejectsEmptyDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	store := New(path)
	if err := store.Load(); err == nil {
		t.Fatal("Load() expected error for a database without a documents table")
	}
	if store.GetDB() != nil {
		t.Error("Load() should close the connection after rejecting the file")
	}
}

func TestGetPutDelete(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.Get("goals"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get() on missing key error = %v, want ErrNotFound", err)
	}

	if err := store.Put("goals", []byte(`[]`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put("goals", []byte(`[{"id":"g1"}]`)); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}

	got, err := store.Get("goals")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `[{"id":"g1"}]` {
		t.Errorf("Get() = %s, want overwritten value", got)
	}

	if err := store.Delete("goals"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get("goals"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestPutBatchAndKeys(t *testing.T) {
	store := setupTestStore(t)

	err := store.PutBatch(map[string][]byte{
		"tasks": []byte(`[]`),
		"notes": []byte(`[]`),
		"goals": []byte(`[]`),
	})
	if err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []string{"goals", "notes", "tasks"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")
	store := New(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := store.Put("settings", []byte(`{"userName":"sam"}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	store.Close()

	reopened := New(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("settings")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"userName":"sam"}` {
		t.Errorf("Get() = %s after reopen", got)
	}
}

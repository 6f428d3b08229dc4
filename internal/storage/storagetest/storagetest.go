// Package storagetest builds throwaway SQLite-backed stores for tests.
package storagetest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/storage/sqlite"
)

// Clock is a settable time source for Store.Now.
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// New returns a Store over a fresh SQLite file in t.TempDir(). Writes are
// serialized unless opts says otherwise; Location defaults to UTC.
func New(t *testing.T, opts storage.Options) *storage.Store {
	t.Helper()

	kv := sqlite.New(filepath.Join(t.TempDir(), "planner.db"))
	if err := kv.Init(); err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return storage.New(kv, opts)
}

// NewSerialized is New with SerializeWrites and a fixed clock.
func NewSerialized(t *testing.T, clock *Clock) *storage.Store {
	t.Helper()
	opts := storage.Options{SerializeWrites: true}
	if clock != nil {
		opts.Now = clock.Now
	}
	return New(t, opts)
}

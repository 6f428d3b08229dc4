// Package clitest builds command contexts over throwaway stores.
package clitest

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/remote"
	"github.com/julianstephens/planner/internal/storage/storagetest"
)

// RefTime is the fixed clock every test context starts at.
var RefTime = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

// New returns a context with a fixed clock, a temp config dir and a
// directory remote under it.
func New(t *testing.T) (*cli.Context, *storagetest.Clock) {
	t.Helper()

	clock := &storagetest.Clock{T: RefTime}
	store := storagetest.NewSerialized(t, clock)
	configDir := t.TempDir()

	cfg := config.Default()
	cfg.Remote.Kind = config.RemoteDir
	cfg.Remote.DeviceID = "test-device"
	cfg.Remote.Dir.Path = t.TempDir()

	ctx := &cli.Context{
		Store:     store,
		KV:        store.KV(),
		Config:    &cfg,
		ConfigDir: configDir,
		OpenRemote: func(ctx context.Context) (remote.BlobStore, error) {
			return remote.Open(ctx, cfg.Remote)
		},
	}
	return ctx, clock
}

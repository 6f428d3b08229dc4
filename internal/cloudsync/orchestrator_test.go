package cloudsync

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/remote"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/storage/storagetest"
)

type fakeBlob struct {
	mu        sync.Mutex
	data      []byte
	offline   bool
	uploadErr error
	uploads   int
	downloads int
	// gate, when set, blocks Upload until closed
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeBlob) Upload(ctx context.Context, data []byte) error {
	if f.gate != nil {
		close(f.entered)
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.data = append([]byte(nil), data...)
	return nil
}

func (f *fakeBlob) Download(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads++
	if f.offline {
		return nil, remote.ErrOffline
	}
	if f.data == nil {
		return nil, remote.ErrNotFound
	}
	return f.data, nil
}

func (f *fakeBlob) Exists(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data != nil, nil
}

func (f *fakeBlob) IsOnline(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.offline
}

func (f *fakeBlob) Describe() string { return "fake" }
func (f *fakeBlob) Close() error     { return nil }

func newStore(t *testing.T) (*storage.Store, *storagetest.Clock) {
	clock := &storagetest.Clock{T: time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)}
	return storagetest.NewSerialized(t, clock), clock
}

func TestSyncToCloudThenFromCloud(t *testing.T) {
	ctx := context.Background()
	blob := &fakeBlob{}

	src, clock := newStore(t)
	require.NoError(t, src.Goals.Add(models.Goal{ID: "g1", Title: "Run a marathon"}))
	require.NoError(t, src.Notes.Add(models.Note{ID: "n1", Title: "Shoes", Content: "size 10"}))

	out := New(src, blob, Options{}).SyncToCloud(ctx)
	require.True(t, out.OK(), "push outcome: %+v", out)
	assert.Equal(t, 1, blob.uploads)

	last, err := src.LastSyncTime()
	require.NoError(t, err)
	assert.Equal(t, clock.T.UnixMilli(), last)

	dst, _ := newStore(t)
	out = New(dst, blob, Options{}).SyncFromCloud(ctx)
	require.True(t, out.OK(), "pull outcome: %+v", out)

	goals, err := dst.Goals.GetAll()
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Run a marathon", goals[0].Title)

	notes, err := dst.Notes.GetAll()
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestSyncFromCloudMissingBlob(t *testing.T) {
	store, _ := newStore(t)
	out := New(store, &fakeBlob{}, Options{}).SyncFromCloud(context.Background())

	assert.Equal(t, Failed, out.Status)
	assert.ErrorIs(t, out.Err, remote.ErrNotFound)

	last, err := store.LastSyncTime()
	require.NoError(t, err)
	assert.Zero(t, last, "failed pull must not record a sync time")
}

func TestSyncFromCloudRejectsBadPayload(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Goals.Add(models.Goal{ID: "keep", Title: "Keep me"}))

	blob := &fakeBlob{data: []byte(`{"version": 99, "goals": []}`)}
	out := New(store, blob, Options{}).SyncFromCloud(context.Background())
	assert.Equal(t, Failed, out.Status)

	goals, err := store.Goals.GetAll()
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

func TestSyncFailureReturnsToIdle(t *testing.T) {
	store, _ := newStore(t)
	orch := New(store, &fakeBlob{uploadErr: errors.New("quota exceeded")}, Options{})

	out := orch.SyncToCloud(context.Background())
	assert.Equal(t, Failed, out.Status)
	assert.EqualError(t, out.Err, "quota exceeded")
	assert.Equal(t, Idle, orch.State())
}

func TestConcurrentSyncIsSkipped(t *testing.T) {
	store, _ := newStore(t)
	blob := &fakeBlob{gate: make(chan struct{}), entered: make(chan struct{})}
	orch := New(store, blob, Options{Timeout: 5 * time.Second})

	first := make(chan Outcome, 1)
	go func() { first <- orch.SyncToCloud(context.Background()) }()

	<-blob.entered
	assert.Equal(t, Syncing, orch.State())

	second := orch.SyncFromCloud(context.Background())
	assert.Equal(t, Skipped, second.Status)
	assert.ErrorIs(t, second.Err, ErrSyncInProgress)

	close(blob.gate)
	assert.True(t, (<-first).OK())
	assert.Equal(t, Idle, orch.State())
	assert.Zero(t, blob.downloads)
}

func TestAutoSync(t *testing.T) {
	store, _ := newStore(t)

	offline := &fakeBlob{offline: true}
	out := New(store, offline, Options{}).AutoSync(context.Background())
	assert.Equal(t, Skipped, out.Status)
	assert.ErrorIs(t, out.Err, remote.ErrOffline)
	assert.Zero(t, offline.uploads)

	online := &fakeBlob{}
	out = New(store, online, Options{}).AutoSync(context.Background())
	assert.True(t, out.OK())
	assert.Equal(t, 1, online.uploads)
}

func TestAutoSyncFreshDirRemote(t *testing.T) {
	store, _ := newStore(t)
	blob := remote.NewDir(filepath.Join(t.TempDir(), "remote"), "dev")

	out := New(store, blob, Options{}).AutoSync(context.Background())
	require.True(t, out.OK(), "auto sync outcome: %+v", out)

	exists, err := blob.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNoRemoteConfigured(t *testing.T) {
	store, _ := newStore(t)
	orch := New(store, nil, Options{})

	for _, out := range []Outcome{
		orch.SyncToCloud(context.Background()),
		orch.SyncFromCloud(context.Background()),
		orch.AutoSync(context.Background()),
	} {
		assert.Equal(t, Skipped, out.Status)
		assert.ErrorIs(t, out.Err, remote.ErrNotConfigured)
	}
}

func TestBootstrapRestoresOnce(t *testing.T) {
	ctx := context.Background()
	blob := &fakeBlob{}

	src, _ := newStore(t)
	require.NoError(t, src.Goals.Add(models.Goal{ID: "g1", Title: "Remote goal"}))
	require.True(t, New(src, blob, Options{}).SyncToCloud(ctx).OK())

	dst, _ := newStore(t)
	orch := New(dst, blob, Options{})
	result, err := orch.Bootstrap(ctx)
	require.NoError(t, err)
	assert.True(t, result.Restored)
	assert.False(t, result.Seeded)
	require.NotNil(t, result.Pull)

	done, err := dst.IsOnboardingComplete()
	require.NoError(t, err)
	assert.True(t, done)

	goals, err := dst.Goals.GetAll()
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "g1", goals[0].ID)

	result, err = orch.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Nil(t, result.Pull, "onboarded device must not pull again")
	assert.Equal(t, 1, blob.downloads)
}

func TestBootstrapSeedsWhenNothingRemote(t *testing.T) {
	store, _ := newStore(t)
	result, err := New(store, &fakeBlob{}, Options{}).Bootstrap(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Restored)
	assert.True(t, result.Seeded)
	require.NotNil(t, result.Pull)
	assert.Equal(t, Failed, result.Pull.Status)

	goals, err := store.Goals.GetAll()
	require.NoError(t, err)
	assert.NotEmpty(t, goals)

	done, err := store.IsOnboardingComplete()
	require.NoError(t, err)
	assert.False(t, done)
}

func TestBootstrapRetriesAfterOfflineStart(t *testing.T) {
	ctx := context.Background()
	blob := &fakeBlob{offline: true}

	store, _ := newStore(t)
	orch := New(store, blob, Options{})

	first, err := orch.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, first.Restored)
	assert.True(t, first.Seeded)
	require.NotNil(t, first.Pull)
	assert.ErrorIs(t, first.Pull.Err, remote.ErrOffline)

	src, _ := newStore(t)
	require.NoError(t, src.Notes.Add(models.Note{ID: "n1", Title: "From the other device"}))
	blob.mu.Lock()
	blob.offline = false
	blob.mu.Unlock()
	require.True(t, New(src, blob, Options{}).SyncToCloud(ctx).OK())

	second, err := orch.Bootstrap(ctx)
	require.NoError(t, err)
	assert.True(t, second.Restored)
	assert.False(t, second.Seeded)

	notes, err := store.Notes.GetAll()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)

	onboarded, err := store.IsOnboardingComplete()
	require.NoError(t, err)
	assert.True(t, onboarded)
	assert.Equal(t, 2, blob.downloads)
}

func TestStatus(t *testing.T) {
	store, _ := newStore(t)
	blob := &fakeBlob{}
	orch := New(store, blob, Options{})

	report, err := orch.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Online)
	assert.False(t, report.RemoteExists)
	assert.Zero(t, report.LastSync)

	require.True(t, orch.SyncToCloud(context.Background()).OK())
	report, err = orch.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, report.RemoteExists)
	assert.NotZero(t, report.LastSync)
	assert.Equal(t, "fake", report.Remote)
}

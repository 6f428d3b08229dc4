package cloudsync

import (
	"context"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProcess struct {
	pid int
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return "planner" }

func withProcessTable(t *testing.T, alive map[int]bool) {
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if alive[pid] {
			return &mockProcess{pid: pid}, nil
		}
		return nil, nil
	}
}

func TestLockfileAcquireRelease(t *testing.T) {
	lock := NewLockfile(t.TempDir())
	withProcessTable(t, map[int]bool{os.Getpid(): true})

	release, err := lock.Acquire()
	require.NoError(t, err)

	content, err := os.ReadFile(lock.Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(content))

	_, err = lock.Acquire()
	assert.ErrorIs(t, err, ErrLocked)

	release()
	_, err = os.Stat(lock.Path())
	assert.True(t, os.IsNotExist(err))

	release, err = lock.Acquire()
	require.NoError(t, err)
	release()
}

func TestLockfileReclaimsStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"dead owner", "4242"},
		{"malformed", "not-a-pid"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lock := NewLockfile(t.TempDir())
			withProcessTable(t, map[int]bool{})
			require.NoError(t, os.WriteFile(lock.Path(), []byte(tt.content), 0600))

			release, err := lock.Acquire()
			require.NoError(t, err)
			defer release()

			content, err := os.ReadFile(lock.Path())
			require.NoError(t, err)
			assert.Equal(t, strconv.Itoa(os.Getpid()), string(content))
		})
	}
}

func TestRemoveStaleKeepsReplacedLock(t *testing.T) {
	dir := t.TempDir()
	lock := NewLockfile(dir)

	// Another process reclaimed the stale lock between our check and removal.
	require.NoError(t, os.WriteFile(lock.Path(), []byte("7"), 0600))

	err := lock.removeStale(4242)
	assert.ErrorIs(t, err, ErrLocked)

	content, err := os.ReadFile(lock.Path())
	require.NoError(t, err)
	assert.Equal(t, "7", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no set-aside lockfile should remain")
}

func TestRemoveStaleDeletesDeadLock(t *testing.T) {
	lock := NewLockfile(t.TempDir())
	require.NoError(t, os.WriteFile(lock.Path(), []byte("4242"), 0600))

	require.NoError(t, lock.removeStale(4242))
	assert.NoFileExists(t, lock.Path())

	// Already gone: another process removed it first.
	assert.NoError(t, lock.removeStale(4242))
}

func TestOrchestratorRespectsLockfile(t *testing.T) {
	store, _ := newStore(t)
	lock := NewLockfile(t.TempDir())
	withProcessTable(t, map[int]bool{7: true})
	require.NoError(t, os.WriteFile(lock.Path(), []byte("7"), 0600))

	blob := &fakeBlob{}
	out := New(store, blob, Options{Lock: lock}).SyncToCloud(context.Background())
	assert.Equal(t, Skipped, out.Status)
	assert.ErrorIs(t, out.Err, ErrSyncInProgress)
	assert.Zero(t, blob.uploads)
}

func TestSchedulerRunsAutoSync(t *testing.T) {
	store, _ := newStore(t)
	blob := &fakeBlob{}
	sched := NewScheduler(New(store, blob, Options{}), time.Second)

	var runs atomic.Int32
	sched.OnOutcome(func(o Outcome) {
		if o.OK() {
			runs.Add(1)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, sched.Start(ctx))
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 5*time.Second, 50*time.Millisecond)
	sched.Stop()
}

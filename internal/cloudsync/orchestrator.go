// Package cloudsync pushes the local store to a remote blob and restores it
// from there, one sync at a time.
package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/julianstephens/planner/internal/backup"
	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/remote"
	"github.com/julianstephens/planner/internal/storage"
)

// ErrSyncInProgress is carried by Skipped outcomes when another sync holds
// the orchestrator or the cross-process lock.
var ErrSyncInProgress = errors.New("sync already in progress")

type Status int

const (
	Synced Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Synced:
		return "synced"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the result of one sync attempt. Err is nil only for Synced.
type Outcome struct {
	Status  Status
	Message string
	Err     error
}

func (o Outcome) OK() bool {
	return o.Status == Synced
}

type State int

const (
	Idle State = iota
	Syncing
)

func (s State) String() string {
	if s == Syncing {
		return "syncing"
	}
	return "idle"
}

type Options struct {
	// Timeout bounds each remote call. Defaults to constants.DefaultRemoteTimeout.
	Timeout time.Duration
	// Lock, when set, also excludes syncs running in other processes.
	Lock *Lockfile
}

// Orchestrator moves full exports between the store and a BlobStore.
type Orchestrator struct {
	store   *storage.Store
	remote  remote.BlobStore
	timeout time.Duration
	lock    *Lockfile
	syncing atomic.Bool
}

// New returns an orchestrator. blob may be nil, in which case every sync is
// Skipped with remote.ErrNotConfigured.
func New(store *storage.Store, blob remote.BlobStore, opts Options) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultRemoteTimeout
	}
	return &Orchestrator{
		store:   store,
		remote:  blob,
		timeout: opts.Timeout,
		lock:    opts.Lock,
	}
}

func (o *Orchestrator) State() State {
	if o.syncing.Load() {
		return Syncing
	}
	return Idle
}

func skipped(msg string, err error) Outcome {
	logger.Info("Sync skipped", "reason", msg)
	return Outcome{Status: Skipped, Message: msg, Err: err}
}

func failed(msg string, err error) Outcome {
	logger.Warn(msg, "error", err)
	return Outcome{Status: Failed, Message: msg, Err: err}
}

// run holds the in-process flag and the optional lockfile around fn. The
// flag is cleared on every path out.
func (o *Orchestrator) run(ctx context.Context, fn func(ctx context.Context) Outcome) Outcome {
	if o.remote == nil {
		return skipped("no remote configured", remote.ErrNotConfigured)
	}
	if !o.syncing.CompareAndSwap(false, true) {
		return skipped("another sync is running", ErrSyncInProgress)
	}
	defer o.syncing.Store(false)

	if o.lock != nil {
		release, err := o.lock.Acquire()
		if errors.Is(err, ErrLocked) {
			return skipped("another process is syncing", fmt.Errorf("%w: %v", ErrSyncInProgress, err))
		}
		if err != nil {
			return failed("Failed to acquire sync lock", err)
		}
		defer release()
	}

	return fn(ctx)
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.timeout)
}

func (o *Orchestrator) recordSync() {
	if err := o.store.SetLastSyncTime(o.store.Now().UnixMilli()); err != nil {
		logger.Warn("Failed to record last sync time", "error", err)
	}
}

// SyncToCloud uploads a fresh export, replacing the device's remote blob.
func (o *Orchestrator) SyncToCloud(ctx context.Context) Outcome {
	return o.run(ctx, func(ctx context.Context) Outcome {
		data, err := backup.ExportJSON(ctx, o.store)
		if err != nil {
			return failed("Failed to export local data", err)
		}

		callCtx, cancel := o.withTimeout(ctx)
		defer cancel()
		if err := o.remote.Upload(callCtx, data); err != nil {
			return failed("Failed to upload backup", err)
		}

		o.recordSync()
		logger.Info("Pushed backup", "remote", o.remote.Describe(), "bytes", len(data))
		return Outcome{Status: Synced, Message: fmt.Sprintf("uploaded %d bytes to %s", len(data), o.remote.Describe())}
	})
}

// SyncFromCloud downloads the device's blob and imports it. A missing blob
// is a Failed outcome wrapping remote.ErrNotFound.
func (o *Orchestrator) SyncFromCloud(ctx context.Context) Outcome {
	return o.run(ctx, func(ctx context.Context) Outcome {
		callCtx, cancel := o.withTimeout(ctx)
		defer cancel()

		data, err := o.remote.Download(callCtx)
		if errors.Is(err, remote.ErrNotFound) {
			return Outcome{Status: Failed, Message: "no remote backup for this device", Err: err}
		}
		if err != nil {
			return failed("Failed to download backup", err)
		}

		result, err := backup.Import(o.store, data)
		if err != nil {
			return failed("Failed to import remote backup", err)
		}

		o.recordSync()
		logger.Info("Pulled backup", "remote", o.remote.Describe(), "sections", len(result.Keys))
		return Outcome{Status: Synced, Message: fmt.Sprintf("restored %d sections from %s", len(result.Keys), o.remote.Describe())}
	})
}

// AutoSync pushes only when the remote answers.
func (o *Orchestrator) AutoSync(ctx context.Context) Outcome {
	if o.remote == nil {
		return skipped("no remote configured", remote.ErrNotConfigured)
	}

	probeCtx, cancel := o.withTimeout(ctx)
	online := o.remote.IsOnline(probeCtx)
	cancel()
	if !online {
		return skipped("remote is offline", remote.ErrOffline)
	}
	return o.SyncToCloud(ctx)
}

// BootstrapResult reports what Bootstrap did on startup.
type BootstrapResult struct {
	Restored bool
	Seeded   bool
	// Pull is the restore attempt, zero when none was made.
	Pull *Outcome
}

// Bootstrap runs the startup flow. Each start of a device that has not
// finished onboarding tries exactly one restore; success marks onboarding and
// the first launch complete. Otherwise first-run defaults are seeded, which
// happens at most once per device.
func (o *Orchestrator) Bootstrap(ctx context.Context) (BootstrapResult, error) {
	var result BootstrapResult

	onboarded, err := o.store.IsOnboardingComplete()
	if err != nil {
		return result, fmt.Errorf("failed to read onboarding state: %w", err)
	}

	if !onboarded && o.remote != nil {
		pull := o.SyncFromCloud(ctx)
		result.Pull = &pull
		if pull.OK() {
			if err := o.store.SetOnboardingComplete(true); err != nil {
				return result, fmt.Errorf("failed to mark onboarding complete: %w", err)
			}
			if err := o.store.SetFirstLaunchDone(); err != nil {
				return result, fmt.Errorf("failed to record first launch: %w", err)
			}
			result.Restored = true
			return result, nil
		}
	}

	seeded, err := o.store.SeedDefaults()
	if err != nil {
		return result, fmt.Errorf("failed to seed defaults: %w", err)
	}
	result.Seeded = seeded
	return result, nil
}

// Report is a point-in-time view for `planner sync status`.
type Report struct {
	State        State
	LastSync     int64
	Remote       string
	Online       bool
	RemoteExists bool
}

func (o *Orchestrator) Status(ctx context.Context) (Report, error) {
	last, err := o.store.LastSyncTime()
	if err != nil {
		return Report{}, err
	}
	report := Report{State: o.State(), LastSync: last}
	if o.remote == nil {
		return report, nil
	}

	callCtx, cancel := o.withTimeout(ctx)
	defer cancel()
	report.Remote = o.remote.Describe()
	report.Online = o.remote.IsOnline(callCtx)
	if report.Online {
		exists, err := o.remote.Exists(callCtx)
		if err != nil {
			logger.Warn("Failed to check remote backup", "error", err)
		}
		report.RemoteExists = exists
	}
	return report, nil
}

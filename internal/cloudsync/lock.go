package cloudsync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/logger"
)

// ErrLocked means a live process owns the sync lockfile.
var ErrLocked = errors.New("sync lock held by another process")

var findProcessFunc = ps.FindProcess

// Lockfile is an O_EXCL pid file. A lock whose owner is no longer running
// is reclaimed.
type Lockfile struct {
	path string
}

// NewLockfile places the lock at <configDir>/planner-sync.lock.
func NewLockfile(configDir string) *Lockfile {
	return &Lockfile{path: filepath.Join(configDir, constants.SyncLockfileName)}
}

func (l *Lockfile) Path() string {
	return l.path
}

// Acquire takes the lock and returns its release func.
func (l *Lockfile) Acquire() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(l.path)
				return nil, fmt.Errorf("failed to write lockfile: %v", errors.Join(werr, cerr))
			}
			return func() { l.release() }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		pid, alive := l.owner()
		if alive {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, pid)
		}
		logger.Warn("Removing stale sync lock", "path", l.path, "pid", pid)
		if err := l.removeStale(pid); err != nil {
			return nil, err
		}
	}
	return nil, ErrLocked
}

// removeStale moves the lockfile aside and deletes it only while it still
// holds stalePid. A lock taken by another process after the staleness check
// is put back.
func (l *Lockfile) removeStale(stalePid int) error {
	aside := fmt.Sprintf("%s.stale.%d", l.path, os.Getpid())
	if err := os.Rename(l.path, aside); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to move stale lockfile: %w", err)
	}

	if pid := readPid(aside); pid != stalePid {
		if err := os.Link(aside, l.path); err != nil && !errors.Is(err, os.ErrExist) {
			if rerr := os.Rename(aside, l.path); rerr != nil {
				return fmt.Errorf("failed to restore lockfile: %w", rerr)
			}
			return fmt.Errorf("%w (pid %d)", ErrLocked, pid)
		}
		_ = os.Remove(aside)
		return fmt.Errorf("%w (pid %d)", ErrLocked, pid)
	}

	if err := os.Remove(aside); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale lockfile: %w", err)
	}
	return nil
}

// readPid returns the pid stored at path, or 0 when it is missing or malformed.
func readPid(path string) int {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0
	}
	return pid
}

// owner reads the pid in the lockfile and checks it against the process
// table. Malformed content counts as a dead owner.
func (l *Lockfile) owner() (int, bool) {
	pid := readPid(l.path)
	if pid == 0 {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	return pid, true
}

func (l *Lockfile) release() {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to remove sync lock", "path", l.path, "error", err)
	}
}

package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/storage"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations
type Manager struct {
	store     *storage.Store
	backupDir string
}

// NewManager creates a backup manager writing into
// <configDir>/backups.
func NewManager(store *storage.Store, configDir string) *Manager {
	return &Manager{
		store:     store,
		backupDir: filepath.Join(configDir, constants.BackupDirName),
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes the current export to a new backup file and rotates
// old backups.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	return m.createBackup(ctx, false)
}

// createBackup skips rotation when taking the safety copy during a restore.
func (m *Manager) createBackup(ctx context.Context, skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := ExportJSON(ctx, m.store)
	if err != nil {
		return "", err
	}

	backupPath, err := m.nextBackupPath(m.store.Now())
	if err != nil {
		return "", err
	}

	tempPath := backupPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tempPath, backupPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to finalize backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "dir", m.backupDir, "error", err)
		}
	}
	return backupPath, nil
}

// nextBackupPath picks planner-YYYYMMDD-HHMM.json, falling back to seconds
// and then a counter when the name is taken.
func (m *Manager) nextBackupPath(now time.Time) (string, error) {
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}
	exists := func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	path := name(now.Format("20060102-1504"))
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format("20060102-150405")
	path = name(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = name(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

// parseBackupName extracts the timestamp and counter from a backup file name.
func parseBackupName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	counter := 0
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		if _, err := fmt.Sscanf(parts[2], "%d", &counter); err != nil {
			return time.Time{}, 0, false
		}
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, counter, true
		}
	}
	return time.Time{}, 0, false
}

// ListBackups returns all backups, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	type candidate struct {
		info    BackupInfo
		counter int
	}
	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, counter, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(m.backupDir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		found = append(found, candidate{
			info:    BackupInfo{Path: path, Timestamp: ts, Size: info.Size()},
			counter: counter,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if !found[i].info.Timestamp.Equal(found[j].info.Timestamp) {
			return found[i].info.Timestamp.After(found[j].info.Timestamp)
		}
		return found[i].counter > found[j].counter
	})

	backups := make([]BackupInfo, 0, len(found))
	for _, c := range found {
		backups = append(backups, c.info)
	}
	return backups, nil
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) <= constants.MaxBackups {
		return nil
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup validates a backup file, saves a safety backup of the
// current data and then imports the file. It returns the safety backup path.
func (m *Manager) RestoreBackup(ctx context.Context, backupPath string) (string, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to read backup file: %w", err)
	}

	env, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	safety, err := m.createBackup(ctx, true)
	if err != nil {
		return "", fmt.Errorf("failed to backup current data before restore: %w", err)
	}

	if _, err := ImportEnvelope(m.store, env); err != nil {
		return safety, err
	}
	return safety, nil
}

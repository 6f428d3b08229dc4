package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirStore keeps the device blob under a local or mounted directory, such as
// a synced folder or a network share.
type DirStore struct {
	root string
	path string
}

func NewDir(root, deviceID string) *DirStore {
	return &DirStore{
		root: root,
		path: filepath.Join(root, filepath.FromSlash(ObjectKey("", deviceID))),
	}
}

// Path returns the blob file location.
func (d *DirStore) Path() string {
	return d.path
}

func (d *DirStore) Upload(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return wrapOffline("upload cancelled", err)
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0700); err != nil {
		return fmt.Errorf("failed to create remote directory: %w", err)
	}

	tempPath := d.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write remote backup: %w", err)
	}
	if err := os.Rename(tempPath, d.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to finalize remote backup: %w", err)
	}
	return nil
}

func (d *DirStore) Download(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapOffline("download cancelled", err)
	}
	data, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read remote backup: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read remote backup: %w", err)
	}
	return data, nil
}

func (d *DirStore) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// IsOnline reports whether the root directory is reachable. A root that
// does not exist yet counts as reachable when its parent does, since Upload
// creates it.
func (d *DirStore) IsOnline(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	info, err := os.Stat(d.root)
	if errors.Is(err, os.ErrNotExist) {
		info, err = os.Stat(filepath.Dir(d.root))
	}
	return err == nil && info.IsDir()
}

func (d *DirStore) Describe() string {
	return d.path
}

func (d *DirStore) Close() error {
	return nil
}

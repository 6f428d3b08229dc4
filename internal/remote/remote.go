// Package remote defines the per-device blob the sync orchestrator pushes to
// and pulls from, with GCS, Redis and plain directory backends.
package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"path"
	"strings"

	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/constants"
)

var (
	// ErrNotFound is returned by Download when the device has no remote blob
	ErrNotFound = errors.New("no remote backup found")
	// ErrOffline is returned when the remote cannot be reached
	ErrOffline = errors.New("remote is unreachable")
	// ErrNotConfigured is returned by Open for the "none" remote kind
	ErrNotConfigured = errors.New("no remote configured")
)

// BlobStore holds exactly one export blob per device.
type BlobStore interface {
	Upload(ctx context.Context, data []byte) error
	Download(ctx context.Context) ([]byte, error)
	Exists(ctx context.Context) (bool, error)
	IsOnline(ctx context.Context) bool
	// Describe names the blob location for status output.
	Describe() string
	Close() error
}

// ObjectKey is <prefix>/<deviceID>/planner-backup.json.
func ObjectKey(prefix, deviceID string) string {
	return path.Join(strings.Trim(prefix, "/"), deviceID, constants.RemoteObjectName)
}

var (
	hostnameFunc    = os.Hostname
	currentUserFunc = user.Current
)

// DeviceID returns configured when set, otherwise a stable hash of the host
// and user names.
func DeviceID(configured string) string {
	if id := strings.TrimSpace(configured); id != "" {
		return id
	}

	host, err := hostnameFunc()
	if err != nil || host == "" {
		host = "unknown-host"
	}
	name := "unknown-user"
	if u, err := currentUserFunc(); err == nil && u.Username != "" {
		name = u.Username
	}

	sum := sha256.Sum256([]byte(host + "\x00" + name))
	return hex.EncodeToString(sum[:])[:32]
}

// Open builds the BlobStore selected by cfg.
func Open(ctx context.Context, cfg config.RemoteConfig) (BlobStore, error) {
	deviceID := DeviceID(cfg.DeviceID)

	switch cfg.Kind {
	case config.RemoteGCS:
		return NewGCS(ctx, cfg.GCS, deviceID)
	case config.RemoteRedis:
		return NewRedis(cfg.Redis, deviceID)
	case config.RemoteDir:
		root, err := config.ExpandPath(cfg.Dir.Path)
		if err != nil {
			return nil, err
		}
		return NewDir(root, deviceID), nil
	case config.RemoteNone, "":
		return nil, ErrNotConfigured
	default:
		return nil, fmt.Errorf("unknown remote kind %q", cfg.Kind)
	}
}

// isUnreachable reports transport failures: dial errors, timeouts and
// cancelled contexts.
func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// wrapOffline tags transport failures with ErrOffline and leaves anything
// else as is.
func wrapOffline(op string, err error) error {
	if isUnreachable(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrOffline, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

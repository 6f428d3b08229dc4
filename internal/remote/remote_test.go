package remote

import (
	"context"
	"errors"
	"os/user"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/planner/internal/config"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix, device, want string
	}{
		{"backups", "dev1", "backups/dev1/planner-backup.json"},
		{"/backups/", "dev1", "backups/dev1/planner-backup.json"},
		{"", "dev1", "dev1/planner-backup.json"},
		{"planner", "abc", "planner/abc/planner-backup.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ObjectKey(tt.prefix, tt.device))
	}
}

func TestDeviceID(t *testing.T) {
	oldHost, oldUser := hostnameFunc, currentUserFunc
	t.Cleanup(func() { hostnameFunc, currentUserFunc = oldHost, oldUser })

	hostnameFunc = func() (string, error) { return "laptop", nil }
	currentUserFunc = func() (*user.User, error) { return &user.User{Username: "sam"}, nil }

	assert.Equal(t, "my-phone", DeviceID("  my-phone "))

	first := DeviceID("")
	assert.Len(t, first, 32)
	assert.Equal(t, first, DeviceID(""), "fallback id must be stable")

	currentUserFunc = func() (*user.User, error) { return &user.User{Username: "alex"}, nil }
	assert.NotEqual(t, first, DeviceID(""))

	hostnameFunc = func() (string, error) { return "", errors.New("no hostname") }
	currentUserFunc = func() (*user.User, error) { return nil, errors.New("no user") }
	assert.Len(t, DeviceID(""), 32)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, config.RemoteConfig{Kind: config.RemoteNone})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = Open(ctx, config.RemoteConfig{Kind: "ftp"})
	assert.Error(t, err)

	root := t.TempDir()
	store, err := Open(ctx, config.RemoteConfig{Kind: config.RemoteDir, DeviceID: "dev1", Dir: config.DirConfig{Path: root}})
	require.NoError(t, err)
	dir, ok := store.(*DirStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "dev1", "planner-backup.json"), dir.Path())
}

func TestDirStore(t *testing.T) {
	ctx := context.Background()
	store := NewDir(t.TempDir(), "dev1")

	assert.True(t, store.IsOnline(ctx))

	exists, err := store.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Download(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Upload(ctx, []byte(`{"version":1}`)))
	require.NoError(t, store.Upload(ctx, []byte(`{"version":1,"goals":[]}`)))

	exists, err = store.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.Download(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"goals":[]}`, string(data))
	assert.NoError(t, store.Close())
}

func TestDirStoreUncreatedRoot(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "remote")
	store := NewDir(root, "dev1")

	assert.True(t, store.IsOnline(ctx), "missing root under an existing parent is reachable")
	require.NoError(t, store.Upload(ctx, []byte(`{"version":1}`)))
	assert.DirExists(t, root)
	assert.True(t, store.IsOnline(ctx))
}

func TestDirStoreOffline(t *testing.T) {
	store := NewDir(filepath.Join(t.TempDir(), "share", "unmounted"), "dev1")
	assert.False(t, store.IsOnline(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Upload(ctx, []byte("{}")), ErrOffline)
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisWithClient(client, "planner", "dev1")
	t.Cleanup(func() { store.Close() })

	assert.Equal(t, "planner/dev1/planner-backup.json", store.Key())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.False(t, store.IsOnline(ctx))
	_, err := store.Download(ctx)
	assert.ErrorIs(t, err, ErrOffline)
	assert.ErrorIs(t, store.Upload(ctx, []byte("{}")), ErrOffline)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantFound   bool
		wantOffline bool
	}{
		{"redis nil", redisError("get", redis.Nil), true, false},
		{"gcs missing object", gcsError("read", storage.ErrObjectNotExist), true, false},
		{"gcs missing bucket", gcsError("read", storage.ErrBucketNotExist), true, false},
		{"deadline", gcsError("read", context.DeadlineExceeded), false, true},
		{"cancelled", redisError("get", context.Canceled), false, true},
		{"other", gcsError("read", errors.New("permission denied")), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFound, errors.Is(tt.err, ErrNotFound))
			assert.Equal(t, tt.wantOffline, errors.Is(tt.err, ErrOffline))
		})
	}
}

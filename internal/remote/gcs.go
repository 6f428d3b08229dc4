package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/logger"
)

// GCSStore keeps the device blob as one object in a Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCS connects with the service account key in cfg.CredentialsFile, or
// with application default credentials when it is empty.
func NewGCS(ctx context.Context, cfg config.GCSConfig, deviceID string) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		keyPath, err := config.ExpandPath(cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", keyPath)
		}
		opts = append(opts, option.WithCredentialsFile(keyPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSStore{
		client: client,
		bucket: cfg.Bucket,
		object: ObjectKey(cfg.Prefix, deviceID),
	}, nil
}

func (g *GCSStore) handle() *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(g.object)
}

func (g *GCSStore) Upload(ctx context.Context, data []byte) error {
	writer := g.handle().NewWriter(ctx)
	writer.ContentType = "application/json"
	writer.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return gcsError("failed to write GCS object", err)
	}
	if err := writer.Close(); err != nil {
		return gcsError("failed to close GCS writer", err)
	}
	logger.Debug("Uploaded remote backup", "bucket", g.bucket, "object", g.object, "bytes", len(data))
	return nil
}

func (g *GCSStore) Download(ctx context.Context) ([]byte, error) {
	reader, err := g.handle().NewReader(ctx)
	if err != nil {
		return nil, gcsError("failed to open GCS object", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, gcsError("failed to read GCS object", err)
	}
	return data, nil
}

func (g *GCSStore) Exists(ctx context.Context) (bool, error) {
	_, err := g.handle().Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, gcsError("failed to stat GCS object", err)
	}
	return true, nil
}

// IsOnline treats a missing object as a reachable bucket.
func (g *GCSStore) IsOnline(ctx context.Context) bool {
	_, err := g.handle().Attrs(ctx)
	return err == nil || errors.Is(err, storage.ErrObjectNotExist)
}

func (g *GCSStore) Describe() string {
	return fmt.Sprintf("gs://%s/%s", g.bucket, g.object)
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}

func gcsError(op string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return wrapOffline(op, err)
}

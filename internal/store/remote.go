package store

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dumproll/dumproll/internal/domain"
)

// RemoteStore is an S3-compatible bucket scoped under a key prefix,
// acting as a virtual directory of artifacts.
type RemoteStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewRemoteStore builds a client for the given endpoint. The endpoint
// may carry a scheme; http selects a plaintext connection, anything
// else uses TLS.
func NewRemoteStore(endpoint, accessKey, secretKey, bucket, prefix string) (*RemoteStore, error) {
	host := endpoint
	secure := true
	if strings.Contains(endpoint, "://") {
		ep, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
		}
		host = ep.Host
		secure = ep.Scheme != "http"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	return &RemoteStore{
		client: client,
		bucket: bucket,
		prefix: normalizePrefix(prefix),
	}, nil
}

func normalizePrefix(prefix string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// Key returns the object key an artifact name maps to.
func (s *RemoteStore) Key(name string) string {
	return s.prefix + name
}

// Put uploads a local artifact file under the store's prefix and
// returns the object key. An existing object under the same key is
// replaced, so rerunning on the same date overwrites that date's
// artifact.
func (s *RemoteStore) Put(ctx context.Context, localPath string) (string, error) {
	key := s.Key(filepath.Base(localPath))
	info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: "application/gzip",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	log.Info("uploaded backup", "key", key, "size", info.Size)
	return key, nil
}

// List returns every object key currently stored under the prefix.
func (s *RemoteStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects under %q: %w", s.prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Delete removes one object.
func (s *RemoteStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Sweep deletes every remote artifact whose embedded date fell out of
// the retention window, with the same best-effort per-entry semantics
// as the local sweep. Keys that do not look like artifacts are left
// alone. Listing failure aborts the sweep since nothing was deleted.
//
// This sweep is not part of the default backup run: the bucket's own
// lifecycle expiry is the preferred mechanism for destructive remote
// deletes. It exists as a separately invoked operation.
func (s *RemoteStore) Sweep(ctx context.Context, today time.Time, window domain.RetentionWindow) (int, error) {
	return sweepObjects(ctx, s, today, window)
}

// objectSet is the slice of the remote store the retention sweep
// needs, split out so the sweep runs against a fake in tests.
type objectSet interface {
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
}

func sweepObjects(ctx context.Context, objects objectSet, today time.Time, window domain.RetentionWindow) (int, error) {
	keys, err := objects.List(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, key := range keys {
		if !strings.HasSuffix(key, domain.ArtifactSuffix) {
			continue
		}
		date, err := domain.ParseArtifactDate(path.Base(key))
		if err != nil {
			log.Warn("skipping object without embedded date", "key", key, "error", err)
			continue
		}
		if !window.Expired(date, today) {
			continue
		}
		if err := objects.Delete(ctx, key); err != nil {
			log.Error("failed to delete expired remote backup", "key", key, "error", err)
			continue
		}
		log.Info("deleted expired remote backup", "key", key)
		deleted++
	}

	return deleted, nil
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elayeboussama/University-Order-Management-System/config"
	"github.com/elayeboussama/University-Order-Management-System/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArtifactStore stores document blobs in MINIO and serves them through
// public URLs. Uploads are immutable by default: writing to an existing
// key fails with ErrKeyConflict unless upsert is requested.
type ArtifactStore struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
	http   *http.Client
}

func NewArtifactStore(cfg *config.MinioConfig) (*ArtifactStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArtifactStore{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ArtifactStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload writes a blob under the given key and returns its public URL.
func (s *ArtifactStore) Upload(ctx context.Context, objectName string, data []byte, contentType string, upsert bool) (string, error) {
	if !upsert {
		_, err := s.client.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{})
		if err == nil {
			return "", fmt.Errorf("%w: %s", model.ErrKeyConflict, objectName)
		}
		if resp := minio.ToErrorResponse(err); resp.StatusCode != http.StatusNotFound {
			return "", fmt.Errorf("%w: stat %s: %v", model.ErrTransientIO, objectName, err)
		}
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", model.ErrTransientIO, objectName, err)
	}

	return s.PublicURL(objectName), nil
}

// Fetch retrieves the full byte content addressed by a previously returned
// public URL.
func (s *ArtifactStore) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact URL %q: %w", url, err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", model.ErrTransientIO, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", model.ErrArtifactNotFound, url)
	default:
		return nil, fmt.Errorf("%w: fetch %s: status %d", model.ErrTransientIO, url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrTransientIO, url, err)
	}
	return data, nil
}

// Remove deletes an object from storage.
func (s *ArtifactStore) Remove(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PublicURL returns a public URL for the object (bucket policy allows reads)
func (s *ArtifactStore) PublicURL(objectName string) string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, objectName)
}

// ObjectNameFromURL recovers the object key from a URL this store produced.
func (s *ArtifactStore) ObjectNameFromURL(url string) (string, bool) {
	prefix := s.PublicURL("")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" {
		return "", false
	}
	return name, true
}

// DocumentKey builds the storage key for an order's initial document.
func DocumentKey(filename string) string {
	return fmt.Sprintf("orders/%d-%s", time.Now().UnixMilli(), filename)
}

// SignedKey builds the storage key for a signed PDF revision.
func SignedKey(at time.Time) string {
	return fmt.Sprintf("signatures/%d-signed.pdf", at.UnixMilli())
}

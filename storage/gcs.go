package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
)

const uploadTimeout = 50 * time.Second

// ObjectStore is the blob backend used for generated images and avatars.
// History and auth code depend on this interface, not on GCS directly.
type ObjectStore interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error)
	// Delete removes the object; a missing object is not an error.
	Delete(ctx context.Context, objectName string) error
}

// GCSStore stores objects in a public Google Cloud Storage bucket.
type GCSStore struct {
	client     *gcs.Client
	bucketName string
}

func NewGCSStore(ctx context.Context, bucketName string) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSStore{client: client, bucketName: bucketName}, nil
}

func (s *GCSStore) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	wc := s.client.Bucket(s.bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", fmt.Errorf("write object %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("close object %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName), nil
}

func (s *GCSStore) Delete(ctx context.Context, objectName string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	err := s.client.Bucket(s.bucketName).Object(objectName).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete object %s: %w", objectName, err)
	}

	return nil
}

// MakeBucketPublic grants allUsers read access. Run once at provisioning.
func (s *GCSStore) MakeBucketPublic(ctx context.Context) error {
	bucket := s.client.Bucket(s.bucketName)

	policy, err := bucket.IAM().Policy(ctx)
	if err != nil {
		return err
	}

	policy.Add("allUsers", "roles/storage.objectViewer")

	return bucket.IAM().SetPolicy(ctx, policy)
}

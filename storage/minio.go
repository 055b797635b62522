package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	UseSSL      bool
	UploadTTL   time.Duration
	DownloadTTL time.Duration
}

// MinIOStore keeps blobs in an S3-compatible bucket and hands out presigned
// URLs for both directions.
type MinIOStore struct {
	client *minio.Client
	cfg    MinIOConfig
}

func NewMinIOStore(ctx context.Context, cfg MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinIOStore{client: client, cfg: cfg}, nil
}

func (s *MinIOStore) IssueUploadTarget(ctx context.Context, owner string) (*UploadTarget, error) {
	ref := NewStorageRef(owner)
	u, err := s.client.PresignedPutObject(ctx, s.cfg.Bucket, ref, s.cfg.UploadTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &UploadTarget{
		URL:        u.String(),
		Method:     http.MethodPut,
		StorageRef: ref,
		ExpiresAt:  time.Now().Add(s.cfg.UploadTTL),
	}, nil
}

func (s *MinIOStore) Put(ctx context.Context, ref string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, ref, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload object to MinIO: %w", err)
	}
	return nil
}

func (s *MinIOStore) ResolveDownloadURL(ctx context.Context, ref string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, ref, s.cfg.DownloadTTL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return u.String(), nil
}

func (s *MinIOStore) Exists(ctx context.Context, ref string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.cfg.Bucket, ref, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat object: %w", err)
}

func (s *MinIOStore) Delete(ctx context.Context, ref string) error {
	exists, err := s.Exists(ctx, ref)
	if err != nil {
		return err
	}
	if !exists {
		return ErrObjectNotFound
	}

	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object from MinIO: %w", err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"orgdrive/utils"

	"github.com/kurin/blazer/b2"
)

type B2Config struct {
	KeyID          string
	ApplicationKey string
	BucketName     string
	// PublicBaseURL is this service's externally reachable base URL; upload
	// targets point at its /api/uploads endpoint.
	PublicBaseURL string
	TicketSecret  string
	TicketTTL     time.Duration
	DownloadTTL   time.Duration
}

// B2Store keeps blobs in a private Backblaze B2 bucket. Uploads are proxied
// through this service because B2 has no presigned PUT.
type B2Store struct {
	client *b2.Client
	bucket *b2.Bucket
	cfg    B2Config
}

func NewB2Store(ctx context.Context, cfg B2Config) (*B2Store, error) {
	client, err := b2.NewClient(ctx, cfg.KeyID, cfg.ApplicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create B2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.BucketName, err)
	}

	return &B2Store{client: client, bucket: bucket, cfg: cfg}, nil
}

func (s *B2Store) IssueUploadTarget(ctx context.Context, owner string) (*UploadTarget, error) {
	ref := NewStorageRef(owner)
	ticket, expiresAt, err := utils.GenerateUploadTicket(ref, s.cfg.TicketSecret, s.cfg.TicketTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload ticket: %w", err)
	}

	return &UploadTarget{
		URL:        ProxyUploadURL(s.cfg.PublicBaseURL, ticket),
		Method:     http.MethodPut,
		StorageRef: ref,
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *B2Store) Put(ctx context.Context, ref string, r io.Reader, size int64, contentType string) error {
	w := s.bucket.Object(ref).NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("failed to upload object to B2: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close B2 writer: %w", err)
	}
	return nil
}

func (s *B2Store) ResolveDownloadURL(ctx context.Context, ref string) (string, error) {
	u, err := s.bucket.Object(ref).AuthURL(ctx, s.cfg.DownloadTTL, "")
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return u.String(), nil
}

func (s *B2Store) Exists(ctx context.Context, ref string) (bool, error) {
	_, err := s.bucket.Object(ref).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if b2.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat object: %w", err)
}

func (s *B2Store) Delete(ctx context.Context, ref string) error {
	if err := s.bucket.Object(ref).Delete(ctx); err != nil {
		if b2.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete file from B2: %w", err)
	}
	return nil
}

// ProxyUploadURL builds the URL of the proxied upload endpoint for a ticket.
func ProxyUploadURL(baseURL, ticket string) string {
	return baseURL + "/api/uploads/" + url.PathEscape(ticket)
}

package storage

import (
	"context"
	"io"
	"time"

	"orgdrive/utils"
)

// URLCache stores resolved download URLs keyed by storage ref.
type URLCache interface {
	GetURL(ctx context.Context, ref string) (string, bool, error)
	SetURL(ctx context.Context, ref, url string, ttl time.Duration) error
	DeleteURL(ctx context.Context, ref string) error
}

// CachedBlobStore serves download URLs from a cache while they are still
// comfortably within their signed lifetime. Cache failures degrade to the
// underlying store.
type CachedBlobStore struct {
	BlobStore
	cache URLCache
	ttl   time.Duration
}

// NewCachedBlobStore caches URLs for urlLifetime minus a safety margin, so a
// cached URL always has at least a fifth of its lifetime left when served.
func NewCachedBlobStore(inner BlobStore, cache URLCache, urlLifetime time.Duration) *CachedBlobStore {
	return &CachedBlobStore{
		BlobStore: inner,
		cache:     cache,
		ttl:       urlLifetime - urlLifetime/5,
	}
}

func (s *CachedBlobStore) ResolveDownloadURL(ctx context.Context, ref string) (string, error) {
	log := utils.Component("url_cache").WithField("storage_ref", ref)

	if url, ok, err := s.cache.GetURL(ctx, ref); err != nil {
		log.WithError(err).Warn("url cache read failed")
	} else if ok {
		return url, nil
	}

	url, err := s.BlobStore.ResolveDownloadURL(ctx, ref)
	if err != nil {
		return "", err
	}

	if s.ttl > 0 {
		if err := s.cache.SetURL(ctx, ref, url, s.ttl); err != nil {
			log.WithError(err).Warn("url cache write failed")
		}
	}
	return url, nil
}

func (s *CachedBlobStore) Delete(ctx context.Context, ref string) error {
	if err := s.cache.DeleteURL(ctx, ref); err != nil {
		utils.Component("url_cache").WithError(err).WithField("storage_ref", ref).Warn("url cache eviction failed")
	}
	return s.BlobStore.Delete(ctx, ref)
}

// Put forwards to the wrapped store when it accepts proxied uploads.
func (s *CachedBlobStore) Put(ctx context.Context, ref string, r io.Reader, size int64, contentType string) error {
	uploader, ok := s.BlobStore.(Uploader)
	if !ok {
		return ErrUploadUnsupported
	}
	return uploader.Put(ctx, ref, r, size, contentType)
}

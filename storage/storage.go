// Package storage adapts object stores to the operations the file lifecycle
// needs: issuing upload targets, resolving download URLs, existence checks and
// deletion.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrUploadUnsupported = errors.New("store does not accept proxied uploads")
)

// UploadTarget is where a client sends the bytes of a new file. StorageRef is
// reserved for the upload and is what CreateFile later receives.
type UploadTarget struct {
	URL        string    `json:"uploadUrl"`
	Method     string    `json:"method"`
	StorageRef string    `json:"storageId"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type BlobStore interface {
	// IssueUploadTarget reserves a ref under owner's prefix; see OwnsRef.
	IssueUploadTarget(ctx context.Context, owner string) (*UploadTarget, error)
	ResolveDownloadURL(ctx context.Context, ref string) (string, error)
	Exists(ctx context.Context, ref string) (bool, error)
	// Delete returns ErrObjectNotFound when there is nothing to delete.
	Delete(ctx context.Context, ref string) error
}

// Uploader is implemented by stores that accept bytes proxied through this
// service.
type Uploader interface {
	Put(ctx context.Context, ref string, r io.Reader, size int64, contentType string) error
}

const refPrefix = "uploads/"

var ownerNamespace = uuid.MustParse("6f1d3c2a-5b7e-4c1d-9a8f-2e4b6c8d0a1f")

// NewStorageRef returns a fresh object key for an upload by owner. The key
// embeds a stable id derived from owner.
func NewStorageRef(owner string) string {
	return refPrefix + ownerKey(owner) + "/" + uuid.NewString()
}

// OwnsRef reports whether ref was reserved for owner by NewStorageRef.
func OwnsRef(owner, ref string) bool {
	if owner == "" {
		return false
	}
	return strings.HasPrefix(ref, refPrefix+ownerKey(owner)+"/")
}

func ownerKey(owner string) string {
	return uuid.NewSHA1(ownerNamespace, []byte(owner)).String()
}

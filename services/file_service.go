package services

import (
	"context"
	"fmt"
	"strings"

	"orgdrive/models"
	"orgdrive/storage"
	"orgdrive/utils"
)

type FileService struct {
	files         FileStore
	blobs         storage.BlobStore
	access        *AccessService
	notifications *NotificationService
}

// CreateFileRequest is the body of POST /api/orgs/:orgId/files.
type CreateFileRequest struct {
	OrgID      string          `json:"-"`
	StorageRef string          `json:"storageId" binding:"required"`
	Type       models.FileType `json:"type" binding:"required,filetype"`
	Name       string          `json:"name" binding:"required"`
}

func NewFileService(files FileStore, blobs storage.BlobStore, access *AccessService, notifications *NotificationService) *FileService {
	return &FileService{
		files:         files,
		blobs:         blobs,
		access:        access,
		notifications: notifications,
	}
}

// GenerateUploadURL reserves a storage ref and returns where to send the bytes.
func (s *FileService) GenerateUploadURL(ctx context.Context, caller models.Caller) (*storage.UploadTarget, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}

	target, err := s.blobs.IssueUploadTarget(ctx, caller.TokenIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to issue upload URL: %w", err)
	}
	return target, nil
}

// CreateFile records an uploaded blob as an active file owned by the caller.
func (s *FileService) CreateFile(ctx context.Context, caller models.Caller, req CreateFileRequest) (*models.File, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidFileType
	}
	name := strings.TrimSpace(req.Name)
	if err := utils.ValidateFileName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileName, err)
	}
	if strings.TrimSpace(req.StorageRef) == "" {
		return nil, ErrBlobMissing
	}

	access, err := s.access.AuthorizeOrg(ctx, caller, req.OrgID)
	if err != nil {
		return nil, err
	}
	if access == nil {
		return nil, denied("create a file in this organization")
	}
	if !storage.OwnsRef(caller.TokenIdentifier, req.StorageRef) {
		return nil, denied("register this upload")
	}

	file := &models.File{
		Name:       name,
		OrgID:      req.OrgID,
		StorageRef: req.StorageRef,
		Type:       req.Type,
		OwnerID:    access.User.ID,
	}
	if err := newUploadSaga(s.blobs, s.files, file).run(ctx); err != nil {
		return nil, err
	}

	s.notifications.FileCreated(ctx, file, access.User)
	return file, nil
}

// MarkForDeletion moves a file to the trash.
func (s *FileService) MarkForDeletion(ctx context.Context, caller models.Caller, fileID string) (*models.File, error) {
	return s.setShouldDelete(ctx, caller, fileID, true, "delete this file")
}

// Restore takes a file back out of the trash.
func (s *FileService) Restore(ctx context.Context, caller models.Caller, fileID string) (*models.File, error) {
	return s.setShouldDelete(ctx, caller, fileID, false, "restore this file")
}

func (s *FileService) setShouldDelete(ctx context.Context, caller models.Caller, fileID string, shouldDelete bool, action string) (*models.File, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}

	access, err := s.access.AuthorizeFile(ctx, caller, fileID)
	if err != nil {
		return nil, err
	}
	if access == nil || !CanMutateLifecycle(access.User, access.File) {
		return nil, denied(action)
	}

	if err := s.files.SetShouldDelete(ctx, access.File.ID, shouldDelete); err != nil {
		return nil, fmt.Errorf("failed to update file: %w", err)
	}
	access.File.ShouldDelete = shouldDelete

	utils.Component("files").WithFields(map[string]interface{}{
		"file_id":       access.File.ID.Hex(),
		"user_id":       access.User.ID.Hex(),
		"should_delete": shouldDelete,
	}).Info("file lifecycle updated")

	if shouldDelete {
		s.notifications.FileTrashed(ctx, access.File, access.User)
	} else {
		s.notifications.FileRestored(ctx, access.File, access.User)
	}
	return access.File, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"orgdrive/models"
	"orgdrive/storage"
	"orgdrive/store"
	"orgdrive/utils"
)

type uploadState string

const (
	uploadReserved      uploadState = "reserved"
	uploadBlobConfirmed uploadState = "blob_confirmed"
	uploadCommitted     uploadState = "committed"
	uploadFailed        uploadState = "failed"
)

// uploadSaga turns a reserved storage ref into a committed file record. A
// record is only written after the blob store confirms the object exists. If
// the insert fails the blob stays where it is and is logged as orphaned,
// unless another record already owns the ref.
type uploadSaga struct {
	blobs storage.BlobStore
	files FileStore
	file  *models.File
	state uploadState
}

func newUploadSaga(blobs storage.BlobStore, files FileStore, file *models.File) *uploadSaga {
	return &uploadSaga{blobs: blobs, files: files, file: file, state: uploadReserved}
}

func (s *uploadSaga) run(ctx context.Context) error {
	log := utils.Component("upload").WithFields(map[string]interface{}{
		"storage_ref": s.file.StorageRef,
		"org_id":      s.file.OrgID,
	})

	exists, err := s.blobs.Exists(ctx, s.file.StorageRef)
	if err != nil {
		s.state = uploadFailed
		return fmt.Errorf("failed to confirm upload: %w", err)
	}
	if !exists {
		s.state = uploadFailed
		return ErrBlobMissing
	}
	s.state = uploadBlobConfirmed

	if err := s.files.Insert(ctx, s.file); err != nil {
		s.state = uploadFailed
		if errors.Is(err, store.ErrDuplicate) {
			return ErrStorageRefInUse
		}
		log.WithError(err).Error("file record insert failed, blob left orphaned")
		return err
	}
	s.state = uploadCommitted

	log.WithField("file_id", s.file.ID.Hex()).Info("upload committed")
	return nil
}

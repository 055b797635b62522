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

// PurgeReport summarizes one sweep. Failed files keep their deletion flag and
// are retried on the next sweep.
type PurgeReport struct {
	Scanned int `json:"scanned"`
	Purged  int `json:"purged"`
	Failed  int `json:"failed"`
}

type TrashService struct {
	files         FileStore
	favorites     FavoriteStore
	blobs         storage.BlobStore
	notifications *NotificationService
}

func NewTrashService(files FileStore, favorites FavoriteStore, blobs storage.BlobStore, notifications *NotificationService) *TrashService {
	return &TrashService{
		files:         files,
		favorites:     favorites,
		blobs:         blobs,
		notifications: notifications,
	}
}

// PurgeAll permanently removes every file marked for deletion, regardless of
// org or owner. Each file is handled on its own so one failure does not stop
// the sweep.
func (s *TrashService) PurgeAll(ctx context.Context) (*PurgeReport, error) {
	log := utils.Component("trash")

	files, err := s.files.ListMarkedForDeletion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files marked for deletion: %w", err)
	}

	report := &PurgeReport{Scanned: len(files)}
	for i := range files {
		if ctx.Err() != nil {
			report.Failed += len(files) - i
			break
		}

		file := &files[i]
		if err := s.purgeFile(ctx, file); err != nil {
			report.Failed++
			log.WithError(err).WithFields(map[string]interface{}{
				"file_id":     file.ID.Hex(),
				"storage_ref": file.StorageRef,
			}).Error("failed to purge file")
			continue
		}
		report.Purged++
	}

	log.WithFields(map[string]interface{}{
		"scanned": report.Scanned,
		"purged":  report.Purged,
		"failed":  report.Failed,
	}).Info("trash purge completed")
	return report, nil
}

func (s *TrashService) purgeFile(ctx context.Context, file *models.File) error {
	if err := s.blobs.Delete(ctx, file.StorageRef); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	if err := s.files.Delete(ctx, file.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	if removed, err := s.favorites.DeleteByFile(ctx, file.ID); err != nil {
		utils.Component("trash").WithError(err).WithField("file_id", file.ID.Hex()).Warn("failed to remove favorites of purged file")
	} else if removed > 0 {
		utils.Component("trash").WithFields(map[string]interface{}{
			"file_id": file.ID.Hex(),
			"removed": removed,
		}).Debug("removed favorites of purged file")
	}

	s.notifications.FilePurged(ctx, file)
	return nil
}

package services

import (
	"context"
	"time"

	"orgdrive/events"
	"orgdrive/models"
	"orgdrive/utils"
)

// NotificationService announces file lifecycle transitions. Publishing never
// fails the operation that triggered it.
type NotificationService struct {
	publisher events.Publisher
}

func NewNotificationService(publisher events.Publisher) *NotificationService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &NotificationService{publisher: publisher}
}

func (s *NotificationService) FileCreated(ctx context.Context, file *models.File, actor *models.User) {
	s.publish(ctx, events.KindFileCreated, file, actor)
}

func (s *NotificationService) FileTrashed(ctx context.Context, file *models.File, actor *models.User) {
	s.publish(ctx, events.KindFileTrashed, file, actor)
}

func (s *NotificationService) FileRestored(ctx context.Context, file *models.File, actor *models.User) {
	s.publish(ctx, events.KindFileRestored, file, actor)
}

func (s *NotificationService) FilePurged(ctx context.Context, file *models.File) {
	s.publish(ctx, events.KindFilePurged, file, nil)
}

func (s *NotificationService) publish(ctx context.Context, kind events.Kind, file *models.File, actor *models.User) {
	event := events.FileEvent{
		Kind:       kind,
		FileID:     file.ID.Hex(),
		OrgID:      file.OrgID,
		Name:       file.Name,
		Type:       string(file.Type),
		OccurredAt: time.Now().UTC(),
	}
	if actor != nil {
		event.ActorID = actor.ID.Hex()
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		utils.Component("notifications").WithError(err).WithFields(map[string]interface{}{
			"kind":    kind,
			"file_id": event.FileID,
		}).Warn("failed to publish file event")
	}
}

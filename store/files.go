package store

import (
	"context"
	"fmt"
	"time"

	"orgdrive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type FileStore struct {
	collection *mongo.Collection
}

func NewFileStore(db *mongo.Database) *FileStore {
	return &FileStore{collection: db.Collection(FilesCollection)}
}

func (s *FileStore) Get(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	var file models.File
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&file); err != nil {
		return nil, translateError(err)
	}
	return &file, nil
}

func (s *FileStore) Insert(ctx context.Context, file *models.File) error {
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	file.CreatedAt, file.UpdatedAt = now, now

	if _, err := s.collection.InsertOne(ctx, file); err != nil {
		return fmt.Errorf("failed to insert file: %w", translateError(err))
	}
	return nil
}

// SetShouldDelete patches only the deletion flag and the update time.
func (s *FileStore) SetShouldDelete(ctx context.Context, id primitive.ObjectID, shouldDelete bool) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"should_delete": shouldDelete, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOrg returns every file of the org in natural (insertion) order.
func (s *FileStore) ListByOrg(ctx context.Context, orgID string) ([]models.File, error) {
	return s.find(ctx, filesByOrgFilter(orgID))
}

func (s *FileStore) ListMarkedForDeletion(ctx context.Context) ([]models.File, error) {
	return s.find(ctx, markedForDeletionFilter())
}

func (s *FileStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FileStore) find(ctx context.Context, filter bson.M) ([]models.File, error) {
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	files := []models.File{}
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %w", err)
	}
	return files, nil
}

func filesByOrgFilter(orgID string) bson.M {
	return bson.M{"org_id": orgID}
}

func markedForDeletionFilter() bson.M {
	return bson.M{"should_delete": true}
}

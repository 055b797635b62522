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

type FavoriteStore struct {
	collection *mongo.Collection
}

func NewFavoriteStore(db *mongo.Database) *FavoriteStore {
	return &FavoriteStore{collection: db.Collection(FavoritesCollection)}
}

func (s *FavoriteStore) Find(ctx context.Context, userID primitive.ObjectID, orgID string, fileID primitive.ObjectID) (*models.Favorite, error) {
	var favorite models.Favorite
	err := s.collection.FindOne(ctx, favoriteKeyFilter(userID, orgID, fileID)).Decode(&favorite)
	if err != nil {
		return nil, translateError(err)
	}
	return &favorite, nil
}

// Insert fails with ErrDuplicate when the (user, org, file) triple exists.
func (s *FavoriteStore) Insert(ctx context.Context, favorite *models.Favorite) error {
	if favorite.ID.IsZero() {
		favorite.ID = primitive.NewObjectID()
	}
	favorite.CreatedAt = time.Now().UTC()

	if _, err := s.collection.InsertOne(ctx, favorite); err != nil {
		return translateError(err)
	}
	return nil
}

func (s *FavoriteStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

func (s *FavoriteStore) ListByUserOrg(ctx context.Context, userID primitive.ObjectID, orgID string) ([]models.Favorite, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID, "org_id": orgID})
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer cursor.Close(ctx)

	favorites := []models.Favorite{}
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	return favorites, nil
}

// DeleteByFile removes every favorite pointing at fileID and returns how many
// were removed.
func (s *FavoriteStore) DeleteByFile(ctx context.Context, fileID primitive.ObjectID) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{"file_id": fileID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete favorites for file: %w", err)
	}
	return result.DeletedCount, nil
}

func favoriteKeyFilter(userID primitive.ObjectID, orgID string, fileID primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "user_id", Value: userID},
		{Key: "org_id", Value: orgID},
		{Key: "file_id", Value: fileID},
	}
}

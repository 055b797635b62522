// Package store persists users, files and favorites in MongoDB.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection     = "users"
	FilesCollection     = "files"
	FavoritesCollection = "favorites"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

// EnsureIndexes creates the indexes the access and lifecycle queries rely on.
// The unique indexes are what keep concurrent user creation, favorite toggles
// and file registration from producing duplicates.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "token_identifier", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("by_token_identifier"),
			},
		},
		FilesCollection: {
			{
				Keys:    bson.D{{Key: "org_id", Value: 1}},
				Options: options.Index().SetName("by_org_id"),
			},
			{
				Keys:    bson.D{{Key: "should_delete", Value: 1}},
				Options: options.Index().SetName("by_should_delete"),
			},
			{
				Keys:    bson.D{{Key: "storage_ref", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("by_storage_ref"),
			},
		},
		FavoritesCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "org_id", Value: 1},
					{Key: "file_id", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("by_user_id_org_id_file_id"),
			},
			{
				Keys:    bson.D{{Key: "file_id", Value: 1}},
				Options: options.Index().SetName("by_file_id"),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

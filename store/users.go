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

type UserStore struct {
	collection *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{collection: db.Collection(UsersCollection)}
}

func (s *UserStore) FindByToken(ctx context.Context, tokenIdentifier string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"token_identifier": tokenIdentifier}).Decode(&user)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Memberships == nil {
		user.Memberships = []models.OrgMembership{}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		return translateError(err)
	}
	return nil
}

// AddMembership appends a membership unless the user already has one for the
// same org. It reports whether a membership was added; ErrNotFound means the
// user does not exist.
func (s *UserStore) AddMembership(ctx context.Context, tokenIdentifier string, membership models.OrgMembership) (bool, error) {
	result, err := s.collection.UpdateOne(ctx,
		addMembershipFilter(tokenIdentifier, membership.OrgID),
		bson.M{
			"$push": bson.M{"org_ids": membership},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add membership: %w", err)
	}
	if result.MatchedCount == 1 {
		return true, nil
	}

	// Nothing matched: either the user is missing or the org is already there.
	if _, err := s.FindByToken(ctx, tokenIdentifier); err != nil {
		return false, err
	}
	return false, nil
}

func (s *UserStore) SetMembershipRole(ctx context.Context, tokenIdentifier, orgID string, role models.Role) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"token_identifier": tokenIdentifier, "org_ids.org_id": orgID},
		bson.M{"$set": bson.M{"org_ids.$.role": role, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update membership role: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, tokenIdentifier string, profile models.Profile) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"token_identifier": tokenIdentifier},
		bson.M{"$set": bson.M{"name": profile.Name, "image": profile.Image, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func addMembershipFilter(tokenIdentifier, orgID string) bson.M {
	return bson.M{
		"token_identifier": tokenIdentifier,
		"org_ids.org_id":   bson.M{"$ne": orgID},
	}
}

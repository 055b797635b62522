package services

import (
	"context"

	"orgdrive/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the persistence the identity resolver and access gate need.
// *store.UserStore satisfies it.
type UserStore interface {
	FindByToken(ctx context.Context, tokenIdentifier string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	AddMembership(ctx context.Context, tokenIdentifier string, membership models.OrgMembership) (bool, error)
	SetMembershipRole(ctx context.Context, tokenIdentifier, orgID string, role models.Role) error
	UpdateProfile(ctx context.Context, tokenIdentifier string, profile models.Profile) error
}

type FileStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.File, error)
	Insert(ctx context.Context, file *models.File) error
	SetShouldDelete(ctx context.Context, id primitive.ObjectID, shouldDelete bool) error
	ListByOrg(ctx context.Context, orgID string) ([]models.File, error)
	ListMarkedForDeletion(ctx context.Context) ([]models.File, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FavoriteStore interface {
	Find(ctx context.Context, userID primitive.ObjectID, orgID string, fileID primitive.ObjectID) (*models.Favorite, error)
	Insert(ctx context.Context, favorite *models.Favorite) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByUserOrg(ctx context.Context, userID primitive.ObjectID, orgID string) ([]models.Favorite, error)
	DeleteByFile(ctx context.Context, fileID primitive.ObjectID) (int64, error)
}

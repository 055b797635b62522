package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orgdrive/models"
	"orgdrive/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrgAccess struct {
	User *models.User
}

type FileAccess struct {
	User *models.User
	File *models.File
}

// AccessService decides whether a caller may act inside an org or on a file.
// Denials are (nil, nil); errors mean the decision could not be made.
type AccessService struct {
	users UserStore
	files FileStore
}

func NewAccessService(users UserStore, files FileStore) *AccessService {
	return &AccessService{users: users, files: files}
}

// AuthorizeOrg grants access when the caller's user is a member of orgID, or
// when orgID is the caller's personal workspace (its id is part of the token
// identifier).
func (s *AccessService) AuthorizeOrg(ctx context.Context, caller models.Caller, orgID string) (*OrgAccess, error) {
	if !caller.Authenticated() || orgID == "" {
		return nil, nil
	}

	user, err := s.users.FindByToken(ctx, caller.TokenIdentifier)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}

	if !hasOrgAccess(user, orgID) {
		return nil, nil
	}
	return &OrgAccess{User: user}, nil
}

// AuthorizeFile resolves fileID and checks org access for its org. Malformed
// and unknown ids are denials.
func (s *AccessService) AuthorizeFile(ctx context.Context, caller models.Caller, fileID string) (*FileAccess, error) {
	if !caller.Authenticated() {
		return nil, nil
	}

	id, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil
	}

	file, err := s.files.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}

	access, err := s.AuthorizeOrg(ctx, caller, file.OrgID)
	if err != nil || access == nil {
		return nil, err
	}
	return &FileAccess{User: access.User, File: file}, nil
}

// CanMutateLifecycle reports whether user may trash or restore file: the
// owner always can, and so can any admin of the file's org.
func CanMutateLifecycle(user *models.User, file *models.File) bool {
	if user == nil || file == nil {
		return false
	}
	return file.OwnerID == user.ID || user.IsAdminOf(file.OrgID)
}

func hasOrgAccess(user *models.User, orgID string) bool {
	if _, ok := user.Membership(orgID); ok {
		return true
	}
	return strings.Contains(user.TokenIdentifier, orgID)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"orgdrive/models"
	"orgdrive/store"
	"orgdrive/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdentityService maps token identifiers onto stored users and keeps their
// org memberships in sync with the identity provider.
type IdentityService struct {
	users UserStore
}

func NewIdentityService(users UserStore) *IdentityService {
	return &IdentityService{users: users}
}

// Resolve returns the user for tokenIdentifier or ErrUserNotFound.
func (s *IdentityService) Resolve(ctx context.Context, tokenIdentifier string) (*models.User, error) {
	user, err := s.users.FindByToken(ctx, tokenIdentifier)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return user, nil
}

// EnsureCreated inserts a user with no memberships. Redelivered webhooks hit
// the unique token index and are treated as success.
func (s *IdentityService) EnsureCreated(ctx context.Context, tokenIdentifier string, profile models.Profile) error {
	user := &models.User{
		TokenIdentifier: tokenIdentifier,
		Name:            profile.Name,
		Image:           profile.Image,
		Memberships:     []models.OrgMembership{},
	}

	err := s.users.Insert(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		utils.Component("identity").WithField("token_identifier", tokenIdentifier).Debug("user already exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	utils.Component("identity").WithField("user_id", user.ID.Hex()).Info("user created")
	return nil
}

// AddMembership appends {orgID, role} to the user's memberships. An empty role
// means member. Adding an org the user already belongs to is a no-op.
func (s *IdentityService) AddMembership(ctx context.Context, tokenIdentifier, orgID string, role models.Role) error {
	if role == "" {
		role = models.RoleMember
	}

	added, err := s.users.AddMembership(ctx, tokenIdentifier, models.OrgMembership{OrgID: orgID, Role: role})
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	utils.Component("identity").WithFields(map[string]interface{}{
		"token_identifier": tokenIdentifier,
		"org_id":           orgID,
		"role":             role,
		"added":            added,
	}).Info("membership synced")
	return nil
}

// SetMembershipRole updates the user's role in orgID. A role update for a
// membership we never saw created adds it, so out-of-order webhooks converge.
// ErrUserNotFound is only returned when the user itself is unknown.
func (s *IdentityService) SetMembershipRole(ctx context.Context, tokenIdentifier, orgID string, role models.Role) error {
	err := s.users.SetMembershipRole(ctx, tokenIdentifier, orgID, role)
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	added, err := s.users.AddMembership(ctx, tokenIdentifier, models.OrgMembership{OrgID: orgID, Role: role})
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if !added {
		// Created concurrently with a possibly different role.
		return s.users.SetMembershipRole(ctx, tokenIdentifier, orgID, role)
	}

	utils.Component("identity").WithFields(map[string]interface{}{
		"token_identifier": tokenIdentifier,
		"org_id":           orgID,
		"role":             role,
	}).Warn("role update for unknown membership, membership added")
	return nil
}

func (s *IdentityService) UpdateProfile(ctx context.Context, tokenIdentifier string, profile models.Profile) error {
	err := s.users.UpdateProfile(ctx, tokenIdentifier, profile)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// GetMe returns the caller's own user record.
func (s *IdentityService) GetMe(ctx context.Context, caller models.Caller) (*models.User, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.Resolve(ctx, caller.TokenIdentifier)
}

// GetUserProfile returns the public name and image of another user.
func (s *IdentityService) GetUserProfile(ctx context.Context, caller models.Caller, userID string) (*models.Profile, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &models.Profile{Name: user.Name, Image: user.Image}, nil
}

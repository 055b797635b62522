package services

import (
	"context"
	"errors"
	"fmt"

	"orgdrive/models"
	"orgdrive/store"
)

type FavoriteService struct {
	favorites FavoriteStore
	access    *AccessService
}

func NewFavoriteService(favorites FavoriteStore, access *AccessService) *FavoriteService {
	return &FavoriteService{favorites: favorites, access: access}
}

// Toggle favorites the file when it is not yet a favorite of the caller and
// unfavorites it otherwise. It returns the resulting state.
func (s *FavoriteService) Toggle(ctx context.Context, caller models.Caller, fileID string) (bool, error) {
	if !caller.Authenticated() {
		return false, ErrUnauthenticated
	}

	access, err := s.access.AuthorizeFile(ctx, caller, fileID)
	if err != nil {
		return false, err
	}
	if access == nil {
		return false, denied("favorite this file")
	}

	user, file := access.User, access.File
	existing, err := s.favorites.Find(ctx, user.ID, file.OrgID, file.ID)
	switch {
	case err == nil:
		if err := s.favorites.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	case !errors.Is(err, store.ErrNotFound):
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}

	err = s.favorites.Insert(ctx, &models.Favorite{UserID: user.ID, OrgID: file.OrgID, FileID: file.ID})
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent toggle inserted the same favorite first.
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

// ListForOrg returns the caller's favorites in orgID, or nothing when the
// caller has no access to the org.
func (s *FavoriteService) ListForOrg(ctx context.Context, caller models.Caller, orgID string) ([]models.Favorite, error) {
	access, err := s.access.AuthorizeOrg(ctx, caller, orgID)
	if err != nil {
		return nil, err
	}
	if access == nil {
		return []models.Favorite{}, nil
	}
	return s.favorites.ListByUserOrg(ctx, access.User.ID, orgID)
}

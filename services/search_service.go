package services

import (
	"context"
	"strings"

	"orgdrive/models"
	"orgdrive/storage"
	"orgdrive/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileFilter narrows a file listing. The zero value lists every active file.
type FileFilter struct {
	Query         string
	FavoritesOnly bool
	DeletedOnly   bool
	Type          models.FileType
}

type SearchService struct {
	files     FileStore
	favorites FavoriteStore
	blobs     storage.BlobStore
	access    *AccessService
}

func NewSearchService(files FileStore, favorites FavoriteStore, blobs storage.BlobStore, access *AccessService) *SearchService {
	return &SearchService{files: files, favorites: favorites, blobs: blobs, access: access}
}

// ListFiles returns the org's files matching filter in scan order, each with a
// fresh download URL. Callers without access get an empty list.
func (s *SearchService) ListFiles(ctx context.Context, caller models.Caller, orgID string, filter FileFilter) ([]models.FileListing, error) {
	access, err := s.access.AuthorizeOrg(ctx, caller, orgID)
	if err != nil {
		return nil, err
	}
	if access == nil {
		return []models.FileListing{}, nil
	}

	files, err := s.files.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	var favorites []models.Favorite
	if filter.FavoritesOnly {
		favorites, err = s.favorites.ListByUserOrg(ctx, access.User.ID, orgID)
		if err != nil {
			return nil, err
		}
	}

	matched := applyFileFilters(files, favorites, filter)
	return s.withDownloadURLs(ctx, matched), nil
}

func (s *SearchService) withDownloadURLs(ctx context.Context, files []models.File) []models.FileListing {
	listings := make([]models.FileListing, 0, len(files))
	for _, file := range files {
		url, err := s.blobs.ResolveDownloadURL(ctx, file.StorageRef)
		if err != nil {
			utils.Component("search").WithError(err).WithField("file_id", file.ID.Hex()).Warn("failed to resolve download URL")
		}
		listings = append(listings, models.FileListing{File: file, URL: url})
	}
	return listings
}

// applyFileFilters keeps the order of files. favorites is only consulted when
// filter.FavoritesOnly is set.
func applyFileFilters(files []models.File, favorites []models.Favorite, filter FileFilter) []models.File {
	query := strings.ToLower(filter.Query)

	var favoriteIDs map[primitive.ObjectID]struct{}
	if filter.FavoritesOnly {
		favoriteIDs = make(map[primitive.ObjectID]struct{}, len(favorites))
		for _, f := range favorites {
			favoriteIDs[f.FileID] = struct{}{}
		}
	}

	result := []models.File{}
	for _, file := range files {
		if query != "" && !strings.Contains(strings.ToLower(file.Name), query) {
			continue
		}
		if favoriteIDs != nil {
			if _, ok := favoriteIDs[file.ID]; !ok {
				continue
			}
		}
		if file.ShouldDelete != filter.DeletedOnly {
			continue
		}
		if filter.Type != "" && file.Type != filter.Type {
			continue
		}
		result = append(result, file)
	}
	return result
}

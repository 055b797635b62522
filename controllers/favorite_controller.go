package controllers

import (
	"context"

	"orgdrive/middleware"
	"orgdrive/models"
	"orgdrive/utils"

	"github.com/gin-gonic/gin"
)

type FavoriteToggler interface {
	Toggle(ctx context.Context, caller models.Caller, fileID string) (bool, error)
	ListForOrg(ctx context.Context, caller models.Caller, orgID string) ([]models.Favorite, error)
}

type FavoriteController struct {
	favorites FavoriteToggler
}

func NewFavoriteController(favorites FavoriteToggler) *FavoriteController {
	return &FavoriteController{favorites: favorites}
}

func (fc *FavoriteController) ToggleFavorite(c *gin.Context) {
	favorited, err := fc.favorites.Toggle(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	message := "File removed from favorites"
	if favorited {
		message = "File added to favorites"
	}
	utils.SuccessResponse(c, message, gin.H{"favorited": favorited})
}

func (fc *FavoriteController) ListFavorites(c *gin.Context) {
	favorites, err := fc.favorites.ListForOrg(c.Request.Context(), middleware.CallerFrom(c), c.Param("orgId"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Favorites retrieved", favorites)
}

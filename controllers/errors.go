package controllers

import (
	"errors"

	"orgdrive/services"
	"orgdrive/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Anything unrecognised
// is an upstream failure and is logged before a generic 500 is returned.
func respondError(c *gin.Context, err error) {
	var permErr *services.PermissionError

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c, err.Error())
	case errors.As(err, &permErr):
		utils.ForbiddenResponse(c, permErr.Error())
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidFileType), errors.Is(err, services.ErrInvalidFileName):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrBlobMissing), errors.Is(err, services.ErrStorageRefInUse):
		utils.ConflictResponse(c, err.Error(), nil)
	default:
		utils.Component("http").WithError(err).WithField("path", c.FullPath()).Error("request failed")
		utils.InternalServerErrorResponse(c, "Internal server error", nil)
	}
}

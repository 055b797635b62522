package controllers

import (
	"context"

	"orgdrive/middleware"
	"orgdrive/models"
	"orgdrive/utils"

	"github.com/gin-gonic/gin"
)

type UserDirectory interface {
	GetMe(ctx context.Context, caller models.Caller) (*models.User, error)
	GetUserProfile(ctx context.Context, caller models.Caller, userID string) (*models.Profile, error)
}

type UserController struct {
	users UserDirectory
}

func NewUserController(users UserDirectory) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) GetMe(c *gin.Context) {
	user, err := uc.users.GetMe(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "User retrieved", user)
}

func (uc *UserController) GetUserProfile(c *gin.Context) {
	profile, err := uc.users.GetUserProfile(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Profile retrieved", profile)
}

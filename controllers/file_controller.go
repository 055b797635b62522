package controllers

import (
	"context"

	"orgdrive/middleware"
	"orgdrive/models"
	"orgdrive/services"
	"orgdrive/storage"
	"orgdrive/utils"

	"github.com/gin-gonic/gin"
)

type FileLifecycle interface {
	GenerateUploadURL(ctx context.Context, caller models.Caller) (*storage.UploadTarget, error)
	CreateFile(ctx context.Context, caller models.Caller, req services.CreateFileRequest) (*models.File, error)
	MarkForDeletion(ctx context.Context, caller models.Caller, fileID string) (*models.File, error)
	Restore(ctx context.Context, caller models.Caller, fileID string) (*models.File, error)
}

type FileLister interface {
	ListFiles(ctx context.Context, caller models.Caller, orgID string, filter services.FileFilter) ([]models.FileListing, error)
}

type FileController struct {
	files  FileLifecycle
	search FileLister
}

func NewFileController(files FileLifecycle, search FileLister) *FileController {
	return &FileController{files: files, search: search}
}

type listFilesQuery struct {
	Query       string `form:"query"`
	Favorites   bool   `form:"favorites"`
	DeletedOnly bool   `form:"deletedOnly"`
	Type        string `form:"type"`
}

func (fc *FileController) GenerateUploadURL(c *gin.Context) {
	target, err := fc.files.GenerateUploadURL(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Upload URL generated", target)
}

func (fc *FileController) CreateFile(c *gin.Context) {
	var req services.CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	req.OrgID = c.Param("orgId")

	file, err := fc.files.CreateFile(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, "File created", file)
}

func (fc *FileController) ListFiles(c *gin.Context) {
	var q listFilesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters", err.Error())
		return
	}
	var fileType models.FileType
	if q.Type != "" {
		ft, err := models.ParseFileType(q.Type)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid query parameters", err.Error())
			return
		}
		fileType = ft
	}

	files, err := fc.search.ListFiles(c.Request.Context(), middleware.CallerFrom(c), c.Param("orgId"), services.FileFilter{
		Query:         q.Query,
		FavoritesOnly: q.Favorites,
		DeletedOnly:   q.DeletedOnly,
		Type:          fileType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Files retrieved", files)
}

func (fc *FileController) TrashFile(c *gin.Context) {
	file, err := fc.files.MarkForDeletion(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "File moved to trash", file)
}

func (fc *FileController) RestoreFile(c *gin.Context) {
	file, err := fc.files.Restore(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "File restored", file)
}

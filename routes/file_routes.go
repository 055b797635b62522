package routes

import (
	"orgdrive/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterFileRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	fileController := controllers.NewFileController(container.Files, container.Search)

	files := rg.Group("/files")
	{
		files.POST("/upload-url", fileController.GenerateUploadURL) // POST /files/upload-url
		files.PATCH("/:id/trash", fileController.TrashFile)         // PATCH /files/:id/trash (soft delete)
		files.PATCH("/:id/restore", fileController.RestoreFile)     // PATCH /files/:id/restore
	}

	orgs := rg.Group("/orgs/:orgId")
	{
		orgs.POST("/files", fileController.CreateFile) // POST /orgs/:orgId/files
		orgs.GET("/files", fileController.ListFiles)   // GET /orgs/:orgId/files?query=&favorites=&deletedOnly=&type=
	}
}

func RegisterFavoriteRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	favoriteController := controllers.NewFavoriteController(container.Favorites)

	rg.POST("/files/:id/favorite", favoriteController.ToggleFavorite)
	rg.GET("/orgs/:orgId/favorites", favoriteController.ListFavorites)
}

func RegisterUserRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	userController := controllers.NewUserController(container.Identity)

	users := rg.Group("/users")
	{
		users.GET("/me", userController.GetMe)
		users.GET("/:id/profile", userController.GetUserProfile)
	}
}

func RegisterWebhookRoutes(rg *gin.RouterGroup, container *ServiceContainer, auth AuthConfig) {
	webhookController := controllers.NewWebhookController(container.Identity, auth.WebhookSecret)
	rg.POST("/webhooks/identity", webhookController.HandleIdentityEvent)
}

// RegisterUploadRoutes exposes the proxied upload endpoint when it is enabled
// and the blob store accepts bytes through this service.
func RegisterUploadRoutes(rg *gin.RouterGroup, container *ServiceContainer, upload UploadConfig) {
	if !upload.Enabled {
		return
	}
	writer, ok := container.Blobs.(controllers.BlobWriter)
	if !ok {
		return
	}
	uploadController := controllers.NewUploadController(writer, upload.TicketSecret, upload.MaxFileSize)
	rg.PUT("/uploads/:ticket", uploadController.Upload)
}

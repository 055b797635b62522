package routes

import (
	"orgdrive/middleware"
	"orgdrive/services"
	"orgdrive/storage"
	"orgdrive/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthConfig holds what the HTTP layer needs to authenticate callers and
// identity provider webhooks.
type AuthConfig struct {
	JWTSecret     string
	JWTIssuer     string
	WebhookSecret string
}

// UploadConfig configures proxied uploads. Enabled is only set for stores
// whose upload targets point back at this service.
type UploadConfig struct {
	Enabled      bool
	TicketSecret string
	MaxFileSize  int64
}

// ServiceContainer holds all services and dependencies
type ServiceContainer struct {
	DB            *mongo.Database
	Blobs         storage.BlobStore
	Identity      *services.IdentityService
	Access        *services.AccessService
	Files         *services.FileService
	Favorites     *services.FavoriteService
	Search        *services.SearchService
	Trash         *services.TrashService
	Notifications *services.NotificationService
}

// NewServiceContainer wires the services over the Mongo stores and the blob
// store.
func NewServiceContainer(db *mongo.Database, blobs storage.BlobStore, notifications *services.NotificationService) *ServiceContainer {
	users := store.NewUserStore(db)
	files := store.NewFileStore(db)
	favorites := store.NewFavoriteStore(db)

	access := services.NewAccessService(users, files)

	return &ServiceContainer{
		DB:            db,
		Blobs:         blobs,
		Identity:      services.NewIdentityService(users),
		Access:        access,
		Files:         services.NewFileService(files, blobs, access, notifications),
		Favorites:     services.NewFavoriteService(favorites, access),
		Search:        services.NewSearchService(files, favorites, blobs, access),
		Trash:         services.NewTrashService(files, favorites, blobs, notifications),
		Notifications: notifications,
	}
}

// SetupRoutesWithContainer configures all API routes using a service container
func SetupRoutesWithContainer(api *gin.RouterGroup, container *ServiceContainer, auth AuthConfig, upload UploadConfig) {
	RegisterWebhookRoutes(api, container, auth)
	RegisterUploadRoutes(api, container, upload)

	authed := api.Group("")
	authed.Use(middleware.OptionalAuth(auth.JWTSecret, auth.JWTIssuer))

	RegisterFileRoutes(authed, container)
	RegisterFavoriteRoutes(authed, container)
	RegisterUserRoutes(authed, container)
}

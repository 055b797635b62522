package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"orgdrive/cache"
	"orgdrive/config"
	"orgdrive/events"
	"orgdrive/routes"
	"orgdrive/services"
	"orgdrive/storage"
	"orgdrive/store"
	"orgdrive/utils"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// app owns the process-wide connections shared by every command.
type app struct {
	cfg       *config.Config
	mongo     *mongo.Client
	container *routes.ServiceContainer
	closers   []func() error
}

func bootstrap(ctx context.Context) (*app, error) {
	// Load .env before config.LoadConfig reads the environment.
	loadEnvFile()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	utils.InitLogger(utils.LogConfig{Level: cfg.LogLevel, File: cfg.LogFile, MaxSizeMB: 100, MaxBackups: 5})
	cfg.LogConfig()

	if err := utils.RegisterValidators(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	if err := a.connectMongo(ctx); err != nil {
		return nil, err
	}

	blobs, err := a.openBlobStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	notifications := services.NewNotificationService(a.openPublisher())
	a.container = routes.NewServiceContainer(a.mongo.Database(cfg.DatabaseName), blobs, notifications)
	return a, nil
}

func (a *app) connectMongo(ctx context.Context) error {
	log := utils.Component("mongo")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(a.cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.mongo = client
	a.closers = append(a.closers, func() error {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		return client.Disconnect(disconnectCtx)
	})

	if err := client.Ping(connectCtx, nil); err != nil {
		a.Close()
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	if err := store.EnsureIndexes(connectCtx, client.Database(a.cfg.DatabaseName)); err != nil {
		a.Close()
		return err
	}

	log.WithField("database", a.cfg.DatabaseName).Info("connected to MongoDB")
	return nil
}

func (a *app) openBlobStore(ctx context.Context) (storage.BlobStore, error) {
	cfg := a.cfg

	var blobs storage.BlobStore
	switch cfg.BlobProvider {
	case config.BlobProviderMinIO:
		s, err := storage.NewMinIOStore(ctx, storage.MinIOConfig{
			Endpoint:    cfg.MinIOEndpoint,
			AccessKey:   cfg.MinIOAccessKey,
			SecretKey:   cfg.MinIOSecretKey,
			Bucket:      cfg.MinIOBucket,
			UseSSL:      cfg.MinIOUseSSL,
			UploadTTL:   cfg.UploadTicketTTL,
			DownloadTTL: cfg.DownloadURLTTL,
		})
		if err != nil {
			return nil, err
		}
		blobs = s
	default:
		s, err := storage.NewB2Store(ctx, storage.B2Config{
			KeyID:          cfg.B2ApplicationKeyID,
			ApplicationKey: cfg.B2ApplicationKey,
			BucketName:     cfg.B2BucketName,
			PublicBaseURL:  cfg.PublicBaseURL,
			TicketSecret:   cfg.UploadTicketSecret,
			TicketTTL:      cfg.UploadTicketTTL,
			DownloadTTL:    cfg.DownloadURLTTL,
		})
		if err != nil {
			return nil, err
		}
		blobs = s
	}
	utils.Component("storage").WithField("provider", cfg.BlobProvider).Info("blob store ready")

	if cfg.RedisURL == "" {
		return blobs, nil
	}

	urlCache, err := cache.NewRedisURLCache(ctx, cfg.RedisURL)
	if err != nil {
		// The cache is an optimisation; run without it.
		utils.Component("cache").WithError(err).Warn("redis unavailable, download URLs will not be cached")
		return blobs, nil
	}
	a.closers = append(a.closers, urlCache.Close)
	return storage.NewCachedBlobStore(blobs, urlCache, cfg.DownloadURLTTL), nil
}

func (a *app) openPublisher() events.Publisher {
	if a.cfg.NATSURL == "" {
		return events.Discard{}
	}

	publisher, err := events.ConnectNATS(a.cfg.NATSURL, a.cfg.EventsSubjectPrefix)
	if err != nil {
		utils.Component("nats").WithError(err).Warn("NATS unavailable, file events will not be published")
		return events.Discard{}
	}
	a.closers = append(a.closers, publisher.Close)
	return publisher
}

// Close releases connections in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			utils.LogError("failed to close resource", err)
		}
	}
	a.closers = nil
}

// loadEnvFile loads the first .env found in the working directory or its
// parents. A missing file is fine: the environment may already be set.
func loadEnvFile() {
	log := utils.Component("config")

	pwd, err := os.Getwd()
	if err != nil {
		log.WithError(err).Warn("could not get working directory")
		return
	}

	envPaths := []string{
		filepath.Join(pwd, ".env"),
		filepath.Join(filepath.Dir(pwd), ".env"),
		filepath.Join(filepath.Dir(filepath.Dir(pwd)), ".env"),
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			log.WithError(err).WithField("path", envPath).Warn("failed to load .env")
			continue
		}
		log.WithField("path", envPath).Info("loaded environment variables")
		return
	}

	log.Debug("no .env file found, using system environment variables")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"orgdrive/config"
	"orgdrive/jobs"
	"orgdrive/middleware"
	"orgdrive/routes"
	"orgdrive/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the trash cleaner",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg.AllowedOrigins))

	api := router.Group("/api")
	routes.SetupRoutesWithContainer(api, a.container,
		routes.AuthConfig{
			JWTSecret:     cfg.IdentityJWTSecret,
			JWTIssuer:     cfg.IdentityJWTIssuer,
			WebhookSecret: cfg.WebhookSecret,
		},
		routes.UploadConfig{
			Enabled:      cfg.BlobProvider == config.BlobProviderB2,
			TicketSecret: cfg.UploadTicketSecret,
			MaxFileSize:  cfg.MaxFileSize,
		},
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	go jobs.NewTrashCleaner(a.container.Trash, cfg.PurgeInterval).Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Component("server").WithField("port", cfg.Port).Info("starting orgdrive server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.Component("server").Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

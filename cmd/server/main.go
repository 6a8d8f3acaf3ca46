package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AriAlanPR/image-gallery-saver/gallery/application"
	"github.com/AriAlanPR/image-gallery-saver/gallery/domain"
	"github.com/AriAlanPR/image-gallery-saver/gallery/persistence"
	"github.com/AriAlanPR/image-gallery-saver/internal/channel"
	"github.com/AriAlanPR/image-gallery-saver/internal/config"
	"github.com/AriAlanPR/image-gallery-saver/internal/logging"
	"github.com/AriAlanPR/image-gallery-saver/internal/middleware"
	"github.com/AriAlanPR/image-gallery-saver/internal/rest"
	"github.com/AriAlanPR/image-gallery-saver/shared/db/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	database := sqlite.NewSQLiteDB(&cfg.SQLite)
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.SQLite.Path).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	index := persistence.NewMediaIndex(database.DB(), cfg.Platform.StorageRoot)
	platform := application.Platform{
		APILevel: cfg.Platform.APILevel,
		Scoped:   persistence.NewScopedBackend(index),
		Legacy:   persistence.NewLegacyBackend(cfg.Platform.PicturesDir, cfg.Platform.DownloadsDir),
	}

	// media routes only make sense where saves go through the index
	var mediaIndex domain.MediaIndex
	if platform.SupportsScopedStorage() {
		mediaIndex = index
	}

	methods := channel.NewMethodHandler(application.NewGallerySaver(platform))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, methods, mediaIndex, database)

	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: router,
	}

	go func() {
		log.Info().
			Str("address", cfg.Address).
			Int("api_level", platform.APILevel).
			Bool("scoped_storage", platform.SupportsScopedStorage()).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
		return
	}

	log.Info().Msg("Server stopped")
}

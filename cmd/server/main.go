package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baker339/DOGR/internal/router"
	"github.com/baker339/DOGR/pkg/config"
	"github.com/baker339/DOGR/pkg/firebase"
	"github.com/baker339/DOGR/pkg/logger"
	"github.com/baker339/DOGR/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		Path:       cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	defer log.Sync()
	zap.ReplaceGlobals(log)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// Firebase is needed for auth in firebase mode and for image storage in any mode
	var firebaseApp *firebase.App
	if cfg.AuthMode == "firebase" || cfg.FirebaseStorageBucket != "" {
		firebaseApp, err = firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
		if err != nil {
			log.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, cfg, log)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, router.Deps{Config: cfg, DB: db, Firebase: firebaseApp, Logger: log}); err != nil {
		log.Fatal("Failed to set up routes", zap.Error(err))
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
